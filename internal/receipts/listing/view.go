package listing

import (
	"fmt"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
)

const DefaultPageSize = 10

// PageSizeOptions are the sizes offered by the rows-per-page selector.
var PageSizeOptions = []int{5, 10, 20, 50}

// View is the list screen state: search term, filters and pager position.
// Any change to what is being listed sends the pager back to page 1.
type View struct {
	search   string
	filters  Filters
	page     int
	pageSize int
}

func NewView(pageSize int) *View {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &View{page: 1, pageSize: pageSize}
}

func (v *View) Search() string   { return v.search }
func (v *View) Filters() Filters { return v.filters }
func (v *View) Page() int        { return v.page }
func (v *View) PageSize() int    { return v.pageSize }

func (v *View) SetSearch(term string) {
	v.search = term
	v.page = 1
}

func (v *View) SetFilters(f Filters) {
	v.filters = f
	v.page = 1
}

func (v *View) SetPageSize(size int) error {
	if size < 1 {
		return fmt.Errorf("page size must be positive, got %d", size)
	}
	v.pageSize = size
	v.page = 1
	return nil
}

// ClearFilters drops both the search term and the filters.
func (v *View) ClearFilters() {
	v.search = ""
	v.filters = Filters{}
	v.page = 1
}

// GoTo jumps to page, clamped to the available pages.
func (v *View) GoTo(page, totalPages int) {
	v.page = clamp(page, totalPages)
}

func (v *View) First(totalPages int) {
	v.GoTo(1, totalPages)
}

func (v *View) Previous(totalPages int) {
	v.GoTo(v.page-1, totalPages)
}

func (v *View) Next(totalPages int) {
	v.GoTo(v.page+1, totalPages)
}

func (v *View) Last(totalPages int) {
	v.GoTo(totalPages, totalPages)
}

// Fit pulls the stored page back into range after the collection changed.
func (v *View) Fit(totalPages int) {
	v.page = clamp(v.page, totalPages)
}

// Apply filters receipts and returns the current page. It does not modify the
// view: a stored page past the end is shown as the last page until Fit runs.
func (v *View) Apply(receipts []models.AssetReceipt, assets []models.Asset) Page[models.AssetReceipt] {
	filtered := Filter(receipts, assets, v.search, v.filters)
	return Paginate(filtered, v.pageSize, clamp(v.page, TotalPages(len(filtered), v.pageSize)))
}

// clamp keeps page within [1, max(1, totalPages)]; an empty collection is
// shown as page 1 of 1.
func clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
