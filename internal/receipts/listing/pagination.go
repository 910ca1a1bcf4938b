package listing

// Page is one page of a filtered collection plus what the pager shows.
type Page[T any] struct {
	Items      []T
	Number     int // 1-based
	Size       int
	TotalItems int
	TotalPages int // 0 for an empty collection
	From       int // 1-based position of the first visible item, 0 when empty
	To         int
}

// HasPrevious and HasNext drive the pager buttons.
func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.TotalPages
}

// TotalPages is ceil(count/size).
func TotalPages(count, size int) int {
	if size < 1 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Paginate cuts page number (1-based) of the given size out of items. Pages
// past the end are empty rather than clamped; callers keep the page number in
// range through View.
func Paginate[T any](items []T, size, number int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	if number < 1 {
		number = 1
	}

	page := Page[T]{
		Number:     number,
		Size:       size,
		TotalItems: len(items),
		TotalPages: TotalPages(len(items), size),
	}

	start := (number - 1) * size
	if start >= len(items) {
		page.Items = []T{}
		return page
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	page.Items = items[start:end]
	page.From = start + 1
	page.To = end
	return page
}
