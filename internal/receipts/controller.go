// Package receipts drives the asset receipt screens: it moves between the
// list, create, edit and view states, gates each move on the session's
// permissions and talks to the backend through the stores it is given.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/opalaxis/beamsolopex-companion/internal/receipts/form"
	"github.com/opalaxis/beamsolopex-companion/internal/receipts/listing"
	"github.com/opalaxis/beamsolopex-companion/internal/receipts/validation"
	custom_error "github.com/opalaxis/beamsolopex-companion/pkg/errors"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"go.uber.org/zap"
)

const (
	MsgCreated       = "Asset receipt created successfully"
	MsgUpdated       = "Asset receipt updated successfully"
	MsgDeleted       = "Asset receipt deleted successfully"
	MsgFixValidation = "Please fix the validation errors"
	MsgSaveFailed    = "Failed to save asset receipt"
	MsgDeleteFailed  = "Failed to delete asset receipt"
)

var (
	ErrForbidden         = errors.New("not permitted")
	ErrBusy              = errors.New("a request is already in flight")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("asset receipt not found")
)

// ValidationError is returned by Submit when the draft has field errors.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", MsgFixValidation, e.Errors.Keys())
}

// ReceiptStore is the receipt resource of the backend. List never fails; a
// failed fetch yields an empty collection.
type ReceiptStore interface {
	List(ctx context.Context, params url.Values) []models.AssetReceipt
	Create(ctx context.Context, r models.AssetReceipt) (models.AssetReceipt, error)
	Update(ctx context.Context, id int, r models.AssetReceipt) (models.AssetReceipt, error)
	Remove(ctx context.Context, id int) error
}

type Lister[T any] interface {
	List(ctx context.Context, params url.Values) []T
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

type Dependencies struct {
	Receipts            ReceiptStore
	Assets              Lister[models.Asset]
	Locations           Lister[models.Location]
	Conditions          Lister[models.Condition]
	OperationalStatuses Lister[models.OperationalStatus]
	Auth                Authorizer
	Notifier            Notifier
	Logger              *zap.Logger
	PageSize            int
}

// Controller is safe for concurrent use. Its lock is released while backend
// calls are in flight; the busy flag keeps a second submit or delete out.
type Controller struct {
	mu sync.Mutex

	store    ReceiptStore
	deps     Dependencies
	access   Access
	notifier Notifier
	logger   *zap.Logger

	state         State
	editor        *form.Editor
	view          *listing.View
	receipts      []models.AssetReceipt
	refs          References
	pendingDelete *models.AssetReceipt
	busy          bool
}

func NewController(deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(Level, string) {})
	}
	return &Controller{
		store:    deps.Receipts,
		deps:     deps,
		access:   NewAccess(deps.Auth),
		notifier: notifier,
		logger:   logger,
		state:    ListState{},
		editor:   form.NewEditor(),
		view:     listing.NewView(deps.PageSize),
	}
}

// Load fetches the receipts and the four reference lists in parallel.
func (c *Controller) Load(ctx context.Context) {
	var (
		wg       sync.WaitGroup
		receipts []models.AssetReceipt
		refs     References
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		receipts = c.store.List(ctx, nil)
	}()
	go func() {
		defer wg.Done()
		refs.Assets = listOrEmpty(ctx, c.deps.Assets)
	}()
	go func() {
		defer wg.Done()
		refs.Locations = listOrEmpty(ctx, c.deps.Locations)
	}()
	go func() {
		defer wg.Done()
		refs.Conditions = listOrEmpty(ctx, c.deps.Conditions)
	}()
	go func() {
		defer wg.Done()
		refs.OperationalStatuses = listOrEmpty(ctx, c.deps.OperationalStatuses)
	}()
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.receipts = receipts
	c.refs = refs
	c.view.Fit(c.totalPages())
	c.logger.Debug("Loaded asset receipts",
		zap.Int("receipts", len(receipts)),
		zap.Int("assets", len(refs.Assets)),
		zap.Int("locations", len(refs.Locations)))
}

func listOrEmpty[T any](ctx context.Context, l Lister[T]) []T {
	if l == nil {
		return nil
	}
	return l.List(ctx, nil)
}

func (c *Controller) refresh(ctx context.Context) {
	receipts := c.store.List(ctx, nil)
	c.mu.Lock()
	c.receipts = receipts
	c.view.Fit(c.totalPages())
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Access() Access {
	return c.access
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Receipts returns the whole loaded collection, unfiltered.
func (c *Controller) Receipts() []models.AssetReceipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.AssetReceipt(nil), c.receipts...)
}

func (c *Controller) References() References {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs
}

func (c *Controller) Options() Options {
	return c.References().Options()
}

func (c *Controller) AssetName(ref models.Ref) string {
	return c.References().AssetName(ref)
}

// Find looks a receipt up by id in the loaded collection.
func (c *Controller) Find(id int) (models.AssetReceipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.receipts {
		if r.ID == id {
			return r, nil
		}
	}
	return models.AssetReceipt{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: %s while in %s", ErrInvalidTransition, action, c.state.Mode())
}

func (c *Controller) StartCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(ListState); !ok {
		return c.invalid("create")
	}
	if !c.access.CanCreate() {
		return fmt.Errorf("%w: create asset receipt", ErrForbidden)
	}
	c.editor.Reset()
	c.state = CreateState{}
	return nil
}

func (c *Controller) StartEdit(r models.AssetReceipt) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(ListState); !ok {
		return c.invalid("edit")
	}
	if !r.IsPersisted() {
		return fmt.Errorf("%w: receipt has no id", ErrInvalidTransition)
	}
	if !c.access.CanEdit(r) {
		return fmt.Errorf("%w: edit asset receipt %d", ErrForbidden, r.ID)
	}
	c.editor.Hydrate(r)
	c.state = EditState{ID: r.ID}
	return nil
}

func (c *Controller) StartView(r models.AssetReceipt) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(ListState); !ok {
		return c.invalid("view")
	}
	if !c.access.CanView() {
		return fmt.Errorf("%w: view asset receipt %d", ErrForbidden, r.ID)
	}
	c.state = ViewState{Receipt: r}
	return nil
}

// Cancel goes back to the list and throws the draft away.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(ListState); ok {
		return c.invalid("cancel")
	}
	if c.busy {
		return ErrBusy
	}
	c.editor.Reset()
	c.state = ListState{}
	return nil
}

// Edit runs fn against the draft editor. It is only allowed while creating
// or editing, and not while the draft is being saved.
func (c *Controller) Edit(fn func(e *form.Editor) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state.(type) {
	case CreateState, EditState:
	default:
		return c.invalid("edit draft")
	}
	if c.busy {
		return ErrBusy
	}
	return fn(c.editor)
}

func (c *Controller) Draft() *form.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Draft()
}

func (c *Controller) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Errors()
}

// Submit validates the draft and saves it. Field errors are kept on the
// editor and returned as a *ValidationError without calling the backend.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	var id int
	switch s := c.state.(type) {
	case CreateState:
	case EditState:
		id = s.ID
	default:
		err := c.invalid("submit")
		c.mu.Unlock()
		return err
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}

	errs := validation.Validate(c.editor.Draft())
	c.editor.SetErrors(errs)
	if !errs.Empty() {
		c.mu.Unlock()
		c.notifier.Notify(LevelError, MsgFixValidation)
		return &ValidationError{Errors: errs}
	}

	record := c.editor.Record()
	c.busy = true
	c.mu.Unlock()

	var err error
	if id != 0 {
		_, err = c.store.Update(ctx, id, record)
	} else {
		_, err = c.store.Create(ctx, record)
	}
	if err != nil {
		c.setBusy(false)
		c.logger.Error("Failed to save asset receipt", zap.Int("id", id), zap.Error(err))
		c.notifier.Notify(LevelError, custom_error.MessageOf(err, MsgSaveFailed))
		return fmt.Errorf("save asset receipt: %w", err)
	}

	if id != 0 {
		c.notifier.Notify(LevelSuccess, MsgUpdated)
	} else {
		c.notifier.Notify(LevelSuccess, MsgCreated)
	}
	c.refresh(ctx)

	c.mu.Lock()
	c.editor.Reset()
	c.state = ListState{}
	c.busy = false
	c.mu.Unlock()
	return nil
}

func (c *Controller) setBusy(busy bool) {
	c.mu.Lock()
	c.busy = busy
	c.mu.Unlock()
}

// RequestDelete marks r for deletion. Nothing is removed until ConfirmDelete.
func (c *Controller) RequestDelete(r models.AssetReceipt) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.state.(ListState); !ok {
		return c.invalid("delete")
	}
	if !r.IsPersisted() {
		return fmt.Errorf("%w: receipt has no id", ErrInvalidTransition)
	}
	if !c.access.CanDelete() {
		return fmt.Errorf("%w: delete asset receipt %d", ErrForbidden, r.ID)
	}
	c.pendingDelete = &r
	return nil
}

func (c *Controller) PendingDelete() (models.AssetReceipt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDelete == nil {
		return models.AssetReceipt{}, false
	}
	return *c.pendingDelete, true
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.busy {
		c.pendingDelete = nil
	}
}

// ConfirmDelete removes the pending receipt. On failure the pending receipt
// stays selected so the user can retry or cancel.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.pendingDelete == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no receipt selected for deletion", ErrInvalidTransition)
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	id := c.pendingDelete.ID
	c.busy = true
	c.mu.Unlock()

	if err := c.store.Remove(ctx, id); err != nil {
		c.setBusy(false)
		c.logger.Error("Failed to delete asset receipt", zap.Int("id", id), zap.Error(err))
		c.notifier.Notify(LevelError, custom_error.MessageOf(err, MsgDeleteFailed))
		return fmt.Errorf("delete asset receipt %d: %w", id, err)
	}

	c.notifier.Notify(LevelSuccess, MsgDeleted)
	c.refresh(ctx)

	c.mu.Lock()
	c.pendingDelete = nil
	c.busy = false
	c.mu.Unlock()
	return nil
}

func (c *Controller) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.SetSearch(term)
}

func (c *Controller) FilterBy(f listing.Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.SetFilters(f)
}

func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.ClearFilters()
}

func (c *Controller) SetPageSize(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.SetPageSize(n)
}

func (c *Controller) totalPages() int {
	matched := listing.Filter(c.receipts, c.refs.Assets, c.view.Search(), c.view.Filters())
	return listing.TotalPages(len(matched), c.view.PageSize())
}

func (c *Controller) GoToPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.GoTo(n, c.totalPages())
}

func (c *Controller) FirstPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.First(c.totalPages())
}

func (c *Controller) PreviousPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Previous(c.totalPages())
}

func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Next(c.totalPages())
}

func (c *Controller) LastPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Last(c.totalPages())
}

// Listing is the current page of the filtered collection. It only reads.
func (c *Controller) Listing() listing.Page[models.AssetReceipt] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Apply(c.receipts, c.refs.Assets)
}

// Filtered returns every receipt matching the current search and filters.
func (c *Controller) Filtered() []models.AssetReceipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return listing.Filter(c.receipts, c.refs.Assets, c.view.Search(), c.view.Filters())
}
