package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"go.uber.org/zap"
)

const (
	ReceiptsPath            = "/store-asset-receipt"
	AssetsPath              = "/assets"
	ConditionsPath          = "/conditions"
	OperationalStatusesPath = "/operational-statuses"
	LocationsPath           = "/locations"
)

// Resource is a REST collection of T under path.
type Resource[T any] struct {
	client       *Client
	path         string
	updateMethod string
}

// NewResource binds path on c. updateMethod is the verb the backend expects
// for updates of this kind.
func NewResource[T any](c *Client, path, updateMethod string) *Resource[T] {
	return &Resource[T]{client: c, path: path, updateMethod: updateMethod}
}

func (r *Resource[T]) itemPath(id int) string {
	return r.path + "/" + strconv.Itoa(id)
}

// List never fails: a failed fetch is logged and yields an empty collection.
func (r *Resource[T]) List(ctx context.Context, params url.Values) []T {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, params, nil, &items); err != nil {
		r.client.logger.Warn("Failed to fetch collection", zap.String("path", r.path), zap.Error(err))
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func (r *Resource[T]) Get(ctx context.Context, id int) (T, error) {
	var item T
	if err := r.client.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item); err != nil {
		return item, fmt.Errorf("get %s: %w", r.itemPath(id), err)
	}
	return item, nil
}

func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	return r.mutate(ctx, http.MethodPost, r.path, item)
}

func (r *Resource[T]) Update(ctx context.Context, id int, item T) (T, error) {
	return r.mutate(ctx, r.updateMethod, r.itemPath(id), item)
}

func (r *Resource[T]) Remove(ctx context.Context, id int) error {
	if err := r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete %s: %w", r.itemPath(id), err)
	}
	return nil
}

// mutate sends item and returns whatever record the backend echoes back. A
// body that is not a record, such as a bare message, yields the zero T.
func (r *Resource[T]) mutate(ctx context.Context, method, path string, item T) (T, error) {
	var (
		raw    json.RawMessage
		result T
	)
	if err := r.client.Do(ctx, method, path, nil, item, &raw); err != nil {
		return result, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			r.client.logger.Debug("Mutation response is not a record", zap.String("path", path), zap.Error(err))
		}
	}
	return result, nil
}

// History returns the change log of item id, oldest first.
func (r *Resource[T]) History(ctx context.Context, id int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	path := r.itemPath(id) + "/history"
	if err := r.client.Do(ctx, http.MethodGet, path, nil, nil, &entries); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return entries, nil
}

// Backend groups the resources the receipt screens use.
type Backend struct {
	Receipts            *Resource[models.AssetReceipt]
	Assets              *Resource[models.Asset]
	Conditions          *Resource[models.Condition]
	OperationalStatuses *Resource[models.OperationalStatus]
	Locations           *Resource[models.Location]
}

func NewBackend(c *Client) *Backend {
	return &Backend{
		Receipts:            NewResource[models.AssetReceipt](c, ReceiptsPath, http.MethodPut),
		Assets:              NewResource[models.Asset](c, AssetsPath, http.MethodPost),
		Conditions:          NewResource[models.Condition](c, ConditionsPath, http.MethodPut),
		OperationalStatuses: NewResource[models.OperationalStatus](c, OperationalStatusesPath, http.MethodPut),
		Locations:           NewResource[models.Location](c, LocationsPath, http.MethodPut),
	}
}
