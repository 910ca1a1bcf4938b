// Package fixture is an in-memory stand-in for the inventory backend, used
// for local development and as the integration backend in tests.
package fixture

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/opalaxis/beamsolopex-companion/pkg/security"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("record not found")

// InvalidError is a rejected write; Message is shown to the client as is.
type InvalidError struct {
	Message string
}

func (e *InvalidError) Error() string {
	return e.Message
}

type MemoryStore struct {
	mu            sync.RWMutex
	receipts      map[int]models.AssetReceipt
	nextReceiptID int
	assets        map[int]models.Asset
	nextAssetID   int
	locations     []models.Location
	conditions    []models.Condition
	statuses      []models.OperationalStatus
	accounts      map[string]security.Account
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		receipts:      map[int]models.AssetReceipt{},
		nextReceiptID: 1,
		assets:        map[int]models.Asset{},
		nextAssetID:   1,
		accounts:      map[string]security.Account{},
		now:           time.Now,
	}
}

func (s *MemoryStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *MemoryStore) AddAccount(user models.User, password string, roles, permissions []string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.ToLower(user.Email)] = security.Account{
		User:         user,
		PasswordHash: hash,
		Roles:        roles,
		Permissions:  permissions,
	}
	return nil
}

func (s *MemoryStore) FindByEmail(email string) (security.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[strings.ToLower(email)]
	return a, ok
}

func (s *MemoryStore) SetLocations(locations ...models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append([]models.Location(nil), locations...)
}

func (s *MemoryStore) SetConditions(conditions ...models.Condition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conditions = append([]models.Condition(nil), conditions...)
}

func (s *MemoryStore) SetOperationalStatuses(statuses ...models.OperationalStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append([]models.OperationalStatus(nil), statuses...)
}

func (s *MemoryStore) Locations() []models.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Location{}, s.locations...)
}

func (s *MemoryStore) Conditions() []models.Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Condition{}, s.conditions...)
}

func (s *MemoryStore) OperationalStatuses() []models.OperationalStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.OperationalStatus{}, s.statuses...)
}

func (s *MemoryStore) ListAssets() []models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.assets, func(a models.Asset) int { return a.ID })
}

func (s *MemoryStore) GetAsset(id int) (models.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[id]
	if !ok {
		return models.Asset{}, fmt.Errorf("asset %d: %w", id, ErrNotFound)
	}
	return a, nil
}

func (s *MemoryStore) CreateAsset(a models.Asset) (models.Asset, error) {
	if strings.TrimSpace(a.ItemName) == "" {
		return models.Asset{}, &InvalidError{Message: "The item name field is required."}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextAssetID
	s.nextAssetID++
	a.CreatedAt = s.timestamp()
	a.UpdatedAt = a.CreatedAt
	s.assets[a.ID] = a
	return a, nil
}

func (s *MemoryStore) UpdateAsset(id int, a models.Asset) (models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.assets[id]
	if !ok {
		return models.Asset{}, fmt.Errorf("asset %d: %w", id, ErrNotFound)
	}
	a.ID = id
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = s.timestamp()
	s.assets[id] = a
	return a, nil
}

func (s *MemoryStore) ListReceipts() []models.AssetReceipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	receipts := sortedValues(s.receipts, func(r models.AssetReceipt) int { return r.ID })
	for i := range receipts {
		receipts[i] = flatten(receipts[i])
	}
	return receipts
}

func (s *MemoryStore) GetReceipt(id int) (models.AssetReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[id]
	if !ok {
		return models.AssetReceipt{}, fmt.Errorf("asset receipt %d: %w", id, ErrNotFound)
	}
	return flatten(r), nil
}

func (s *MemoryStore) CreateReceipt(r models.AssetReceipt) (models.AssetReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkReceipt(r); err != nil {
		return models.AssetReceipt{}, err
	}

	r = stripFlattened(r)
	r.ID = s.nextReceiptID
	s.nextReceiptID++
	r.CreatedAt = s.timestamp()
	r.UpdatedAt = r.CreatedAt
	s.receipts[r.ID] = r
	return flatten(r), nil
}

func (s *MemoryStore) UpdateReceipt(id int, r models.AssetReceipt) (models.AssetReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.receipts[id]
	if !ok {
		return models.AssetReceipt{}, fmt.Errorf("asset receipt %d: %w", id, ErrNotFound)
	}
	if err := s.checkReceipt(r); err != nil {
		return models.AssetReceipt{}, err
	}

	r = stripFlattened(r)
	r.ID = id
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = s.timestamp()
	s.receipts[id] = r
	return flatten(r), nil
}

func (s *MemoryStore) DeleteReceipt(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.receipts[id]; !ok {
		return fmt.Errorf("asset receipt %d: %w", id, ErrNotFound)
	}
	delete(s.receipts, id)
	return nil
}

// checkReceipt applies the server-side rules. Callers hold the lock.
func (s *MemoryStore) checkReceipt(r models.AssetReceipt) error {
	if _, ok := s.assets[r.AssetID.ID()]; !ok {
		return &InvalidError{Message: "The selected asset id is invalid."}
	}
	if strings.TrimSpace(r.ReceiptDate) == "" {
		return &InvalidError{Message: "The receipt date field is required."}
	}
	if strings.TrimSpace(r.ReceivedBy) == "" {
		return &InvalidError{Message: "The received by field is required."}
	}
	if len(r.Locations) == 0 {
		return &InvalidError{Message: "The locations field is required."}
	}
	for i, loc := range r.Locations {
		if !slices.ContainsFunc(s.locations, func(l models.Location) bool { return l.ID == loc.LocationID.ID() }) {
			return &InvalidError{Message: fmt.Sprintf("The selected locations.%d.location_id is invalid.", i)}
		}
		if loc.Quantity < 1 {
			return &InvalidError{Message: fmt.Sprintf("The locations.%d.quantity field must be at least 1.", i)}
		}
	}
	return nil
}

// flatten fills the single-location fields list screens read.
func flatten(r models.AssetReceipt) models.AssetReceipt {
	r.Locations = slices.Clone(r.Locations)
	total := r.TotalQuantity()
	r.Quantity = &total
	if len(r.Locations) > 0 {
		first := r.Locations[0]
		r.LocationID = first.LocationID
		for _, tag := range first.TagNumbers {
			if strings.TrimSpace(tag) != "" {
				r.TagNo = tag
				break
			}
		}
	}
	return r
}

func stripFlattened(r models.AssetReceipt) models.AssetReceipt {
	r.Quantity = nil
	r.TagNo = ""
	r.LocationID = ""
	r.Locations = slices.Clone(r.Locations)
	return r
}

func sortedValues[T any](m map[int]T, id func(T) int) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return id(a) - id(b) })
	return out
}

// Seed loads the demo data served by `fixture serve`.
func (s *MemoryStore) Seed() error {
	s.SetLocations(
		models.Location{ID: 1, Name: "Main Warehouse"},
		models.Location{ID: 2, Name: "Yard"},
		models.Location{ID: 3, Name: "Workshop"},
	)
	s.SetConditions(
		models.Condition{ID: 1, Name: "New"},
		models.Condition{ID: 2, Name: "Used"},
		models.Condition{ID: 3, Name: "Damaged"},
	)
	s.SetOperationalStatuses(
		models.OperationalStatus{ID: 1, Name: "In service"},
		models.OperationalStatus{ID: 2, Name: "Standby"},
		models.OperationalStatus{ID: 3, Name: "Under repair"},
	)

	assets := []models.Asset{
		{ItemName: "Forklift", ModelNo: "FL-25", ManufacturerName: "Linde", AssetType: "equipment", TagPrefix: "FL",
			IsSerialized: 1, UnitCost: decimal.NewNullDecimal(decimal.RequireFromString("18500.00")), Currency: "EUR"},
		{ItemName: "Pallet jack", ModelNo: "PJ-2", ManufacturerName: "Jungheinrich", AssetType: "equipment", TagPrefix: "PJ",
			UnitCost: decimal.NewNullDecimal(decimal.RequireFromString("420.50")), Currency: "EUR"},
		{ItemName: "Safety helmet", AssetType: "consumable"},
	}
	for _, a := range assets {
		if _, err := s.CreateAsset(a); err != nil {
			return err
		}
	}

	accounts := []struct {
		user        models.User
		password    string
		roles       []string
		permissions []string
	}{
		{models.User{ID: 1, Name: "Admin", Email: "admin@example.com"}, "admin123",
			[]string{"admin"}, []string{"manage_asset_receipts"}},
		{models.User{ID: 2, Name: "Clerk", Email: "clerk@example.com", Locations: []models.Location{{ID: 1, Name: "Main Warehouse"}}}, "clerk123",
			[]string{"storekeeper"}, []string{"create_asset_receipt", "view_asset_receipt"}},
		{models.User{ID: 3, Name: "Viewer", Email: "viewer@example.com"}, "viewer123",
			[]string{"auditor"}, []string{"view_asset_receipt"}},
	}
	for _, a := range accounts {
		if err := s.AddAccount(a.user, a.password, a.roles, a.permissions); err != nil {
			return err
		}
	}

	seeded := []models.AssetReceipt{
		{AssetID: "1", ReceiptDate: "2024-05-01", ReceivedBy: "Clerk", Remarks: "Delivered by supplier",
			Locations: []models.ReceiptLocation{{LocationID: "1", Quantity: 1, ConditionID: "1", OperationalStatusID: "1",
				SerialNumbers: []string{"FL25-0001"}, TagNumbers: []string{"FL-0001"}}}},
		{AssetID: "2", ReceiptDate: "2024-05-03", ReceivedBy: "Admin",
			Locations: []models.ReceiptLocation{
				{LocationID: "1", Quantity: 2, SerialNumbers: []string{""}, TagNumbers: []string{"PJ-0001"}},
				{LocationID: "2", Quantity: 1, SerialNumbers: []string{""}, TagNumbers: []string{""}},
			}},
	}
	for _, r := range seeded {
		if _, err := s.CreateReceipt(r); err != nil {
			return err
		}
	}
	return nil
}
