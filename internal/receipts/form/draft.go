// Package form holds the editable draft of an asset receipt.
//
// A Draft is persistent: every operation returns a new root, replaces the
// touched location with a fresh value and reuses every untouched *Location.
// Callers must treat a Draft and everything reachable from it as read-only.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/opalaxis/beamsolopex-companion/pkg/metadata"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrInvalidQuantity = errors.New("quantity must be a whole number")
)

// Field names a scalar field of the receipt itself.
type Field string

const (
	FieldAssetID     Field = "asset_id"
	FieldReceiptDate Field = "receipt_date"
	FieldReceivedBy  Field = "received_by"
	FieldRemarks     Field = "remarks"
)

// LocationField names a scalar field of one receipt location.
type LocationField string

const (
	LocationFieldLocationID          LocationField = "location_id"
	LocationFieldQuantity            LocationField = "quantity"
	LocationFieldLicencePlate        LocationField = "licence_plate"
	LocationFieldManufactureDate     LocationField = "manufacture_date"
	LocationFieldConditionID         LocationField = "condition_id"
	LocationFieldOperationalStatusID LocationField = "operational_status_id"
	LocationFieldRemarks             LocationField = "remarks"
)

type Location struct {
	LocationID          models.Ref
	Quantity            *int // nil while the input is blank
	LicencePlate        string
	ManufactureDate     string
	ConditionID         models.Ref
	OperationalStatusID models.Ref
	Remarks             string
	SerialNumbers       []string
	TagNumbers          []string
}

type Draft struct {
	AssetID     models.Ref
	ReceiptDate string
	ReceivedBy  string
	Remarks     string
	Locations   []*Location
}

// NewLocation is the entry added by AddLocation: quantity 1 and one blank
// serial and tag slot.
func NewLocation() *Location {
	quantity := 1
	return &Location{
		Quantity:      &quantity,
		SerialNumbers: []string{""},
		TagNumbers:    []string{""},
	}
}

// New returns the empty draft used when creating a receipt, dated today.
func New() *Draft {
	return NewAt(metadata.Today().String())
}

func NewAt(receiptDate string) *Draft {
	return &Draft{
		ReceiptDate: receiptDate,
		Locations:   []*Location{NewLocation()},
	}
}

// FromRecord hydrates a draft from a persisted receipt. Records stored
// without a receipt date fall back to the date part of created_at.
func FromRecord(r models.AssetReceipt) *Draft {
	d := &Draft{
		AssetID:     r.AssetID,
		ReceiptDate: r.ReceiptDate,
		ReceivedBy:  r.ReceivedBy,
		Remarks:     r.Remarks,
	}
	if d.ReceiptDate == "" {
		d.ReceiptDate = models.DatePart(r.CreatedAt)
	}

	for _, loc := range r.Locations {
		quantity := loc.Quantity
		d.Locations = append(d.Locations, &Location{
			LocationID:          loc.LocationID,
			Quantity:            &quantity,
			LicencePlate:        loc.LicencePlate,
			ManufactureDate:     loc.ManufactureDate,
			ConditionID:         loc.ConditionID,
			OperationalStatusID: loc.OperationalStatusID,
			Remarks:             loc.Remarks,
			SerialNumbers:       copySlots(loc.SerialNumbers),
			TagNumbers:          copySlots(loc.TagNumbers),
		})
	}
	if len(d.Locations) == 0 {
		d.Locations = []*Location{NewLocation()}
	}

	return d
}

// Record converts the draft into the payload sent to the backend.
func (d *Draft) Record() models.AssetReceipt {
	r := models.AssetReceipt{
		AssetID:     d.AssetID,
		ReceiptDate: d.ReceiptDate,
		ReceivedBy:  d.ReceivedBy,
		Remarks:     d.Remarks,
		Locations:   make([]models.ReceiptLocation, 0, len(d.Locations)),
	}

	for _, loc := range d.Locations {
		quantity := 0
		if loc.Quantity != nil {
			quantity = *loc.Quantity
		}
		r.Locations = append(r.Locations, models.ReceiptLocation{
			LocationID:          loc.LocationID,
			Quantity:            quantity,
			LicencePlate:        loc.LicencePlate,
			ManufactureDate:     loc.ManufactureDate,
			ConditionID:         loc.ConditionID,
			OperationalStatusID: loc.OperationalStatusID,
			Remarks:             loc.Remarks,
			SerialNumbers:       copySlots(loc.SerialNumbers),
			TagNumbers:          copySlots(loc.TagNumbers),
		})
	}

	return r
}

func (d *Draft) SetField(name Field, value string) (*Draft, error) {
	next := *d
	switch name {
	case FieldAssetID:
		next.AssetID = models.Ref(value)
	case FieldReceiptDate:
		next.ReceiptDate = value
	case FieldReceivedBy:
		next.ReceivedBy = value
	case FieldRemarks:
		next.Remarks = value
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return &next, nil
}

// SetAssetReference sets the asset link; the empty Ref clears it.
func (d *Draft) SetAssetReference(ref models.Ref) *Draft {
	next := *d
	next.AssetID = ref
	return &next
}

func (d *Draft) AddLocation() *Draft {
	next := *d
	next.Locations = make([]*Location, len(d.Locations), len(d.Locations)+1)
	copy(next.Locations, d.Locations)
	next.Locations = append(next.Locations, NewLocation())
	return &next
}

// RemoveLocation drops the entry at index. A draft always keeps at least one
// location, so removing the sole entry returns d unchanged.
func (d *Draft) RemoveLocation(index int) *Draft {
	if len(d.Locations) <= 1 || !d.hasLocation(index) {
		return d
	}

	next := *d
	next.Locations = make([]*Location, 0, len(d.Locations)-1)
	next.Locations = append(next.Locations, d.Locations[:index]...)
	next.Locations = append(next.Locations, d.Locations[index+1:]...)
	return &next
}

func (d *Draft) SetLocationField(index int, name LocationField, value string) (*Draft, error) {
	if !d.hasLocation(index) {
		return d, nil
	}

	var apply func(*Location)
	switch name {
	case LocationFieldLocationID:
		apply = func(l *Location) { l.LocationID = models.Ref(value) }
	case LocationFieldQuantity:
		quantity, err := parseQuantity(value)
		if err != nil {
			return d, err
		}
		apply = func(l *Location) { l.Quantity = quantity }
	case LocationFieldLicencePlate:
		apply = func(l *Location) { l.LicencePlate = value }
	case LocationFieldManufactureDate:
		apply = func(l *Location) { l.ManufactureDate = value }
	case LocationFieldConditionID:
		apply = func(l *Location) { l.ConditionID = models.Ref(value) }
	case LocationFieldOperationalStatusID:
		apply = func(l *Location) { l.OperationalStatusID = models.Ref(value) }
	case LocationFieldRemarks:
		apply = func(l *Location) { l.Remarks = value }
	default:
		return d, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	return d.updateLocation(index, apply), nil
}

func (d *Draft) AddSerialSlot(index int) *Draft {
	return d.updateLocation(index, func(l *Location) {
		l.SerialNumbers = appendSlot(l.SerialNumbers)
	})
}

func (d *Draft) RemoveSerialSlot(index, slot int) *Draft {
	if !d.hasLocation(index) || !hasSlot(d.Locations[index].SerialNumbers, slot) {
		return d
	}
	return d.updateLocation(index, func(l *Location) {
		l.SerialNumbers = removeSlot(l.SerialNumbers, slot)
	})
}

func (d *Draft) SetSerial(index, slot int, value string) *Draft {
	if !d.hasLocation(index) || !hasSlot(d.Locations[index].SerialNumbers, slot) {
		return d
	}
	return d.updateLocation(index, func(l *Location) {
		l.SerialNumbers = setSlot(l.SerialNumbers, slot, value)
	})
}

func (d *Draft) AddTagSlot(index int) *Draft {
	return d.updateLocation(index, func(l *Location) {
		l.TagNumbers = appendSlot(l.TagNumbers)
	})
}

func (d *Draft) RemoveTagSlot(index, slot int) *Draft {
	if !d.hasLocation(index) || !hasSlot(d.Locations[index].TagNumbers, slot) {
		return d
	}
	return d.updateLocation(index, func(l *Location) {
		l.TagNumbers = removeSlot(l.TagNumbers, slot)
	})
}

func (d *Draft) SetTag(index, slot int, value string) *Draft {
	if !d.hasLocation(index) || !hasSlot(d.Locations[index].TagNumbers, slot) {
		return d
	}
	return d.updateLocation(index, func(l *Location) {
		l.TagNumbers = setSlot(l.TagNumbers, slot, value)
	})
}

func (d *Draft) hasLocation(index int) bool {
	return index >= 0 && index < len(d.Locations)
}

// updateLocation copies the location at index, lets fn change the copy and
// returns a new root holding it. Siblings keep their pointers.
func (d *Draft) updateLocation(index int, fn func(*Location)) *Draft {
	if !d.hasLocation(index) {
		return d
	}

	target := *d.Locations[index]
	fn(&target)

	next := *d
	next.Locations = make([]*Location, len(d.Locations))
	copy(next.Locations, d.Locations)
	next.Locations[index] = &target
	return &next
}

func parseQuantity(value string) (*int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}

	quantity, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuantity, value)
	}
	return &quantity, nil
}

func hasSlot(slots []string, slot int) bool {
	return slot >= 0 && slot < len(slots)
}

func appendSlot(slots []string) []string {
	next := make([]string, len(slots), len(slots)+1)
	copy(next, slots)
	return append(next, "")
}

func removeSlot(slots []string, slot int) []string {
	next := make([]string, 0, len(slots)-1)
	next = append(next, slots[:slot]...)
	return append(next, slots[slot+1:]...)
}

func setSlot(slots []string, slot int, value string) []string {
	next := copySlots(slots)
	next[slot] = value
	return next
}

func copySlots(slots []string) []string {
	next := make([]string, len(slots))
	copy(next, slots)
	return next
}
