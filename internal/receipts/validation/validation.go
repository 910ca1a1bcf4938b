// Package validation checks a receipt draft before it is submitted.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opalaxis/beamsolopex-companion/internal/receipts/form"
)

const (
	MsgAssetRequired       = "Asset is required"
	MsgReceiptDateRequired = "Receipt date is required"
	MsgReceivedByRequired  = "Received by is required"
	MsgLocationRequired    = "Location is required"
	MsgQuantityTooLow      = "Quantity must be at least 1"
)

// Errors maps a field key to the message shown next to that field.
type Errors map[string]string

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Keys returns the field keys in a stable order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func LocationKey(index int, field form.LocationField) string {
	return fmt.Sprintf("location_%d_%s", index, field)
}

// Validate returns the field errors of d; an empty map means d may be
// submitted. Serial and tag slots are not checked: blank entries and
// duplicates are sent as they are.
func Validate(d *form.Draft) Errors {
	errs := Errors{}

	if d.AssetID.IsZero() {
		errs[string(form.FieldAssetID)] = MsgAssetRequired
	}
	if d.ReceiptDate == "" {
		errs[string(form.FieldReceiptDate)] = MsgReceiptDateRequired
	}
	if strings.TrimSpace(d.ReceivedBy) == "" {
		errs[string(form.FieldReceivedBy)] = MsgReceivedByRequired
	}

	for i, loc := range d.Locations {
		if loc.LocationID.IsZero() {
			errs[LocationKey(i, form.LocationFieldLocationID)] = MsgLocationRequired
		}
		if loc.Quantity == nil || *loc.Quantity < 1 {
			errs[LocationKey(i, form.LocationFieldQuantity)] = MsgQuantityTooLow
		}
	}

	return errs
}
