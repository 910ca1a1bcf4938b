package receipts

import (
	"strings"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/shopspring/decimal"
)

// LocationLine is one location of a receipt with its references resolved.
type LocationLine struct {
	Location          string
	Quantity          int
	LicencePlate      string
	ManufactureDate   string
	Condition         string
	OperationalStatus string
	Remarks           string
	SerialNumbers     []string
	TagNumbers        []string
}

// Summary is the read-only view of a receipt.
type Summary struct {
	ID            int
	Asset         string
	ReceiptDate   string
	ReceivedBy    string
	Remarks       string
	CreatedAt     string
	Locations     []LocationLine
	TotalQuantity int
	Serials       int
	Tags          int
	UnitCost      decimal.NullDecimal
	TotalValue    decimal.NullDecimal
	Currency      string
}

// Summarize resolves the references of r and totals its quantities. The value
// is only set when the asset carries a unit cost.
func Summarize(r models.AssetReceipt, refs References) Summary {
	s := Summary{
		ID:            r.ID,
		Asset:         refs.AssetName(r.AssetID),
		ReceiptDate:   r.DisplayDate(),
		ReceivedBy:    r.ReceivedBy,
		Remarks:       r.Remarks,
		CreatedAt:     r.CreatedAt,
		TotalQuantity: r.TotalQuantity(),
		Locations:     make([]LocationLine, 0, len(r.Locations)),
	}

	for _, loc := range r.Locations {
		line := LocationLine{
			Location:        refs.LocationName(loc.LocationID),
			Quantity:        loc.Quantity,
			LicencePlate:    loc.LicencePlate,
			ManufactureDate: loc.ManufactureDate,
			Remarks:         loc.Remarks,
			SerialNumbers:   nonBlank(loc.SerialNumbers),
			TagNumbers:      nonBlank(loc.TagNumbers),
		}
		if !loc.ConditionID.IsZero() {
			line.Condition = refs.ConditionName(loc.ConditionID)
		}
		if !loc.OperationalStatusID.IsZero() {
			line.OperationalStatus = refs.OperationalStatusName(loc.OperationalStatusID)
		}
		s.Serials += len(line.SerialNumbers)
		s.Tags += len(line.TagNumbers)
		s.Locations = append(s.Locations, line)
	}

	if asset, ok := refs.Asset(r.AssetID); ok && asset.UnitCost.Valid {
		s.UnitCost = asset.UnitCost
		s.Currency = asset.Currency
		s.TotalValue = decimal.NewNullDecimal(asset.UnitCost.Decimal.Mul(decimal.NewFromInt(int64(s.TotalQuantity))))
	}
	return s
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
