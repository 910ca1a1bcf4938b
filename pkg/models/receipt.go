package models

// ReceiptLocation is one storage location a receipt puts stock into.
type ReceiptLocation struct {
	LocationID          Ref      `json:"location_id"`
	Quantity            int      `json:"quantity"`
	LicencePlate        string   `json:"licence_plate,omitempty"`
	ManufactureDate     string   `json:"manufacture_date,omitempty"`
	ConditionID         Ref      `json:"condition_id,omitempty"`
	OperationalStatusID Ref      `json:"operational_status_id,omitempty"`
	Remarks             string   `json:"remarks,omitempty"`
	SerialNumbers       []string `json:"serial_numbers"`
	TagNumbers          []string `json:"tag_numbers"`
}

// AssetReceipt is the record exchanged with the /store-asset-receipt resource.
// Quantity, TagNo and LocationID are flattened single-location fields the
// backend adds for list display; they are never used to hydrate a draft.
type AssetReceipt struct {
	ID          int               `json:"id,omitempty"`
	AssetID     Ref               `json:"asset_id"`
	ReceiptDate string            `json:"receipt_date"`
	ReceivedBy  string            `json:"received_by"`
	Remarks     string            `json:"remarks,omitempty"`
	Locations   []ReceiptLocation `json:"locations"`
	Quantity    *int              `json:"quantity,omitempty"`
	TagNo       string            `json:"tag_no,omitempty"`
	LocationID  Ref               `json:"location_id,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
}

func (r *AssetReceipt) IsPersisted() bool {
	return r.ID != 0
}

// DisplayDate is the receipt date, or the date part of the creation timestamp
// for records stored without one.
func (r *AssetReceipt) DisplayDate() string {
	if r.ReceiptDate != "" {
		return r.ReceiptDate
	}
	return DatePart(r.CreatedAt)
}

// TotalQuantity sums the per-location quantities, falling back to the
// flattened quantity when the record carries no locations.
func (r *AssetReceipt) TotalQuantity() int {
	if len(r.Locations) == 0 {
		if r.Quantity != nil {
			return *r.Quantity
		}
		return 0
	}

	total := 0
	for _, loc := range r.Locations {
		total += loc.Quantity
	}
	return total
}

// DatePart returns the first ten characters of a timestamp, i.e. its calendar date.
func DatePart(timestamp string) string {
	if len(timestamp) <= 10 {
		return timestamp
	}
	return timestamp[:10]
}
