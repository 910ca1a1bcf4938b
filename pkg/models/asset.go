package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID               int                 `json:"id"`
	ItemName         string              `json:"item_name"`
	ModelNo          string              `json:"model_no,omitempty"`
	ManufacturerName string              `json:"manufacturer_name,omitempty"`
	Specification    string              `json:"specification,omitempty"`
	UnitCost         decimal.NullDecimal `json:"unit_cost"`
	Currency         string              `json:"currency,omitempty"`
	AssetType        string              `json:"asset_type,omitempty"`
	TagPrefix        string              `json:"tag_prefix,omitempty"`
	IsSerialized     int                 `json:"is_serialized,omitempty"`
	Remarks          string              `json:"remarks,omitempty"`
	CreatedAt        string              `json:"created_at,omitempty"`
	UpdatedAt        string              `json:"updated_at,omitempty"`
}

// DisplayName is the label used in selection lists and search.
func (a *Asset) DisplayName() string {
	if a.ItemName != "" {
		return a.ItemName
	}
	return fmt.Sprintf("Asset #%d", a.ID)
}
