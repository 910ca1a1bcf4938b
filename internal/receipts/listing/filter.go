// Package listing narrows the fetched receipt collection down to what the
// list screen shows: search, filters and pages.
package listing

import (
	"strconv"
	"strings"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
)

// Filters holds the structured list filters. Empty values match everything.
type Filters struct {
	Asset string // asset reference, compared as a string
	Date  string // YYYY-MM-DD, compared with the date part of created_at
}

func (f Filters) IsZero() bool {
	return f.Asset == "" && f.Date == ""
}

// Filter returns the receipts matching both the search term and the filters,
// in their original order. The term is matched case-insensitively against the
// id, the asset name, the flattened tag number and the receiver name.
func Filter(receipts []models.AssetReceipt, assets []models.Asset, term string, filters Filters) []models.AssetReceipt {
	names := assetNames(assets)
	needle := strings.ToLower(term)

	matched := make([]models.AssetReceipt, 0, len(receipts))
	for _, r := range receipts {
		if needle != "" && !matchesSearch(r, names, needle) {
			continue
		}
		if filters.Asset != "" && r.AssetID.String() != filters.Asset {
			continue
		}
		if filters.Date != "" && models.DatePart(r.CreatedAt) != filters.Date {
			continue
		}
		matched = append(matched, r)
	}

	return matched
}

func matchesSearch(r models.AssetReceipt, names map[int]string, needle string) bool {
	if r.IsPersisted() && strings.Contains(strconv.Itoa(r.ID), needle) {
		return true
	}
	if id := r.AssetID.ID(); id != 0 && strings.Contains(names[id], needle) {
		return true
	}
	if strings.Contains(strings.ToLower(r.TagNo), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(r.ReceivedBy), needle)
}

func assetNames(assets []models.Asset) map[int]string {
	names := make(map[int]string, len(assets))
	for _, a := range assets {
		names[a.ID] = strings.ToLower(a.ItemName)
	}
	return names
}
