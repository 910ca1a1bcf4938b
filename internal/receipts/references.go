package receipts

import (
	"fmt"
	"strconv"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
)

// References are the lookup lists the form and the list screen resolve ids against.
type References struct {
	Assets              []models.Asset
	Locations           []models.Location
	Conditions          []models.Condition
	OperationalStatuses []models.OperationalStatus
}

// Option is a value/label pair for a selection control.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type Options struct {
	Assets              []Option
	Locations           []Option
	Conditions          []Option
	OperationalStatuses []Option
}

func (r References) Asset(ref models.Ref) (models.Asset, bool) {
	id := ref.ID()
	for _, a := range r.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return models.Asset{}, false
}

// AssetName resolves ref to the asset's item name, or "Asset #<ref>" when the
// asset is not among the loaded ones.
func (r References) AssetName(ref models.Ref) string {
	if a, ok := r.Asset(ref); ok && a.ItemName != "" {
		return a.ItemName
	}
	return fmt.Sprintf("Asset #%s", ref)
}

func (r References) LocationName(ref models.Ref) string {
	id := ref.ID()
	for _, l := range r.Locations {
		if l.ID == id {
			return l.Name
		}
	}
	return ref.String()
}

func (r References) ConditionName(ref models.Ref) string {
	id := ref.ID()
	for _, c := range r.Conditions {
		if c.ID == id {
			return c.Name
		}
	}
	return ref.String()
}

func (r References) OperationalStatusName(ref models.Ref) string {
	id := ref.ID()
	for _, s := range r.OperationalStatuses {
		if s.ID == id {
			return s.Name
		}
	}
	return ref.String()
}

func (r References) Options() Options {
	opts := Options{
		Assets:              make([]Option, 0, len(r.Assets)),
		Locations:           make([]Option, 0, len(r.Locations)),
		Conditions:          make([]Option, 0, len(r.Conditions)),
		OperationalStatuses: make([]Option, 0, len(r.OperationalStatuses)),
	}
	for _, a := range r.Assets {
		opts.Assets = append(opts.Assets, Option{Value: strconv.Itoa(a.ID), Label: a.DisplayName()})
	}
	for _, l := range r.Locations {
		opts.Locations = append(opts.Locations, Option{Value: strconv.Itoa(l.ID), Label: l.Name})
	}
	for _, c := range r.Conditions {
		opts.Conditions = append(opts.Conditions, Option{Value: strconv.Itoa(c.ID), Label: c.Name})
	}
	for _, s := range r.OperationalStatuses {
		opts.OperationalStatuses = append(opts.OperationalStatuses, Option{Value: strconv.Itoa(s.ID), Label: s.Name})
	}
	return opts
}
