// Package draftfile reads and writes receipt drafts as YAML documents so a
// receipt can be prepared in an editor and submitted from the command line.
package draftfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/opalaxis/beamsolopex-companion/internal/receipts/form"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"gopkg.in/yaml.v3"
)

type Document struct {
	AssetID     string     `yaml:"asset_id"`
	ReceiptDate string     `yaml:"receipt_date"`
	ReceivedBy  string     `yaml:"received_by"`
	Remarks     string     `yaml:"remarks,omitempty"`
	Locations   []Location `yaml:"locations"`
}

// Location keeps quantity as text so that blank and malformed values reach
// the form engine the same way typed input does.
type Location struct {
	LocationID          string   `yaml:"location_id"`
	Quantity            string   `yaml:"quantity"`
	LicencePlate        string   `yaml:"licence_plate,omitempty"`
	ManufactureDate     string   `yaml:"manufacture_date,omitempty"`
	ConditionID         string   `yaml:"condition_id,omitempty"`
	OperationalStatusID string   `yaml:"operational_status_id,omitempty"`
	Remarks             string   `yaml:"remarks,omitempty"`
	SerialNumbers       []string `yaml:"serial_numbers"`
	TagNumbers          []string `yaml:"tag_numbers"`
}

func FromDraft(d *form.Draft) Document {
	doc := Document{
		AssetID:     d.AssetID.String(),
		ReceiptDate: d.ReceiptDate,
		ReceivedBy:  d.ReceivedBy,
		Remarks:     d.Remarks,
		Locations:   make([]Location, 0, len(d.Locations)),
	}
	for _, loc := range d.Locations {
		quantity := ""
		if loc.Quantity != nil {
			quantity = strconv.Itoa(*loc.Quantity)
		}
		doc.Locations = append(doc.Locations, Location{
			LocationID:          loc.LocationID.String(),
			Quantity:            quantity,
			LicencePlate:        loc.LicencePlate,
			ManufactureDate:     loc.ManufactureDate,
			ConditionID:         loc.ConditionID.String(),
			OperationalStatusID: loc.OperationalStatusID.String(),
			Remarks:             loc.Remarks,
			SerialNumbers:       append([]string{}, loc.SerialNumbers...),
			TagNumbers:          append([]string{}, loc.TagNumbers...),
		})
	}
	return doc
}

func Encode(w io.Writer, d *form.Draft) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromDraft(d)); err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return enc.Close()
}

// Decode parses a draft document. Unknown keys are rejected so a typo does
// not silently drop a field.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("draft document is empty")
		}
		return Document{}, fmt.Errorf("failed to parse draft: %w", err)
	}
	return doc, nil
}

// Apply replays doc onto the editor's draft field by field, through the same
// operations the interactive form uses. Locations beyond the draft's are
// added; surplus ones are removed down to the form's minimum of one.
func Apply(e *form.Editor, doc Document) error {
	e.SetAssetReference(models.Ref(doc.AssetID))
	for field, value := range map[form.Field]string{
		form.FieldReceiptDate: doc.ReceiptDate,
		form.FieldReceivedBy:  doc.ReceivedBy,
		form.FieldRemarks:     doc.Remarks,
	} {
		if err := e.SetField(field, value); err != nil {
			return err
		}
	}

	for len(e.Draft().Locations) < len(doc.Locations) {
		e.AddLocation()
	}
	for n := len(e.Draft().Locations); n > len(doc.Locations) && n > 1; n-- {
		e.RemoveLocation(n - 1)
	}

	for i, loc := range doc.Locations {
		fields := []struct {
			name  form.LocationField
			value string
		}{
			{form.LocationFieldLocationID, loc.LocationID},
			{form.LocationFieldQuantity, loc.Quantity},
			{form.LocationFieldLicencePlate, loc.LicencePlate},
			{form.LocationFieldManufactureDate, loc.ManufactureDate},
			{form.LocationFieldConditionID, loc.ConditionID},
			{form.LocationFieldOperationalStatusID, loc.OperationalStatusID},
			{form.LocationFieldRemarks, loc.Remarks},
		}
		for _, f := range fields {
			if err := e.SetLocationField(i, f.name, f.value); err != nil {
				return err
			}
		}

		applySlots(i, loc.SerialNumbers, slotOps{
			count:  func() int { return len(e.Draft().Locations[i].SerialNumbers) },
			add:    e.AddSerialSlot,
			remove: e.RemoveSerialSlot,
			set:    e.SetSerial,
		})
		applySlots(i, loc.TagNumbers, slotOps{
			count:  func() int { return len(e.Draft().Locations[i].TagNumbers) },
			add:    e.AddTagSlot,
			remove: e.RemoveTagSlot,
			set:    e.SetTag,
		})
	}
	return nil
}

type slotOps struct {
	count  func() int
	add    func(index int)
	remove func(index, slot int)
	set    func(index, slot int, value string)
}

// applySlots resizes the slot list of location i to values (at least one
// slot) and fills it.
func applySlots(i int, values []string, ops slotOps) {
	if len(values) == 0 {
		values = []string{""}
	}
	for ops.count() < len(values) {
		ops.add(i)
	}
	for n := ops.count(); n > len(values); n-- {
		ops.remove(i, n-1)
	}
	for slot, v := range values {
		ops.set(i, slot, v)
	}
}
