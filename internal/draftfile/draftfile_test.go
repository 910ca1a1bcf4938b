package draftfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/opalaxis/beamsolopex-companion/internal/receipts/form"
	"github.com/opalaxis/beamsolopex-companion/internal/receipts/validation"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = `
asset_id: "3"
receipt_date: 2024-05-01
received_by: Alice
remarks: Delivered by supplier
locations:
  - location_id: 1
    quantity: 2
    condition_id: 1
    serial_numbers: [SN-1, SN-2, SN-3]
    tag_numbers: []
  - location_id: 2
    quantity: 1
    licence_plate: KA-123
    serial_numbers: [""]
    tag_numbers: [T-9]
`

func TestDecodeAndApply(t *testing.T) {
	doc, err := Decode(strings.NewReader(document))
	require.NoError(t, err)

	e := form.NewEditor()
	require.NoError(t, Apply(e, doc))

	d := e.Draft()
	assert.Equal(t, models.Ref("3"), d.AssetID)
	assert.Equal(t, "2024-05-01", d.ReceiptDate)
	assert.Equal(t, "Alice", d.ReceivedBy)
	require.Len(t, d.Locations, 2)
	assert.Equal(t, models.Ref("1"), d.Locations[0].LocationID)
	require.NotNil(t, d.Locations[0].Quantity)
	assert.Equal(t, 2, *d.Locations[0].Quantity)
	assert.Equal(t, models.Ref("1"), d.Locations[0].ConditionID)
	assert.Equal(t, []string{"SN-1", "SN-2", "SN-3"}, d.Locations[0].SerialNumbers)
	assert.Equal(t, []string{""}, d.Locations[0].TagNumbers)
	assert.Equal(t, "KA-123", d.Locations[1].LicencePlate)
	assert.Equal(t, []string{"T-9"}, d.Locations[1].TagNumbers)
	assert.True(t, validation.Validate(d).Empty())
}

func TestApplyShrinksHydratedDraft(t *testing.T) {
	e := form.NewEditor()
	e.Hydrate(models.AssetReceipt{
		ID: 4, AssetID: "1", ReceiptDate: "2024-04-01", ReceivedBy: "Bob",
		Locations: []models.ReceiptLocation{
			{LocationID: "1", Quantity: 1, SerialNumbers: []string{"A", "B"}},
			{LocationID: "2", Quantity: 1},
			{LocationID: "3", Quantity: 1},
		},
	})

	doc := Document{
		AssetID: "1", ReceiptDate: "2024-04-02", ReceivedBy: "Bob",
		Locations: []Location{{LocationID: "3", Quantity: "5", SerialNumbers: []string{"C"}}},
	}
	require.NoError(t, Apply(e, doc))

	d := e.Draft()
	require.Len(t, d.Locations, 1)
	assert.Equal(t, models.Ref("3"), d.Locations[0].LocationID)
	assert.Equal(t, 5, *d.Locations[0].Quantity)
	assert.Equal(t, []string{"C"}, d.Locations[0].SerialNumbers)
	assert.Equal(t, []string{""}, d.Locations[0].TagNumbers)
	assert.Equal(t, "2024-04-02", d.ReceiptDate)
}

func TestApplyLeavesValidationToTheForm(t *testing.T) {
	doc := Document{
		ReceiptDate: "2024-05-01",
		Locations:   []Location{{Quantity: ""}},
	}

	e := form.NewEditor()
	require.NoError(t, Apply(e, doc))

	errs := validation.Validate(e.Draft())
	assert.Equal(t, []string{"asset_id", "location_0_location_id", "location_0_quantity", "received_by"}, errs.Keys())
}

func TestApplyRejectsMalformedQuantity(t *testing.T) {
	doc := Document{Locations: []Location{{LocationID: "1", Quantity: "two"}}}

	err := Apply(form.NewEditor(), doc)

	assert.ErrorIs(t, err, form.ErrInvalidQuantity)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("asset_id: 1\nreceived_bye: Alice\n"))
	assert.ErrorContains(t, err, "received_bye")
}

func TestEncodeRoundTrip(t *testing.T) {
	original := form.FromRecord(models.AssetReceipt{
		AssetID: "2", ReceiptDate: "2024-05-03", ReceivedBy: "Admin", Remarks: "two pallets",
		Locations: []models.ReceiptLocation{
			{LocationID: "1", Quantity: 2, OperationalStatusID: "2", SerialNumbers: []string{""}, TagNumbers: []string{"PJ-1", "PJ-2"}},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original))
	assert.Contains(t, buf.String(), "received_by: Admin")

	doc, err := Decode(&buf)
	require.NoError(t, err)
	e := form.NewEditor()
	require.NoError(t, Apply(e, doc))

	assert.Equal(t, original.Record(), e.Record())
}
