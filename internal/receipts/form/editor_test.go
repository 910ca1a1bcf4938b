package form

import (
	"testing"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorSetFieldClearsError(t *testing.T) {
	e := NewEditor()
	e.SetErrors(map[string]string{
		"received_by":            "Received by is required",
		"asset_id":               "Asset is required",
		"location_0_location_id": "Location is required",
	})

	require.NoError(t, e.SetField(FieldReceivedBy, "  "))
	e.SetAssetReference("4")
	require.NoError(t, e.SetLocationField(0, LocationFieldLocationID, "1"))

	errs := e.Errors()
	assert.NotContains(t, errs, "received_by", "cleared even though the value is still blank")
	assert.NotContains(t, errs, "asset_id")
	assert.Contains(t, errs, "location_0_location_id")
}

func TestEditorErrorsIsACopy(t *testing.T) {
	e := NewEditor()
	e.SetErrors(map[string]string{"asset_id": "Asset is required"})

	errs := e.Errors()
	delete(errs, "asset_id")

	assert.Contains(t, e.Errors(), "asset_id")
}

func TestEditorUnknownFieldKeepsDraft(t *testing.T) {
	e := NewEditor()
	before := e.Draft()

	err := e.SetField("colour", "red")

	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Same(t, before, e.Draft())
}

func TestEditorStructuralOperations(t *testing.T) {
	e := NewEditor()

	e.AddLocation()
	e.AddSerialSlot(1)
	e.SetSerial(1, 1, "SN-2")
	e.AddTagSlot(0)
	e.SetTag(0, 1, "TAG-1")
	e.RemoveTagSlot(0, 0)
	e.RemoveSerialSlot(1, 0)

	d := e.Draft()
	require.Len(t, d.Locations, 2)
	assert.Equal(t, []string{"TAG-1"}, d.Locations[0].TagNumbers)
	assert.Equal(t, []string{"SN-2"}, d.Locations[1].SerialNumbers)

	e.RemoveLocation(0)
	e.RemoveLocation(0)
	assert.Len(t, e.Draft().Locations, 1)

	err := e.SetLocationField(0, LocationFieldQuantity, "many")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestEditorHydrateAndReset(t *testing.T) {
	e := NewEditor()
	e.SetErrors(map[string]string{"asset_id": "Asset is required"})

	e.Hydrate(models.AssetReceipt{ID: 2, AssetID: "9", ReceiptDate: "2024-04-04", ReceivedBy: "Carol"})
	assert.Empty(t, e.Errors())
	assert.Equal(t, models.Ref("9"), e.Record().AssetID)

	e.Reset()
	assert.True(t, e.Draft().AssetID.IsZero())
	assert.Len(t, e.Draft().Locations, 1)
}
