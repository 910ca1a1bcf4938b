package form

import (
	"testing"

	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestNewDraft(t *testing.T) {
	d := NewAt("2024-05-01")

	require.Len(t, d.Locations, 1)
	assert.Equal(t, "2024-05-01", d.ReceiptDate)
	assert.True(t, d.AssetID.IsZero())
	assert.Equal(t, intPtr(1), d.Locations[0].Quantity)
	assert.Equal(t, []string{""}, d.Locations[0].SerialNumbers)
	assert.Equal(t, []string{""}, d.Locations[0].TagNumbers)
}

func TestRemoveLocationKeepsAtLeastOne(t *testing.T) {
	tests := []struct {
		name      string
		locations int
		remove    int
		expected  int
	}{
		{"sole location", 1, 0, 1},
		{"first of two", 2, 0, 1},
		{"last of three", 3, 2, 2},
		{"index out of range", 2, 5, 2},
		{"negative index", 2, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewAt("2024-05-01")
			for i := 1; i < tt.locations; i++ {
				d = d.AddLocation()
			}
			require.GreaterOrEqual(t, len(d.Locations), 1)

			next := d.RemoveLocation(tt.remove)

			assert.Len(t, next.Locations, tt.expected)
			assert.GreaterOrEqual(t, len(next.Locations), 1)
		})
	}
}

func TestRemoveSoleLocationIsNoop(t *testing.T) {
	d, err := NewAt("2024-05-01").SetLocationField(0, LocationFieldLocationID, "7")
	require.NoError(t, err)
	before := *d.Locations[0]

	next := d.RemoveLocation(0)

	assert.Same(t, d, next)
	require.Len(t, next.Locations, 1)
	assert.Equal(t, before, *next.Locations[0])
}

func TestRemoveLocationKeepsOrder(t *testing.T) {
	d := NewAt("2024-05-01").AddLocation().AddLocation()
	first, second, third := d.Locations[0], d.Locations[1], d.Locations[2]

	next := d.RemoveLocation(1)

	require.Len(t, next.Locations, 2)
	assert.Same(t, first, next.Locations[0])
	assert.Same(t, third, next.Locations[1])
	assert.Len(t, d.Locations, 3, "original draft must not change")
	assert.Same(t, second, d.Locations[1])
}

func TestAddLocationDoesNotInherit(t *testing.T) {
	d, err := NewAt("2024-05-01").SetLocationField(0, LocationFieldQuantity, "12")
	require.NoError(t, err)
	d, err = d.SetLocationField(0, LocationFieldRemarks, "dock B")
	require.NoError(t, err)
	d = d.SetSerial(0, 0, "SN-1")

	next := d.AddLocation()

	require.Len(t, next.Locations, 2)
	assert.Equal(t, NewLocation(), next.Locations[1])
	assert.Same(t, d.Locations[0], next.Locations[0])
}

func TestSetLocationFieldReplacesOnlyTarget(t *testing.T) {
	d := NewAt("2024-05-01").AddLocation().AddLocation()

	next, err := d.SetLocationField(1, LocationFieldConditionID, "3")
	require.NoError(t, err)

	assert.NotSame(t, d, next)
	assert.Same(t, d.Locations[0], next.Locations[0])
	assert.NotSame(t, d.Locations[1], next.Locations[1])
	assert.Same(t, d.Locations[2], next.Locations[2])
	assert.Equal(t, models.Ref("3"), next.Locations[1].ConditionID)
	assert.True(t, d.Locations[1].ConditionID.IsZero())
}

func TestSetLocationFieldQuantity(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected *int
		wantErr  bool
	}{
		{"number", "4", intPtr(4), false},
		{"padded", " 9 ", intPtr(9), false},
		{"zero", "0", intPtr(0), false},
		{"negative", "-2", intPtr(-2), false},
		{"blank", "", nil, false},
		{"text", "four", nil, true},
		{"fraction", "1.5", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewAt("2024-05-01")
			next, err := d.SetLocationField(0, LocationFieldQuantity, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				assert.Same(t, d, next)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, next.Locations[0].Quantity)
		})
	}
}

func TestSetLocationFieldUnknown(t *testing.T) {
	d := NewAt("2024-05-01")

	next, err := d.SetLocationField(0, "colour", "red")

	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Same(t, d, next)
}

func TestSetLocationFieldOutOfRangeIsNoop(t *testing.T) {
	d := NewAt("2024-05-01")

	next, err := d.SetLocationField(3, LocationFieldLocationID, "1")

	assert.NoError(t, err)
	assert.Same(t, d, next)
}

func TestSetField(t *testing.T) {
	d := NewAt("2024-05-01")

	next, err := d.SetField(FieldReceivedBy, "Alice")
	require.NoError(t, err)
	next, err = next.SetField(FieldRemarks, "pallet 4")
	require.NoError(t, err)
	next, err = next.SetField(FieldAssetID, "12")
	require.NoError(t, err)

	assert.Equal(t, "Alice", next.ReceivedBy)
	assert.Equal(t, "pallet 4", next.Remarks)
	assert.Equal(t, models.Ref("12"), next.AssetID)
	assert.Same(t, d.Locations[0], next.Locations[0])
	assert.Equal(t, "", d.ReceivedBy)

	_, err = d.SetField("locations", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSetAssetReference(t *testing.T) {
	d := NewAt("2024-05-01").SetAssetReference("5")
	assert.Equal(t, models.Ref("5"), d.AssetID)

	cleared := d.SetAssetReference("")
	assert.True(t, cleared.AssetID.IsZero())
	assert.Equal(t, models.Ref("5"), d.AssetID)
}

func TestSerialSlots(t *testing.T) {
	d := NewAt("2024-05-01").SetSerial(0, 0, "SN-1").AddSerialSlot(0).SetSerial(0, 1, "SN-2")
	before := d.Locations[0].SerialNumbers

	t.Run("add then remove restores list", func(t *testing.T) {
		added := d.AddSerialSlot(0)
		require.Len(t, added.Locations[0].SerialNumbers, 3)

		restored := added.RemoveSerialSlot(0, 2)

		assert.Equal(t, before, restored.Locations[0].SerialNumbers)
	})

	t.Run("remove middle slot", func(t *testing.T) {
		next := d.RemoveSerialSlot(0, 0)
		assert.Equal(t, []string{"SN-2"}, next.Locations[0].SerialNumbers)
		assert.Equal(t, []string{"SN-1", "SN-2"}, d.Locations[0].SerialNumbers)
	})

	t.Run("list may become empty", func(t *testing.T) {
		next := d.RemoveSerialSlot(0, 0).RemoveSerialSlot(0, 0)
		assert.Empty(t, next.Locations[0].SerialNumbers)
		assert.Len(t, next.Locations, 1)
	})

	t.Run("tags untouched", func(t *testing.T) {
		next := d.AddSerialSlot(0)
		assert.Equal(t, d.Locations[0].TagNumbers, next.Locations[0].TagNumbers)
	})

	t.Run("out of range slot", func(t *testing.T) {
		assert.Same(t, d, d.SetSerial(0, 9, "x"))
		assert.Same(t, d, d.RemoveSerialSlot(0, -1))
		assert.Same(t, d, d.AddSerialSlot(4))
	})
}

func TestTagSlots(t *testing.T) {
	d := NewAt("2024-05-01").AddLocation().SetTag(1, 0, "TAG-9")
	before := d.Locations[1].TagNumbers

	added := d.AddTagSlot(1)
	require.Equal(t, []string{"TAG-9", ""}, added.Locations[1].TagNumbers)
	assert.Same(t, d.Locations[0], added.Locations[0])

	restored := added.RemoveTagSlot(1, 1)
	assert.Equal(t, before, restored.Locations[1].TagNumbers)

	emptied := d.RemoveTagSlot(1, 0)
	assert.Empty(t, emptied.Locations[1].TagNumbers)
	assert.Equal(t, []string{""}, emptied.Locations[1].SerialNumbers)
}

func TestFromRecord(t *testing.T) {
	record := models.AssetReceipt{
		ID:          14,
		AssetID:     "3",
		ReceivedBy:  "Bob",
		Remarks:     "late delivery",
		CreatedAt:   "2024-02-10T08:15:00.000000Z",
		TagNo:       "flattened",
		Locations: []models.ReceiptLocation{
			{LocationID: "2", Quantity: 5, SerialNumbers: []string{"A", "B"}},
			{LocationID: "4", Quantity: 1, ConditionID: "1", TagNumbers: []string{"T1"}},
		},
	}

	d := FromRecord(record)

	assert.Equal(t, models.Ref("3"), d.AssetID)
	assert.Equal(t, "2024-02-10", d.ReceiptDate, "falls back to created_at")
	assert.Equal(t, "Bob", d.ReceivedBy)
	require.Len(t, d.Locations, 2)
	assert.Equal(t, intPtr(5), d.Locations[0].Quantity)
	assert.Equal(t, []string{"A", "B"}, d.Locations[0].SerialNumbers)
	assert.Equal(t, []string{}, d.Locations[0].TagNumbers)
	assert.Equal(t, models.Ref("1"), d.Locations[1].ConditionID)

	record.Locations[0].SerialNumbers[0] = "changed"
	assert.Equal(t, "A", d.Locations[0].SerialNumbers[0], "draft must not alias the record")
}

func TestFromRecordPrefersReceiptDate(t *testing.T) {
	d := FromRecord(models.AssetReceipt{ReceiptDate: "2024-01-01", CreatedAt: "2024-02-10T08:15:00Z"})

	assert.Equal(t, "2024-01-01", d.ReceiptDate)
	require.Len(t, d.Locations, 1, "a record without locations hydrates one default entry")
	assert.Equal(t, NewLocation(), d.Locations[0])
}

func TestRecord(t *testing.T) {
	d := NewAt("2024-05-01").SetAssetReference("8")
	d, _ = d.SetField(FieldReceivedBy, "Alice")
	d, _ = d.SetLocationField(0, LocationFieldLocationID, "2")
	d, _ = d.SetLocationField(0, LocationFieldQuantity, "")
	d = d.SetSerial(0, 0, "SN-1")

	r := d.Record()

	assert.Equal(t, models.Ref("8"), r.AssetID)
	assert.Equal(t, "Alice", r.ReceivedBy)
	require.Len(t, r.Locations, 1)
	assert.Equal(t, 0, r.Locations[0].Quantity)
	assert.Equal(t, []string{"SN-1"}, r.Locations[0].SerialNumbers)
	assert.Equal(t, []string{""}, r.Locations[0].TagNumbers, "blank slots are submitted as-is")
	assert.Zero(t, r.ID)
}
