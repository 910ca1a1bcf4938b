package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Ref
	}{
		{"number", `7`, "7"},
		{"string", `"7"`, "7"},
		{"non numeric string", `"LOC-A"`, "LOC-A"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			require.NoError(t, json.Unmarshal([]byte(tt.json), &r))
			assert.Equal(t, tt.want, r)
		})
	}

	var r Ref
	assert.Error(t, json.Unmarshal([]byte(`true`), &r))
}

func TestRefMarshal(t *testing.T) {
	data, err := json.Marshal(struct {
		A Ref `json:"a"`
		B Ref `json:"b"`
		C Ref `json:"c"`
	}{A: "12", B: "LOC-A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"LOC-A","c":null}`, string(data))
}

func TestRefMarshalNonCanonicalNumbers(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{"5", `{"location_id":5}`},
		{"-3", `{"location_id":-3}`},
		{"007", `{"location_id":"007"}`},
		{"+5", `{"location_id":"+5"}`},
		{"1e3", `{"location_id":"1e3"}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			data, err := json.Marshal(struct {
				LocationID Ref `json:"location_id"`
			}{LocationID: tt.ref})
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back struct {
				LocationID Ref `json:"location_id"`
			}
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.ref, back.LocationID)
		})
	}
}

func TestRefConversions(t *testing.T) {
	assert.Equal(t, Ref(""), RefFromID(0))
	assert.Equal(t, Ref("42"), RefFromID(42))
	assert.Equal(t, 42, Ref("42").ID())
	assert.Equal(t, 0, Ref("LOC-A").ID())
	assert.True(t, Ref("").IsZero())
}

func TestReceiptDisplayHelpers(t *testing.T) {
	three := 3
	tests := []struct {
		name     string
		receipt  AssetReceipt
		date     string
		quantity int
	}{
		{
			name:     "receipt date and locations",
			receipt:  AssetReceipt{ReceiptDate: "2024-05-01", Locations: []ReceiptLocation{{Quantity: 2}, {Quantity: 5}}},
			date:     "2024-05-01",
			quantity: 7,
		},
		{
			name:     "created_at fallback and flattened quantity",
			receipt:  AssetReceipt{CreatedAt: "2024-04-30T08:15:00.000000Z", Quantity: &three},
			date:     "2024-04-30",
			quantity: 3,
		},
		{
			name: "nothing to show",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.date, tt.receipt.DisplayDate())
			assert.Equal(t, tt.quantity, tt.receipt.TotalQuantity())
		})
	}
}

func TestAssetDisplayName(t *testing.T) {
	named := Asset{ID: 1, ItemName: "Forklift"}
	unnamed := Asset{ID: 9}

	assert.Equal(t, "Forklift", named.DisplayName())
	assert.Equal(t, "Asset #9", unnamed.DisplayName())
}
