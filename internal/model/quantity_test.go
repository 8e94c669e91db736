package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_Float(t *testing.T) {
	tests := []struct {
		name   string
		q      Quantity
		want   float64
		wantOK bool
	}{
		{name: "Integer", q: "50000", want: 50000, wantOK: true},
		{name: "Decimal", q: " 1250.50 ", want: 1250.5, wantOK: true},
		{name: "Empty", q: "", wantOK: false},
		{name: "Suffixed", q: "5+", wantOK: false},
		{name: "Text", q: "call agent", wantOK: false},
		{name: "NaN", q: "NaN", wantOK: false},
		{name: "Infinity", q: "Inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.q.Float()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestQuantity_TrimPlus(t *testing.T) {
	assert.Equal(t, "5", Quantity("5+").TrimPlus())
	assert.Equal(t, "3", Quantity(" 3 ").TrimPlus())
	assert.Equal(t, "", Quantity("").TrimPlus())
}

func TestQuantity_UnmarshalJSON(t *testing.T) {
	var l Listing
	err := json.Unmarshal([]byte(`{"id":"a1","price":45000,"bedrooms":"5+","bathrooms":null}`), &l)
	require.NoError(t, err)

	assert.Equal(t, Quantity("45000"), l.Price)
	assert.Equal(t, Quantity("5+"), l.Bedrooms)
	assert.True(t, l.Bathrooms.IsZero())

	err = json.Unmarshal([]byte(`{"price":true}`), &l)
	assert.Error(t, err)
}

func TestQuantity_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Price    Quantity `json:"price"`
		Bedrooms Quantity `json:"bedrooms"`
		Missing  Quantity `json:"missing"`
	}{Price: "45000", Bedrooms: "5+"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":45000,"bedrooms":"5+","missing":null}`, string(out))
}

func TestQuantity_Scan(t *testing.T) {
	var q Quantity
	require.NoError(t, q.Scan([]byte("1200.00")))
	f, ok := q.Float()
	assert.True(t, ok)
	assert.Equal(t, 1200.0, f)

	require.NoError(t, q.Scan(int64(3)))
	assert.Equal(t, Quantity("3"), q)

	require.NoError(t, q.Scan(nil))
	assert.True(t, q.IsZero())
}

func TestQ(t *testing.T) {
	assert.Equal(t, Quantity("50000"), Q(50000))
	assert.Equal(t, Quantity("4+"), Q("4+"))
	f, ok := Q(math.Pi).Float()
	assert.True(t, ok)
	assert.InDelta(t, math.Pi, f, 1e-12)
}

func TestJSONArray_Scan(t *testing.T) {
	var a JSONArray
	require.NoError(t, a.Scan([]byte(`["Gym","Pool"]`)))
	assert.Equal(t, JSONArray{"Gym", "Pool"}, a)

	require.NoError(t, a.Scan(`["Parking"]`))
	assert.Equal(t, JSONArray{"Parking"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)

	assert.Error(t, a.Scan(42))
}

func TestAdvancedFilters_ActiveCount(t *testing.T) {
	assert.True(t, AdvancedFilters{}.IsEmpty())
	assert.True(t, AdvancedFilters{Location: "  "}.IsEmpty())

	f := AdvancedFilters{Location: "Karen", Bedrooms: "3+", Amenities: "gym,pool"}
	assert.Equal(t, 3, f.ActiveCount())
	assert.False(t, f.IsEmpty())
}

func TestText_Scan(t *testing.T) {
	var s Text
	require.NoError(t, s.Scan("Kilimani"))
	assert.Equal(t, Text("Kilimani"), s)

	require.NoError(t, s.Scan([]byte("Karen")))
	assert.Equal(t, "Karen", s.String())

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	v, err := s.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
