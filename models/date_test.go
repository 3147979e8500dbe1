package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.January, 15)
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-15"`, string(data))

	var got Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-15"`), &got))
	assert.True(t, d.Equal(got.Time))

	for _, bad := range []string{`"15/01/2024"`, `"2024-02-30"`, `20240115`, `""`} {
		assert.Error(t, json.Unmarshal([]byte(bad), &got), bad)
	}
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
	}{
		{name: "time", src: time.Date(2024, time.January, 15, 13, 45, 0, 0, time.FixedZone("TRT", 3*3600))},
		{name: "string", src: "2024-01-15"},
		{name: "sqlite datetime", src: "2024-01-15 00:00:00+00:00"},
		{name: "bytes", src: []byte("2024-01-15")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, "2024-01-15", d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
	assert.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2023, time.June, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2023-06-01", v)
}

func TestAssetFields_ApplyTo(t *testing.T) {
	a := Asset{ID: 7, Name: "Laptop", Value: 999.99}
	NewAssetFields("", "Furniture", 0, NewDate(2023, time.June, 1), "retired").ApplyTo(&a)

	assert.Equal(t, uint(7), a.ID)
	assert.Equal(t, "", a.Name)
	assert.Equal(t, "Furniture", a.Category)
	assert.Equal(t, 0.0, a.Value)
	assert.Equal(t, "retired", a.Status)
}

func TestAssetCreate_JSONIsFlat(t *testing.T) {
	var in AssetCreate
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Chair","category":"Furniture","value":50,"purchase_date":"2024-01-01","status":"active"}`), &in))
	require.NotNil(t, in.Name)
	assert.Equal(t, "Chair", *in.Name)
	require.NotNil(t, in.Value)
	assert.Equal(t, LaxFloat(50), *in.Value)
	require.NotNil(t, in.PurchaseDate)
	assert.Equal(t, "2024-01-01", in.PurchaseDate.String())
}

func TestLaxFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    LaxFloat
		wantErr bool
	}{
		{in: `999.99`, want: 999.99},
		{in: `0`, want: 0},
		{in: `"999.99"`, want: 999.99},
		{in: `" 12 "`, want: 12},
		{in: `"-3.5e2"`, want: -350},
		{in: `"cheap"`, wantErr: true},
		{in: `""`, wantErr: true},
		{in: `"NaN"`, wantErr: true},
		{in: `"Infinity"`, wantErr: true},
		{in: `true`, wantErr: true},
		{in: `[1]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f LaxFloat
			err := json.Unmarshal([]byte(tt.in), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}

	// null pointer alanı nil bırakır, required kontrolü yakalar
	var in AssetCreate
	require.NoError(t, json.Unmarshal([]byte(`{"value":null}`), &in))
	assert.Nil(t, in.Value)
}
