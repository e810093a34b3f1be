package seed

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranito1909/furniture-store/internal/domain/catalog"
)

func TestDecode(t *testing.T) {
	line := `{"kind":"chair","name":"Aria","description":"oak dining chair","price":"129.90","quantity":24,"dimensions":[45,52,88],"material":"velvet"}`

	rec, err := Decode([]byte(line))
	require.NoError(t, err)

	assert.Equal(t, catalog.KindChair, rec.Kind)
	assert.Equal(t, "Aria", rec.Name)
	assert.Equal(t, "oak dining chair", rec.Description)
	assert.True(t, rec.Price.Equal(decimal.RequireFromString("129.90")))
	assert.Equal(t, 24, rec.Quantity)
	assert.Equal(t, []float64{45, 52, 88}, rec.Dimensions)
	assert.Equal(t, "velvet", rec.Material)
}

func TestDecode_IgnoresUnknownKeys(t *testing.T) {
	line := `{"kind":"lamp","name":"Lumo","price":"89.50","quantity":1,"light_source":"LED","supplier_ref":"x-123"}`

	rec, err := Decode([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, "LED", rec.LightSource)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"not json", `chair,Aria,129.90`},
		{"unknown kind", `{"kind":"bed","name":"Nox","price":"10","quantity":1}`},
		{"missing name", `{"kind":"chair","price":"10","quantity":1}`},
		{"zero quantity", `{"kind":"chair","name":"Aria","price":"10","quantity":0}`},
		{"negative price", `{"kind":"chair","name":"Aria","price":"-10","quantity":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.line))
			assert.Error(t, err)
		})
	}
}

func TestAppendDecodeRoundTrip(t *testing.T) {
	in := Record{
		Kind:        catalog.KindShelf,
		Name:        "Stava",
		Description: "wall-mounted bookshelf",
		Price:       decimal.RequireFromString("74.90"),
		Quantity:    30,
		Dimensions:  []float64{80, 24, 26},
		WallMounted: true,
	}

	var e jx.Encoder
	in.Append(&e)

	out, err := Decode(e.Bytes())
	require.NoError(t, err)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Quantity, out.Quantity)
	assert.True(t, in.Price.Equal(out.Price))
	assert.True(t, out.WallMounted)
}

func TestItem(t *testing.T) {
	rec := Record{
		Kind:     catalog.KindSofa,
		Name:     "Haven",
		Price:    decimal.RequireFromString("899.00"),
		Quantity: 5,
		Capacity: 3,
	}

	item := rec.Item()
	require.NotNil(t, item)
	assert.Equal(t, catalog.KindSofa, item.Kind)
	assert.Equal(t, "Haven", item.Name)
	assert.Equal(t, 3, item.Extra.Num)
}
