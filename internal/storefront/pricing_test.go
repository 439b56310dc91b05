package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	// (1000 + 200×1) × 2 = 2400
	total := LineTotal(1000, []ChosenCustomization{
		{ID: 1, Name: "Extra cheese", Price: 200, Quantity: 1},
	}, 2)
	assert.Equal(t, int64(2400), total)
}

func TestLineTotalNoCustomizations(t *testing.T) {
	assert.Equal(t, int64(3000), LineTotal(1500, nil, 2))
}

func TestLineTotalCustomizationQuantityScales(t *testing.T) {
	// (500 + 100×3) × 1 = 800
	total := LineTotal(500, []ChosenCustomization{
		{Price: 100, Quantity: 3},
	}, 1)
	assert.Equal(t, int64(800), total)
}

func TestSubtotal(t *testing.T) {
	lines := []CartLine{
		{UnitPrice: 1000, Quantity: 2, Customizations: []ChosenCustomization{{Price: 200, Quantity: 1}}},
		{UnitPrice: 750, Quantity: 1},
	}
	assert.Equal(t, int64(3150), Subtotal(lines))
	assert.Equal(t, int64(0), Subtotal(nil))
}
