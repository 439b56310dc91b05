package storefront

// Pricing is integer arithmetic over minor currency units. Chosen add-ons
// are charged per add-on quantity, then the whole line scales by the line
// quantity.

// LineTotal computes (base + Σ addon.price × addon.qty) × qty.
func LineTotal(basePrice int64, customizations []ChosenCustomization, quantity int64) int64 {
	unit := basePrice
	for _, ci := range customizations {
		unit += ci.Price * ci.Quantity
	}
	return unit * quantity
}

// Subtotal sums every line total of a cart snapshot.
func Subtotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += LineTotal(l.UnitPrice, l.Customizations, l.Quantity)
	}
	return total
}
