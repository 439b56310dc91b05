package storefront

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartStore(t *testing.T) *CartStore {
	t.Helper()
	store, err := OpenCartStore(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCartMutations(t *testing.T) {
	store := newTestCartStore(t)
	cart, err := store.Cart("visitor-1")
	require.NoError(t, err)

	id1, err := cart.Add(CartLine{ItemID: 1, Name: "Pizza", UnitPrice: 1000, Quantity: 2})
	require.NoError(t, err)
	id2, err := cart.Add(CartLine{ItemID: 2, Name: "Refrigerante", UnitPrice: 500, Quantity: 1})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	before := cart.Subtotal()
	assert.Equal(t, int64(2500), before)

	require.NoError(t, cart.SetQuantity(id1, 3))
	assert.Equal(t, int64(3500), cart.Subtotal())

	// Removing what was added restores the previous subtotal.
	require.NoError(t, cart.SetQuantity(id1, 2))
	assert.Equal(t, before, cart.Subtotal())

	require.NoError(t, cart.Remove(id2))
	assert.Equal(t, int64(2000), cart.Subtotal())
	assert.Equal(t, 1, cart.Len())

	// Quantity zero removes the line instead of keeping a zero record.
	require.NoError(t, cart.SetQuantity(id1, 0))
	assert.Equal(t, 0, cart.Len())

	require.NoError(t, cart.Clear())
	assert.Zero(t, cart.Subtotal())
	assert.Empty(t, cart.Lines())
}

func TestCartValidation(t *testing.T) {
	store := newTestCartStore(t)
	cart, err := store.Cart("visitor-1")
	require.NoError(t, err)

	_, err = cart.Add(CartLine{ItemID: 0, Quantity: 1})
	assert.ErrorIs(t, err, ErrMissingItem)
	_, err = cart.Add(CartLine{ItemID: 1, Quantity: 0})
	assert.ErrorIs(t, err, ErrBadQuantity)
	_, err = cart.Add(CartLine{ItemID: 1, Quantity: 1, UnitPrice: -5})
	assert.ErrorIs(t, err, ErrBadUnitPrice)

	assert.ErrorIs(t, cart.SetQuantity("nope", 2), ErrLineNotFound)
	assert.ErrorIs(t, cart.SetQuantity("nope", -1), ErrBadQuantity)
	assert.ErrorIs(t, cart.Remove("nope"), ErrLineNotFound)

	_, err = store.Cart("")
	assert.ErrorIs(t, err, ErrMissingVisitor)
}

func TestCartPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carts.db")

	store, err := OpenCartStore(path)
	require.NoError(t, err)
	cart, err := store.Cart("visitor-9")
	require.NoError(t, err)
	_, err = cart.Add(CartLine{
		ItemID: 7, Name: "Açaí", UnitPrice: 1200, Quantity: 1,
		Customizations: []ChosenCustomization{{ID: 1, Name: "Granola", Price: 150, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// A fresh store on the same file rehydrates the cart.
	reopened, err := OpenCartStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	cart2, err := reopened.Cart("visitor-9")
	require.NoError(t, err)
	lines := cart2.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Açaí", lines[0].Name)
	assert.Equal(t, int64(1500), lines[0].Total())
}

func TestCartChangeEvents(t *testing.T) {
	store := newTestCartStore(t)
	cart, err := store.Cart("visitor-2")
	require.NoError(t, err)

	var events [][]CartLine
	err = store.Bus().Subscribe(TopicCartChanged, func(visitorID string, lines []CartLine) {
		if visitorID == "visitor-2" {
			events = append(events, lines)
		}
	})
	require.NoError(t, err)

	// Publishing is synchronous, so the slice is safe to inspect inline.
	id, err := cart.Add(CartLine{ItemID: 1, Name: "Pastel", UnitPrice: 800, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, cart.Remove(id))

	require.Len(t, events, 2)
	assert.Len(t, events[0], 1)
	assert.Empty(t, events[1])
}

func TestCartDrop(t *testing.T) {
	store := newTestCartStore(t)
	cart, err := store.Cart("visitor-3")
	require.NoError(t, err)
	_, err = cart.Add(CartLine{ItemID: 1, Name: "Coxinha", UnitPrice: 700, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, store.Drop("visitor-3"))
	fresh, err := store.Cart("visitor-3")
	require.NoError(t, err)
	assert.Empty(t, fresh.Lines())
}
