package storefront

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines() []CartLine {
	return []CartLine{
		{
			ID:        "l1",
			ItemID:    1,
			Name:      "Pizza Margherita",
			UnitPrice: 1000,
			Quantity:  2,
			Customizations: []ChosenCustomization{
				{ID: 9, Name: "Borda recheada", Price: 200, Quantity: 1},
			},
		},
		{ID: "l2", ItemID: 2, Name: "Guaraná", UnitPrice: 600, Quantity: 1},
	}
}

func TestBuildOrderValidation(t *testing.T) {
	details := OrderDetails{CustomerName: "Ana", DeliveryMethod: DeliveryMethodPickup}

	_, err := BuildOrder(nil, details, "11999990000", "55")
	assert.ErrorIs(t, err, ErrCartEmpty)

	_, err = BuildOrder(sampleLines(), OrderDetails{DeliveryMethod: DeliveryMethodPickup}, "11999990000", "55")
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = BuildOrder(sampleLines(), OrderDetails{
		CustomerName: "Ana", DeliveryMethod: DeliveryMethodDelivery,
	}, "11999990000", "55")
	assert.ErrorIs(t, err, ErrMissingAddress)

	_, err = BuildOrder(sampleLines(), details, "", "55")
	assert.ErrorIs(t, err, ErrMissingPhone)

	_, err = BuildOrder(sampleLines(), OrderDetails{CustomerName: "Ana", DeliveryMethod: "mail"}, "11999990000", "55")
	assert.ErrorIs(t, err, ErrBadDeliveryMethod)
}

func TestBuildOrderPickup(t *testing.T) {
	order, err := BuildOrder(sampleLines(), OrderDetails{
		CustomerName:   "Ana",
		DeliveryMethod: DeliveryMethodPickup,
	}, "11999990000", "55")
	require.NoError(t, err)

	assert.Equal(t, "5511999990000", order.Phone)
	assert.Equal(t, int64(3000), order.Subtotal)

	msg := order.Message()
	assert.Contains(t, msg, "Oi, aqui estão os detalhes do meu pedido:")
	assert.Contains(t, msg, "1. Pizza Margherita")
	assert.Contains(t, msg, "Quantidade: 2, Preço: R$ 24,00")
	assert.Contains(t, msg, "2. Guaraná")
	assert.Contains(t, msg, "Tipo de entrega: Retirada")
	assert.Contains(t, msg, "Total: R$ 30,00")
	assert.NotContains(t, msg, "Endereço:")
	assert.NotContains(t, msg, "Entrega (mais)")
}

func TestBuildOrderDelivery(t *testing.T) {
	order, err := BuildOrder(sampleLines(), OrderDetails{
		CustomerName:   "Ana",
		DeliveryMethod: DeliveryMethodDelivery,
		Address:        "Rua das Flores, 123",
	}, "11999990000", "55")
	require.NoError(t, err)

	msg := order.Message()
	assert.Contains(t, msg, "Tipo de entrega: Entrega")
	assert.Contains(t, msg, "Endereço: Rua das Flores, 123")
	assert.Contains(t, msg, "Total: Entrega (mais) R$ 30,00")
}

func TestWhatsAppLink(t *testing.T) {
	order, err := BuildOrder(sampleLines(), OrderDetails{
		CustomerName:   "Ana Maria",
		DeliveryMethod: DeliveryMethodPickup,
	}, "11999990000", "55")
	require.NoError(t, err)

	link := order.WhatsAppLink()
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511999990000?text="), link)
	// Browser-style encoding: spaces as %20, never "+".
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "Ana%20Maria")
	assert.NotContains(t, link, " ")
}
