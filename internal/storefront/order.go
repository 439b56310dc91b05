package storefront

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/zencartio/zencart/pkg/money"
)

// Delivery methods a shopper can pick at checkout.
const (
	DeliveryMethodDelivery = "delivery"
	DeliveryMethodPickup   = "pickup"
)

var (
	ErrCartEmpty         = errors.New("order: cart is empty")
	ErrMissingName       = errors.New("order: customer name is required")
	ErrMissingAddress    = errors.New("order: address is required for delivery")
	ErrMissingPhone      = errors.New("order: unit has no phone number")
	ErrBadDeliveryMethod = errors.New("order: invalid delivery method")
)

// OrderDetails is the checkout form input.
type OrderDetails struct {
	CustomerName   string `json:"customer_name" form:"customer_name"`
	DeliveryMethod string `json:"delivery_method" form:"delivery_method"`
	Address        string `json:"address" form:"address"`
}

// Order is a validated, priced order ready to be handed to WhatsApp.
type Order struct {
	Details OrderDetails
	Lines   []CartLine
	// Phone is the destination number including country code, digits only.
	Phone    string
	Subtotal int64
}

// BuildOrder validates the checkout input against the cart snapshot and
// produces an immutable order. countryCode is prefixed to the unit phone.
func BuildOrder(lines []CartLine, details OrderDetails, unitPhone, countryCode string) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	details.CustomerName = strings.TrimSpace(details.CustomerName)
	details.Address = strings.TrimSpace(details.Address)
	if details.CustomerName == "" {
		return nil, ErrMissingName
	}
	switch details.DeliveryMethod {
	case DeliveryMethodDelivery:
		if details.Address == "" {
			return nil, ErrMissingAddress
		}
	case DeliveryMethodPickup:
	default:
		return nil, ErrBadDeliveryMethod
	}
	phone := strings.TrimSpace(unitPhone)
	if phone == "" {
		return nil, ErrMissingPhone
	}
	return &Order{
		Details:  details,
		Lines:    lines,
		Phone:    countryCode + phone,
		Subtotal: Subtotal(lines),
	}, nil
}

// Message renders the Portuguese order summary sent over WhatsApp.
func (o *Order) Message() string {
	var b strings.Builder
	b.WriteString("\n  Oi, aqui estão os detalhes do meu pedido:\n\nItens:\n")
	for i, line := range o.Lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line.Name)
		fmt.Fprintf(&b, "Quantidade: %d, Preço: %s\n", line.Quantity, money.Format(line.Total()))
	}
	b.WriteString("--------------------------------\n\n")
	fmt.Fprintf(&b, "Nome: %s\n", o.Details.CustomerName)
	if o.Details.DeliveryMethod == DeliveryMethodDelivery {
		b.WriteString("Tipo de entrega: Entrega\n")
		fmt.Fprintf(&b, "Endereço: %s\n\n", o.Details.Address)
		fmt.Fprintf(&b, "Total: Entrega (mais) %s", money.Format(o.Subtotal))
	} else {
		b.WriteString("Tipo de entrega: Retirada\n")
		fmt.Fprintf(&b, "Total: %s", money.Format(o.Subtotal))
	}
	return b.String()
}

// WhatsAppLink builds the wa.me deep link with the encoded message.
func (o *Order) WhatsAppLink() string {
	return "https://wa.me/" + o.Phone + "?text=" + encodeURIComponent(o.Message())
}

// encodeURIComponent escapes the way browsers do: spaces become %20, not "+".
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
