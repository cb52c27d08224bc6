package checkout

import (
	"errors"
	"fmt"
	"strings"

	ierr "hema-storefront/internal/errors"
	"hema-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// ErrAddressRequired is returned when a delivery order has no street or number.
var ErrAddressRequired = errors.New("street and number are required for delivery")

type DeliveryMethod string

const (
	Delivery DeliveryMethod = "delivery"
	Pickup   DeliveryMethod = "pickup"
)

type PaymentMethod string

const (
	Pix  PaymentMethod = "pix"
	Card PaymentMethod = "card"
	Cash PaymentMethod = "cash"
)

// ParseDeliveryMethod defaults to Delivery when s is empty.
func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch m := DeliveryMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Delivery, nil
	case Delivery, Pickup:
		return m, nil
	}
	return "", fmt.Errorf("delivery method %q: %w", s, ierr.InvalidArgument)
}

// ParsePaymentMethod defaults to Pix when s is empty.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Pix, nil
	case Pix, Card, Cash:
		return m, nil
	}
	return "", fmt.Errorf("payment method %q: %w", s, ierr.InvalidArgument)
}

type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
}

type Order struct {
	Items    []model.CartItem
	Delivery DeliveryMethod
	Payment  PaymentMethod
	Address  Address
}

type Quote struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

type Confirmation struct {
	Quote    Quote
	Delivery DeliveryMethod
	Payment  PaymentMethod
	Message  string
}

// Calculator prices orders. Amounts are computed in decimal so a subtotal of
// cents never drifts.
type Calculator struct {
	DeliveryFee decimal.Decimal
}

func NewCalculator(deliveryFee float64) Calculator {
	return Calculator{DeliveryFee: decimal.NewFromFloat(deliveryFee)}
}

// Subtotal is the sum of unit price times quantity over items.
func Subtotal(items []model.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		price := decimal.NewFromFloat(item.Total)
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(item.QtdNumerica))))
	}
	return sum
}

// Quote prices items for method. The delivery fee only applies to Delivery.
func (c Calculator) Quote(items []model.CartItem, method DeliveryMethod) Quote {
	fee := decimal.Zero
	if method == Delivery {
		fee = c.DeliveryFee
	}
	subtotal := Subtotal(items)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}

// Confirm validates and acknowledges an order. Nothing is stored and the cart is
// left untouched.
func (c Calculator) Confirm(order Order) (Confirmation, error) {
	if order.Delivery == "" {
		order.Delivery = Delivery
	}
	if order.Payment == "" {
		order.Payment = Pix
	}
	if order.Delivery == Delivery &&
		(strings.TrimSpace(order.Address.Street) == "" || strings.TrimSpace(order.Address.Number) == "") {
		return Confirmation{}, ErrAddressRequired
	}

	quote := c.Quote(order.Items, order.Delivery)
	return Confirmation{
		Quote:    quote,
		Delivery: order.Delivery,
		Payment:  order.Payment,
		Message:  fmt.Sprintf("Your order of %s was received successfully.", FormatBRL(quote.Total)),
	}, nil
}

// FormatBRL renders an amount the way Brazilian prices are written, e.g. "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%s", sign, b.String(), cents)
}
