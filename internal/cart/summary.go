package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/green_homes/internal/models"
)

var (
	FreeShippingThreshold = decimal.NewFromInt(75)
	ShippingFee           = decimal.NewFromInt(50)
)

// Summary is the checkout breakdown shown next to the cart.
type Summary struct {
	ItemCount             int             `json:"itemCount"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	Total                 decimal.Decimal `json:"total"`
	FreeShippingRemaining decimal.Decimal `json:"freeShippingRemaining"`
}

func Summarize(c models.Cart) Summary {
	subtotal := decimal.NewFromFloat(c.Total).Round(2)

	shipping := ShippingFee
	remaining := FreeShippingThreshold.Sub(subtotal)
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
		remaining = decimal.Zero
	}

	return Summary{
		ItemCount:             c.ItemCount,
		Subtotal:              subtotal,
		Shipping:              shipping,
		Total:                 subtotal.Add(shipping),
		FreeShippingRemaining: remaining,
	}
}
