package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

// CartCurrency 為店面使用的幣別
const CartCurrency = stripe.CurrencyBRL

// CartItemSummary is one priced cart line.
type CartItemSummary struct {
	Product           Product         `json:"product"`
	PriceFormatted    string          `json:"price_formatted"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	SubtotalFormatted string          `json:"subtotal_formatted"`
}

// CartSummary 代表購物車的小計與總計
type CartSummary struct {
	Currency       stripe.Currency   `json:"currency"`
	Items          []CartItemSummary `json:"items"`
	Quantity       int               `json:"quantity"`
	Total          decimal.Decimal   `json:"total"`
	TotalFormatted string            `json:"total_formatted"`
}

func (c Cart) Summary() *CartSummary {
	summary := &CartSummary{
		Currency: CartCurrency,
		Items:    make([]CartItemSummary, 0, len(c)),
		Quantity: c.Quantity(),
		Total:    decimal.Zero,
	}

	for _, product := range c {
		price := decimal.NewFromFloat(product.Price)
		subtotal := price.Mul(decimal.NewFromInt(int64(product.Amount)))

		summary.Items = append(summary.Items, CartItemSummary{
			Product:           product,
			PriceFormatted:    FormatPrice(price),
			Subtotal:          subtotal,
			SubtotalFormatted: FormatPrice(subtotal),
		})
		summary.Total = summary.Total.Add(subtotal)
	}

	summary.TotalFormatted = FormatPrice(summary.Total)

	return summary
}

// FormatPrice renders a value the way the storefront displays reais,
// e.g. "R$ 1.234,50".
func FormatPrice(value decimal.Decimal) string {
	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Neg()
	}

	intPart, frac, _ := strings.Cut(value.StringFixed(2), ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return sign + "R$ " + b.String() + "," + frac
}
