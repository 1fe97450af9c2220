package cart

import (
	"errors"

	"goflare.io/storefront/models"
	"goflare.io/storefront/models/enum"
)

var (
	ErrProductNotFound = errors.New("product not found in cart")
	ErrStockExceeded   = errors.New("requested amount exceeds stock")
)

// Result 是購物車操作的結果。Cart 為操作後的購物車內容
type Result struct {
	Outcome enum.Outcome
	Cart    models.Cart
	Err     error
}

// Changed reports whether the operation replaced the cart.
func (r Result) Changed() bool {
	return r.Outcome == enum.OutcomeSuccess
}

func (r Result) Failed() bool {
	return r.Outcome.IsFailure()
}
