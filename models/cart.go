package models

import (
	"encoding/json"
	"strings"
)

// Cart 代表購物車：依加入順序排列、以商品 ID 唯一的商品清單
type Cart []Product

func NewCart() Cart {
	return Cart{}
}

// ParseCart restores a cart from its serialized slot form.
func ParseCart(blob string) (Cart, error) {
	if strings.TrimSpace(blob) == "" {
		return NewCart(), nil
	}

	var cart Cart
	if err := json.Unmarshal([]byte(blob), &cart); err != nil {
		return nil, err
	}
	if cart == nil {
		cart = NewCart()
	}

	return cart, nil
}

// Marshal serializes the cart. An empty cart encodes as "[]".
func (c Cart) Marshal() (string, error) {
	if c == nil {
		c = NewCart()
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (c Cart) Index(productID int) int {
	for i, product := range c {
		if product.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Find(productID int) (Product, bool) {
	if i := c.Index(productID); i >= 0 {
		return c[i], true
	}
	return Product{}, false
}

func (c Cart) Clone() Cart {
	clone := make(Cart, len(c))
	copy(clone, c)
	return clone
}

// With returns a new cart with product appended.
func (c Cart) With(product Product) Cart {
	next := make(Cart, 0, len(c)+1)
	next = append(next, c...)
	return append(next, product)
}

// Without returns a new cart without the line for productID.
func (c Cart) Without(productID int) Cart {
	next := make(Cart, 0, len(c))
	for _, product := range c {
		if product.ID != productID {
			next = append(next, product)
		}
	}
	return next
}

// WithAmount returns a new cart where the line for productID holds amount.
// Lines for other products are untouched and order is preserved.
func (c Cart) WithAmount(productID, amount int) Cart {
	next := c.Clone()
	for i := range next {
		if next[i].ID == productID {
			next[i].Amount = amount
		}
	}
	return next
}

// Quantity is the total number of units across all lines.
func (c Cart) Quantity() int {
	total := 0
	for _, product := range c {
		total += product.Amount
	}
	return total
}
