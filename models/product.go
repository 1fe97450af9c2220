package models

import (
	"encoding/json"
)

// Product 代表商品，Amount 為購物車中持有的數量
type Product struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`

	// Extra keeps display fields the cart does not interpret so they
	// survive a round trip through the slot unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// UpdateProductAmount is the request to set a cart line to an exact quantity.
type UpdateProductAmount struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

var productFields = []string{"id", "title", "price", "image", "amount"}

type productJSON Product

func (p Product) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(productJSON(p))
	if err != nil || len(p.Extra) == 0 {
		return base, err
	}

	var known map[string]json.RawMessage
	if err = json.Unmarshal(base, &known); err != nil {
		return nil, err
	}

	fields := make(map[string]json.RawMessage, len(p.Extra)+len(known))
	for k, v := range p.Extra {
		fields[k] = v
	}
	for k, v := range known {
		fields[k] = v
	}

	return json.Marshal(fields)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var base productJSON
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, k := range productFields {
		delete(fields, k)
	}

	*p = Product(base)
	p.Extra = nil
	if len(fields) > 0 {
		p.Extra = fields
	}

	return nil
}
