package models

// Stock is the purchasable quantity the stock endpoint reports for a product.
type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}
