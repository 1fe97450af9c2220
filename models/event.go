package models

import (
	"time"

	"goflare.io/storefront/models/enum"
)

// CartEvent 代表一次購物車操作的結果，用於通知與事件發布
type CartEvent struct {
	Outcome    enum.Outcome `json:"outcome"`
	Operation  string       `json:"operation"`
	ProductID  int          `json:"product_id"`
	Amount     int          `json:"amount,omitempty"`
	Cart       Cart         `json:"cart"`
	Message    string       `json:"message,omitempty"`
	Error      string       `json:"error,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
