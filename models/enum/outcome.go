package enum

// Outcome 表示購物車操作的結果
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"        // 購物車已更新並寫入儲存
	OutcomeNoop          Outcome = "noop"           // 請求被忽略，購物車不變
	OutcomeStockExceeded Outcome = "stock_exceeded" // 請求數量超過庫存
	OutcomeAddFailed     Outcome = "add_failed"     // 新增商品失敗
	OutcomeRemoveFailed  Outcome = "remove_failed"  // 移除商品失敗
	OutcomeUpdateFailed  Outcome = "update_failed"  // 更新數量失敗
)

// IsFailure reports whether the outcome should be surfaced to the user.
func (o Outcome) IsFailure() bool {
	switch o {
	case OutcomeStockExceeded, OutcomeAddFailed, OutcomeRemoveFailed, OutcomeUpdateFailed:
		return true
	default:
		return false
	}
}
