package contracts

import "time"

// Order side / status 상수
const (
	OrderSideBuy  = "buy"
	OrderSideSell = "sell"

	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusFilled   = "filled"
	OrderStatusRejected = "rejected"
)

// Order is a single instruction submitted to the broker gateway.
type Order struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Side      string    `json:"side"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"` // 0 = 시장가
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"` // 거부/오류 사유
	CreatedAt time.Time `json:"created_at"`
}

// IsMarket reports whether the order is a market order.
func (o *Order) IsMarket() bool {
	return o.Price == 0
}

// ExecutionReport summarizes the outcome of executing a rebalance plan.
// 미해결 주문은 기록만 하고 재시도하지 않는다.
type ExecutionReport struct {
	Date       time.Time `json:"date"`
	Submitted  []Order   `json:"submitted"`
	Unresolved []Order   `json:"unresolved"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// AllResolved reports whether every submitted order was accepted.
func (r *ExecutionReport) AllResolved() bool {
	return len(r.Unresolved) == 0
}
