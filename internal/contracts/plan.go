package contracts

import "time"

// RebalancePlan partitions the gap between holdings and target into
// sell / buy / hold legs
// ⭐ SSOT: 리밸런싱 계획 스키마는 여기서만 정의
type RebalancePlan struct {
	Date       time.Time  `json:"date"`
	Sells      []TradeLeg `json:"sells"`
	Buys       []TradeLeg `json:"buys"`
	Holds      []TradeLeg `json:"holds"`
	Capital    float64    `json:"capital"`
	CashBuffer float64    `json:"cash_buffer"`
	Source     string     `json:"source"` // computed | fallback
	CreatedAt  time.Time  `json:"created_at"`
}

// TradeLeg is one instrument's entry in a rebalance plan.
type TradeLeg struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"` // 매도: 보유 수량 전체, 매수: 산출 수량
	Price    float64 `json:"price"`    // 산출에 사용한 기준 가격
	Amount   float64 `json:"amount"`   // Quantity * Price
	Reason   string  `json:"reason,omitempty"`
}

// TargetSource values recorded on a plan.
const (
	SourceComputed = "computed"
	SourceFallback = "fallback"
)

// TotalSellAmount returns the notional of all sell legs.
func (p *RebalancePlan) TotalSellAmount() float64 {
	total := 0.0
	for _, leg := range p.Sells {
		total += leg.Amount
	}
	return total
}

// TotalBuyAmount returns the notional of all buy legs.
func (p *RebalancePlan) TotalBuyAmount() float64 {
	total := 0.0
	for _, leg := range p.Buys {
		total += leg.Amount
	}
	return total
}

// IsEmpty reports whether the plan has no trades to execute.
func (p *RebalancePlan) IsEmpty() bool {
	return len(p.Sells) == 0 && len(p.Buys) == 0
}
