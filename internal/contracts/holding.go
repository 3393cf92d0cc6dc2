package contracts

// Holding represents a currently held position.
// 수량 변경은 체결 확인(외부 협력자)에서만 발생한다.
type Holding struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	AvgCost  float64 `json:"avg_cost"`
}
