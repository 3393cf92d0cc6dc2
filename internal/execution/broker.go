package execution

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/config"
	"github.com/wonny/talos/backend/pkg/httputil"
	"github.com/wonny/talos/backend/pkg/logger"
)

// KISBroker submits orders to the KIS OpenAPI
// ⭐ SSOT: 증권사 호출은 여기서만. 초당 호출 수 제한 준수.
type KISBroker struct {
	client  *httputil.Client
	cfg     config.BrokerConfig
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewKISBroker creates a broker gateway for the KIS OpenAPI
func NewKISBroker(cfg config.BrokerConfig, log *logger.Logger) *KISBroker {
	return &KISBroker{
		client:  httputil.NewClient(cfg.BaseURL, 10*time.Second),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:  log.WithField("module", "broker"),
	}
}

// SubmitOrder submits one order. 호출 전 레이트 리미터 대기.
func (b *KISBroker) SubmitOrder(ctx context.Context, order *contracts.Order) (*contracts.Order, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := "/uapi/domestic-stock/v1/trading/order-cash"
	body := map[string]interface{}{
		"CANO":         b.cfg.AccountNo,
		"PDNO":         order.Code,
		"ORD_DVSN":     orderDivision(order),
		"ORD_QTY":      fmt.Sprintf("%d", order.Quantity),
		"ORD_UNPR":     fmt.Sprintf("%.0f", order.Price),
		"SLL_BUY_DVSN": sideCode(order.Side),
	}

	var resp struct {
		RtCd string `json:"rt_cd"`
		Msg1 string `json:"msg1"`
	}
	if err := b.client.PostJSON(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("order submit failed (%s): %w", order.Code, err)
	}

	result := *order
	result.Message = resp.Msg1
	if resp.RtCd == "0" {
		result.Status = contracts.OrderStatusAccepted
	} else {
		result.Status = contracts.OrderStatusRejected
	}
	return &result, nil
}

// Holdings retrieves current account positions.
func (b *KISBroker) Holdings(ctx context.Context) ([]contracts.Holding, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	path := "/uapi/domestic-stock/v1/trading/inquire-balance"
	var resp struct {
		Output []struct {
			Code     string `json:"pdno"`
			Name     string `json:"prdt_name"`
			Quantity string `json:"hldg_qty"`
			AvgCost  string `json:"pchs_avg_pric"`
		} `json:"output1"`
	}
	if err := b.client.GetJSON(ctx, path, map[string]string{"CANO": b.cfg.AccountNo}, &resp); err != nil {
		return nil, fmt.Errorf("holdings query failed: %w", err)
	}

	holdings := make([]contracts.Holding, 0, len(resp.Output))
	for _, row := range resp.Output {
		var h contracts.Holding
		h.Code = row.Code
		h.Name = row.Name
		fmt.Sscanf(row.Quantity, "%d", &h.Quantity)
		fmt.Sscanf(row.AvgCost, "%f", &h.AvgCost)
		if h.Quantity > 0 {
			holdings = append(holdings, h)
		}
	}
	return holdings, nil
}

// Cash retrieves the orderable cash balance.
func (b *KISBroker) Cash(ctx context.Context) (float64, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	path := "/uapi/domestic-stock/v1/trading/inquire-psbl-order"
	var resp struct {
		Output struct {
			Cash string `json:"ord_psbl_cash"`
		} `json:"output"`
	}
	if err := b.client.GetJSON(ctx, path, map[string]string{"CANO": b.cfg.AccountNo}, &resp); err != nil {
		return 0, fmt.Errorf("cash query failed: %w", err)
	}

	var cash float64
	fmt.Sscanf(resp.Output.Cash, "%f", &cash)
	return cash, nil
}

func sideCode(side string) string {
	if side == contracts.OrderSideBuy {
		return "02"
	}
	return "01"
}

func orderDivision(order *contracts.Order) string {
	if order.IsMarket() {
		return "01" // 시장가
	}
	return "00" // 지정가
}

// MockBroker implements contracts.BrokerGateway for dry runs and tests.
type MockBroker struct {
	prices   map[string]float64
	holdings []contracts.Holding
	cash     float64
	rejected map[string]string // code → 거부 사유

	Submitted []contracts.Order
}

// NewMockBroker creates a mock broker with the given starting cash
func NewMockBroker(cash float64) *MockBroker {
	return &MockBroker{
		prices:   make(map[string]float64),
		rejected: make(map[string]string),
		cash:     cash,
	}
}

// SetPrice sets a mock price
func (b *MockBroker) SetPrice(code string, price float64) { b.prices[code] = price }

// SetHoldings sets the mock positions
func (b *MockBroker) SetHoldings(holdings []contracts.Holding) { b.holdings = holdings }

// Reject makes orders for a code fail with the given message
func (b *MockBroker) Reject(code, message string) { b.rejected[code] = message }

func (b *MockBroker) SubmitOrder(_ context.Context, order *contracts.Order) (*contracts.Order, error) {
	result := *order
	if msg, ok := b.rejected[order.Code]; ok {
		result.Status = contracts.OrderStatusRejected
		result.Message = msg
	} else {
		result.Status = contracts.OrderStatusAccepted
	}
	b.Submitted = append(b.Submitted, result)
	return &result, nil
}

func (b *MockBroker) Holdings(_ context.Context) ([]contracts.Holding, error) {
	return b.holdings, nil
}

func (b *MockBroker) Cash(_ context.Context) (float64, error) {
	return b.cash, nil
}
