package rebalance

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/strategyconfig"
	"github.com/wonny/talos/backend/pkg/logger"
)

// PriceSource supplies reference prices for sizing.
type PriceSource interface {
	LatestPrice(ctx context.Context, code string, date time.Time) (*contracts.PriceRecord, error)
}

// Planner partitions holdings vs target into sell / buy / hold legs
// ⭐ SSOT: 리밸런싱 계획 산출은 여기서만
type Planner struct {
	prices PriceSource
	cfg    strategyconfig.Rebalance
	logger *logger.Logger
}

// NewPlanner creates a new rebalance planner
func NewPlanner(prices PriceSource, cfg strategyconfig.Rebalance, log *logger.Logger) *Planner {
	return &Planner{
		prices: prices,
		cfg:    cfg,
		logger: log.WithField("module", "rebalance"),
	}
}

// Plan builds the rebalance plan for a date.
// 분할 법칙: 모든 관련 종목은 sell/buy/hold 중 정확히 하나에 속한다.
func (p *Planner) Plan(ctx context.Context, date time.Time, holdings []contracts.Holding, target *contracts.PortfolioTarget, capital float64) (*contracts.RebalancePlan, error) {
	held := make(map[string]contracts.Holding, len(holdings))
	for _, h := range holdings {
		held[h.Code] = h
	}

	plan := &contracts.RebalancePlan{
		Date:       date,
		Capital:    capital,
		CashBuffer: p.cfg.CashBufferPct,
		CreatedAt:  time.Now(),
	}

	// 매도: 보유 중이지만 타깃에 없는 종목은 전량 매도
	for _, h := range holdings {
		if target.Contains(h.Code) {
			continue
		}
		price := p.referencePrice(ctx, h.Code, date, h.AvgCost)
		plan.Sells = append(plan.Sells, contracts.TradeLeg{
			Code:     h.Code,
			Name:     h.Name,
			Quantity: h.Quantity,
			Price:    price,
			Amount:   float64(h.Quantity) * price,
			Reason:   "타깃 제외",
		})
	}
	sort.Slice(plan.Sells, func(i, j int) bool { return plan.Sells[i].Code < plan.Sells[j].Code })

	// 유지: 양쪽에 모두 있는 종목
	for _, pos := range target.Positions {
		h, ok := held[pos.Code]
		if !ok {
			continue
		}
		plan.Holds = append(plan.Holds, contracts.TradeLeg{
			Code:     h.Code,
			Name:     h.Name,
			Quantity: h.Quantity,
			Reason:   pos.Reason,
		})
	}

	// 매수: 타깃에 있지만 미보유 종목, 가용 자본 균등 배분
	var entering []contracts.TargetWeight
	for _, pos := range target.Positions {
		if _, ok := held[pos.Code]; !ok {
			entering = append(entering, pos)
		}
	}

	if len(entering) > 0 {
		alloc := capital * (1 - p.cfg.CashBufferPct)
		amountEach := alloc / float64(len(entering))

		// 수량을 못 정해도 종목은 계획에 남긴다 (qty 0) —
		// 집행 단계에서 미해결 주문으로 기록된다.
		for _, pos := range entering {
			leg := contracts.TradeLeg{
				Code:   pos.Code,
				Name:   pos.Name,
				Reason: pos.Reason,
			}

			price := p.referencePrice(ctx, pos.Code, date, 0)
			if price <= 0 {
				leg.Reason = "기준 가격 없음"
				p.logger.WithField("code", pos.Code).Warn("기준 가격 없음, 수량 미산출")
				plan.Buys = append(plan.Buys, leg)
				continue
			}

			qty := int(math.Floor(amountEach / price))
			qty -= qty % p.cfg.LotSize
			if qty <= 0 {
				leg.Price = price
				leg.Reason = "배분액 부족"
				p.logger.WithFields(map[string]interface{}{
					"code":   pos.Code,
					"price":  price,
					"budget": amountEach,
				}).Warn("배분액으로 1주도 매수 불가")
				plan.Buys = append(plan.Buys, leg)
				continue
			}

			leg.Quantity = qty
			leg.Price = price
			leg.Amount = float64(qty) * price
			plan.Buys = append(plan.Buys, leg)
		}
	}

	p.logger.WithFields(map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"sells": len(plan.Sells),
		"buys":  len(plan.Buys),
		"holds": len(plan.Holds),
	}).Info("Rebalance plan created")

	return plan, nil
}

// referencePrice 최신 종가 조회, 실패 시 fallback 사용
func (p *Planner) referencePrice(ctx context.Context, code string, date time.Time, fallback float64) float64 {
	price, err := p.prices.LatestPrice(ctx, code, date)
	if err != nil {
		p.logger.WithField("code", code).WithError(err).Warn("가격 조회 실패")
		return fallback
	}
	return price.Close
}
