package execution

import (
	"context"
	"time"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/logger"
)

// Executor turns a rebalance plan into broker orders
// ⭐ SSOT: 주문 집행 순서/기록은 여기서만
type Executor struct {
	broker contracts.BrokerGateway
	logger *logger.Logger
}

// NewExecutor creates a new executor
func NewExecutor(broker contracts.BrokerGateway, log *logger.Logger) *Executor {
	return &Executor{
		broker: broker,
		logger: log.WithField("module", "execution"),
	}
}

// Execute submits sells first (자금 확보), then buys.
// 실패 주문은 Unresolved에 기록만 하고 재시도하지 않는다 —
// 다음 사이클이 실제 보유 상태에서 다시 계획한다.
func (e *Executor) Execute(ctx context.Context, plan *contracts.RebalancePlan) (*contracts.ExecutionReport, error) {
	report := &contracts.ExecutionReport{
		Date:      plan.Date,
		StartedAt: time.Now(),
	}

	for _, leg := range plan.Sells {
		if leg.Quantity <= 0 {
			e.recordUnsubmittable(report, leg, contracts.OrderSideSell)
			continue
		}
		e.submit(ctx, report, legToOrder(leg, contracts.OrderSideSell))
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now()
			return report, err
		}
	}

	for _, leg := range plan.Buys {
		if leg.Quantity <= 0 {
			e.recordUnsubmittable(report, leg, contracts.OrderSideBuy)
			continue
		}
		e.submit(ctx, report, legToOrder(leg, contracts.OrderSideBuy))
		if err := ctx.Err(); err != nil {
			report.FinishedAt = time.Now()
			return report, err
		}
	}

	report.FinishedAt = time.Now()

	e.logger.WithFields(map[string]interface{}{
		"date":       plan.Date.Format("2006-01-02"),
		"submitted":  len(report.Submitted),
		"unresolved": len(report.Unresolved),
	}).Info("Execution completed")

	return report, nil
}

func (e *Executor) submit(ctx context.Context, report *contracts.ExecutionReport, order contracts.Order) {
	result, err := e.broker.SubmitOrder(ctx, &order)
	if err != nil {
		order.Status = contracts.OrderStatusRejected
		order.Message = err.Error()
		report.Unresolved = append(report.Unresolved, order)
		e.logger.WithFields(map[string]interface{}{
			"code": order.Code,
			"side": order.Side,
		}).WithError(err).Warn("주문 제출 실패")
		return
	}

	report.Submitted = append(report.Submitted, *result)
	if result.Status == contracts.OrderStatusRejected {
		report.Unresolved = append(report.Unresolved, *result)
		e.logger.WithFields(map[string]interface{}{
			"code":    result.Code,
			"side":    result.Side,
			"message": result.Message,
		}).Warn("주문 거부됨")
	}
}

// recordUnsubmittable 수량이 없는 leg는 브로커 호출 없이 미해결로 기록.
func (e *Executor) recordUnsubmittable(report *contracts.ExecutionReport, leg contracts.TradeLeg, side string) {
	order := legToOrder(leg, side)
	order.Status = contracts.OrderStatusRejected
	order.Message = "수량 미산출: " + leg.Reason
	report.Unresolved = append(report.Unresolved, order)
	e.logger.WithFields(map[string]interface{}{
		"code":   leg.Code,
		"side":   side,
		"reason": leg.Reason,
	}).Warn("수량 0, 주문 미제출")
}

func legToOrder(leg contracts.TradeLeg, side string) contracts.Order {
	return contracts.Order{
		Code:      leg.Code,
		Name:      leg.Name,
		Side:      side,
		Quantity:  leg.Quantity,
		Price:     0, // 시장가
		Status:    contracts.OrderStatusPending,
		CreatedAt: time.Now(),
	}
}
