package execution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/logger"
)

func testPlan() *contracts.RebalancePlan {
	return &contracts.RebalancePlan{
		Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Sells: []contracts.TradeLeg{
			{Code: "A", Name: "A", Quantity: 10},
		},
		Buys: []contracts.TradeLeg{
			{Code: "B", Name: "B", Quantity: 5, Price: 20_000},
			{Code: "C", Name: "C", Quantity: 3, Price: 30_000},
		},
	}
}

func TestExecuteSellsBeforeBuys(t *testing.T) {
	broker := NewMockBroker(10_000_000)
	executor := NewExecutor(broker, logger.NewNop())

	report, err := executor.Execute(context.Background(), testPlan())
	require.NoError(t, err)

	require.Len(t, broker.Submitted, 3)
	assert.Equal(t, contracts.OrderSideSell, broker.Submitted[0].Side)
	assert.Equal(t, contracts.OrderSideBuy, broker.Submitted[1].Side)
	assert.Equal(t, contracts.OrderSideBuy, broker.Submitted[2].Side)

	assert.True(t, report.AllResolved())
	assert.Len(t, report.Submitted, 3)
}

func TestExecuteRecordsRejectedAsUnresolved(t *testing.T) {
	broker := NewMockBroker(10_000_000)
	broker.Reject("B", "주문 가능 금액 부족")
	executor := NewExecutor(broker, logger.NewNop())

	report, err := executor.Execute(context.Background(), testPlan())
	require.NoError(t, err)

	// 거부된 주문은 기록만 되고 재시도되지 않는다
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "B", report.Unresolved[0].Code)
	assert.Equal(t, contracts.OrderStatusRejected, report.Unresolved[0].Status)

	// 거부와 무관하게 나머지 주문은 계속 제출
	assert.Len(t, broker.Submitted, 3)
}

func TestExecuteZeroQtyLegNotSubmitted(t *testing.T) {
	broker := NewMockBroker(10_000_000)
	executor := NewExecutor(broker, logger.NewNop())

	plan := &contracts.RebalancePlan{
		Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Buys: []contracts.TradeLeg{
			{Code: "A", Name: "A", Quantity: 5, Price: 20_000},
			{Code: "B", Name: "B", Quantity: 0, Reason: "배분액 부족"},
		},
	}

	report, err := executor.Execute(context.Background(), plan)
	require.NoError(t, err)

	// 수량 0 leg는 브로커로 가지 않고 미해결로만 기록된다
	require.Len(t, broker.Submitted, 1)
	assert.Equal(t, "A", broker.Submitted[0].Code)

	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "B", report.Unresolved[0].Code)
	assert.Equal(t, contracts.OrderStatusRejected, report.Unresolved[0].Status)
	assert.Contains(t, report.Unresolved[0].Message, "배분액 부족")
}

func TestExecuteEmptyPlan(t *testing.T) {
	broker := NewMockBroker(10_000_000)
	executor := NewExecutor(broker, logger.NewNop())

	plan := &contracts.RebalancePlan{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)}
	report, err := executor.Execute(context.Background(), plan)
	require.NoError(t, err)

	assert.Empty(t, report.Submitted)
	assert.True(t, report.AllResolved())
}

func TestExecuteContextCancelled(t *testing.T) {
	broker := NewMockBroker(10_000_000)
	executor := NewExecutor(broker, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := executor.Execute(ctx, testPlan())
	assert.Error(t, err)
	// 취소 시점까지의 기록은 보존된다
	assert.NotNil(t, report)
}
