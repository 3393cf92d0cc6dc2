package rebalance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/talos/backend/internal/strategyconfig"
)

func TestShouldRebalance(t *testing.T) {
	monday := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	firstOfMonth := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	// DAILY: 평일만
	assert.True(t, ShouldRebalance(strategyconfig.CadenceDaily, monday))
	assert.True(t, ShouldRebalance(strategyconfig.CadenceDaily, tuesday))
	assert.False(t, ShouldRebalance(strategyconfig.CadenceDaily, saturday))

	// WEEKLY: 월요일만
	assert.True(t, ShouldRebalance(strategyconfig.CadenceWeekly, monday))
	assert.False(t, ShouldRebalance(strategyconfig.CadenceWeekly, tuesday))

	// MONTHLY: 1일만
	assert.True(t, ShouldRebalance(strategyconfig.CadenceMonthly, firstOfMonth))
	assert.False(t, ShouldRebalance(strategyconfig.CadenceMonthly, monday))

	// 알 수 없는 주기는 항상 false
	assert.False(t, ShouldRebalance("YEARLY", monday))
}
