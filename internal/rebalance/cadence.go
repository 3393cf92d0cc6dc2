package rebalance

import (
	"time"

	"github.com/wonny/talos/backend/internal/strategyconfig"
)

// ShouldRebalance reports whether the cadence fires on the date.
// DAILY: 평일마다, WEEKLY: 월요일, MONTHLY: 매월 1일.
// 휴장일 보정은 잡 레벨에서 데이터 유무로 처리한다.
func ShouldRebalance(cadence string, date time.Time) bool {
	switch cadence {
	case strategyconfig.CadenceDaily:
		return date.Weekday() != time.Saturday && date.Weekday() != time.Sunday
	case strategyconfig.CadenceWeekly:
		return date.Weekday() == time.Monday
	case strategyconfig.CadenceMonthly:
		return date.Day() == 1
	default:
		return false
	}
}
