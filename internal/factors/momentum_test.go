package factors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/talos/backend/internal/contracts"
)

// risingPrices 일정 비율로 상승해 온 가격 이력 (최신순)
func risingPrices(days int, latest, dailyGain float64) []contracts.PriceRecord {
	prices := make([]contracts.PriceRecord, days)
	price := latest
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		prices[i] = contracts.PriceRecord{
			Code:   "005930",
			Date:   date.AddDate(0, 0, -i),
			Close:  price,
			High:   price * 1.01,
			Volume: 1_000_000,
		}
		price /= 1 + dailyGain
	}
	return prices
}

func TestCollectMomentumInsufficientHistory(t *testing.T) {
	_, err := CollectMomentum(MomentumInputs{Prices: risingPrices(100, 50_000, 0.001)})
	assert.ErrorIs(t, err, contracts.ErrInsufficientHistory)
}

func TestCollectMomentumRisingStock(t *testing.T) {
	m, err := CollectMomentum(MomentumInputs{Prices: risingPrices(260, 70_000, 0.002)})
	require.NoError(t, err)

	// 꾸준한 상승: 모든 구간 수익률 양수, 장기일수록 큼
	assert.Greater(t, m.Return1M, 0.0)
	assert.Greater(t, m.Return3M, m.Return1M)
	assert.Greater(t, m.Return12M, m.Return6M)

	// 상승 추세면 이평 정배열
	assert.Equal(t, 100.0, m.MAAlignment)

	// 고점 부근
	assert.Greater(t, m.High52WProx, 95.0)

	// 모든 날이 상승 마감
	assert.Equal(t, 100.0, m.UpDaysRatio)
}

func TestCollectMomentumRelativeStrength(t *testing.T) {
	in := MomentumInputs{
		Prices:         risingPrices(260, 70_000, 0.002),
		MarketReturn3M: 5.0,
		SectorReturn3M: 10.0,
	}
	m, err := CollectMomentum(in)
	require.NoError(t, err)

	assert.InDelta(t, m.Return3M-5.0, m.RelStrengthMarket, 1e-9)
	assert.InDelta(t, m.Return3M-10.0, m.RelStrengthSector, 1e-9)
}

func TestMomentumScoreOrdering(t *testing.T) {
	xs := NewCrossSection()

	strong, err := CollectMomentum(MomentumInputs{Prices: risingPrices(260, 70_000, 0.004)})
	require.NoError(t, err)
	weak, err := CollectMomentum(MomentumInputs{Prices: risingPrices(260, 70_000, 0.0005)})
	require.NoError(t, err)

	strong.Observe(xs)
	weak.Observe(xs)
	xs.Finalize()

	assert.Greater(t, strong.Score(xs), weak.Score(xs))
}
