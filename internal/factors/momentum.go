package factors

import (
	"github.com/wonny/talos/backend/internal/contracts"
)

// 거래일 기준 조회 구간
const (
	days1M  = 21
	days3M  = 63
	days6M  = 126
	days12M = 252

	upDaysWindow = 60
)

// MomentumInputs carries what the momentum factor needs for one instrument.
// Prices는 최신순, MarketReturn3M/SectorReturn3M은 유니버스에서 산출.
type MomentumInputs struct {
	Prices         []contracts.PriceRecord
	MarketReturn3M float64
	SectorReturn3M float64
}

// MomentumMetrics holds the raw momentum components for one instrument.
type MomentumMetrics struct {
	Return1M  float64
	Return3M  float64
	Return6M  float64
	Return12M float64

	VolumeTrend1M float64
	VolumeTrend3M float64

	RelStrengthMarket float64
	RelStrengthSector float64

	UpDaysRatio     float64
	High52WProx     float64
	MAAlignment     float64
}

// 모멘텀 팩터 구성: 가격 40% + 거래량 25% + 상대강도 20% + 지속성 15%
func (m *MomentumMetrics) components() []componentValue {
	return []componentValue{
		// 가격 모멘텀 (40%): 1M 40 / 3M 30 / 6M 20 / 12M 10
		{"momentum.ret_1m", 0.40 * 0.40, false, m.Return1M},
		{"momentum.ret_3m", 0.40 * 0.30, false, m.Return3M},
		{"momentum.ret_6m", 0.40 * 0.20, false, m.Return6M},
		{"momentum.ret_12m", 0.40 * 0.10, false, m.Return12M},
		// 거래량 추세 (25%): 1M 60 / 3M 40
		{"momentum.vol_1m", 0.25 * 0.60, false, m.VolumeTrend1M},
		{"momentum.vol_3m", 0.25 * 0.40, false, m.VolumeTrend3M},
		// 상대강도 (20%): 시장 대비 50 / 섹터 대비 50
		{"momentum.rs_market", 0.20 * 0.50, false, m.RelStrengthMarket},
		{"momentum.rs_sector", 0.20 * 0.50, false, m.RelStrengthSector},
		// 지속성 (15%): 상승일 비율 40 / 52주 고점 근접 30 / 이평 정배열 30
		{"momentum.up_days", 0.15 * 0.40, false, m.UpDaysRatio},
		{"momentum.high52w", 0.15 * 0.30, false, m.High52WProx},
		{"momentum.ma_align", 0.15 * 0.30, false, m.MAAlignment},
	}
}

// CollectMomentum extracts momentum metrics from price history.
// 12개월 수익률 계산을 위해 최소 252거래일 필요.
func CollectMomentum(in MomentumInputs) (*MomentumMetrics, error) {
	prices := in.Prices
	if len(prices) < days12M {
		return nil, contracts.ErrInsufficientHistory
	}

	m := &MomentumMetrics{
		Return1M:  periodReturn(prices, days1M),
		Return3M:  periodReturn(prices, days3M),
		Return6M:  periodReturn(prices, days6M),
		Return12M: periodReturn(prices, days12M),

		VolumeTrend1M: volumeTrend(prices, days1M),
		VolumeTrend3M: volumeTrend(prices, days3M),

		UpDaysRatio: upDaysRatio(prices, upDaysWindow),
		High52WProx: high52Proximity(prices),
		MAAlignment: maAlignment(prices),
	}

	m.RelStrengthMarket = m.Return3M - in.MarketReturn3M
	m.RelStrengthSector = m.Return3M - in.SectorReturn3M

	return m, nil
}

// Observe feeds this instrument's metrics into the cross section.
func (m *MomentumMetrics) Observe(xs *CrossSection) {
	observeAll(xs, m.components())
}

// Score ranks the metrics against the cross section, in [0, 100].
func (m *MomentumMetrics) Score(xs *CrossSection) float64 {
	return blend(xs, m.components())
}

// Return3M returns the 3-month return of a price history, newest first.
// 시장/섹터 평균 수익률 산출용.
func Return3M(prices []contracts.PriceRecord) float64 {
	if len(prices) <= days3M {
		return missing
	}
	return periodReturn(prices, days3M)
}

// periodReturn 최신 종가 대비 `days` 거래일 전 종가의 수익률 (%)
func periodReturn(prices []contracts.PriceRecord, days int) float64 {
	base := days
	if base >= len(prices) {
		base = len(prices) - 1
	}
	if prices[base].Close == 0 {
		return missing
	}
	return (prices[0].Close - prices[base].Close) / prices[base].Close * 100
}

// volumeTrend 최근 `days`일 평균 거래량의 직전 `days`일 대비 변화율 (%)
func volumeTrend(prices []contracts.PriceRecord, days int) float64 {
	if len(prices) < 2*days {
		return missing
	}
	recent := avgVolume(prices[:days])
	prior := avgVolume(prices[days : 2*days])
	if prior == 0 {
		return missing
	}
	return (recent - prior) / prior * 100
}

func avgVolume(prices []contracts.PriceRecord) float64 {
	total := int64(0)
	for _, p := range prices {
		total += p.Volume
	}
	return float64(total) / float64(len(prices))
}

// upDaysRatio 최근 `window`일 중 상승 마감 비율 (%)
func upDaysRatio(prices []contracts.PriceRecord, window int) float64 {
	if len(prices) < window+1 {
		return missing
	}
	up := 0
	for i := 0; i < window; i++ {
		if prices[i].Close > prices[i+1].Close {
			up++
		}
	}
	return float64(up) / float64(window) * 100
}

// high52Proximity 52주 고가 대비 현재가 위치 (%)
func high52Proximity(prices []contracts.PriceRecord) float64 {
	high := 0.0
	for i := 0; i < len(prices) && i < days12M; i++ {
		if prices[i].High > high {
			high = prices[i].High
		}
	}
	if high == 0 {
		return missing
	}
	return prices[0].Close / high * 100
}

// maAlignment 이동평균 정배열 정도: 5 > 20 (+50), 20 > 60 (+50)
func maAlignment(prices []contracts.PriceRecord) float64 {
	if len(prices) < 60 {
		return missing
	}
	ma5 := avgClose(prices[:5])
	ma20 := avgClose(prices[:20])
	ma60 := avgClose(prices[:60])

	score := 0.0
	if ma5 > ma20 {
		score += 50
	}
	if ma20 > ma60 {
		score += 50
	}
	return score
}

func avgClose(prices []contracts.PriceRecord) float64 {
	total := 0.0
	for _, p := range prices {
		total += p.Close
	}
	return total / float64(len(prices))
}
