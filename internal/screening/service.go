package screening

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/internal/factors"
	"github.com/wonny/talos/backend/internal/marketdata"
	"github.com/wonny/talos/backend/internal/scoring"
	"github.com/wonny/talos/backend/internal/strategyconfig"
	"github.com/wonny/talos/backend/pkg/logger"
)

// 데이터 수집 동시성 (I/O 바운드)
const defaultWorkers = 8

// Screener runs the daily factor scoring pipeline
// ⭐ SSOT: 스크리닝 파이프라인 오케스트레이션은 여기서만
type Screener struct {
	data    *marketdata.Provider
	filter  *UniverseFilter
	agg     *scoring.Aggregator
	repo    *Repository
	cfg     *strategyconfig.Config
	logger  *logger.Logger
	workers int
}

// NewScreener creates a new screener
func NewScreener(
	data *marketdata.Provider,
	agg *scoring.Aggregator,
	repo *Repository,
	cfg *strategyconfig.Config,
	log *logger.Logger,
) *Screener {
	return &Screener{
		data:    data,
		filter:  NewUniverseFilter(cfg.Universe.Filters),
		agg:     agg,
		repo:    repo,
		cfg:     cfg,
		logger:  log.WithField("module", "screening"),
		workers: defaultWorkers,
	}
}

// collected is the raw material gathered per instrument before scoring.
type collected struct {
	row    marketdata.UniverseRow
	prices []contracts.PriceRecord
	fins   []contracts.FinancialRecord
	ret3M  float64
	err    error
}

// Run executes the full pipeline for a date and returns the saved target.
// 같은 날짜로 다시 실행하면 이전 결과를 통째로 교체한다.
func (s *Screener) Run(ctx context.Context, date time.Time) (*contracts.PortfolioTarget, error) {
	start := time.Now()

	// 1. 유니버스 로드 + 1차 필터
	rows, err := s.data.UniverseSnapshot(ctx, date)
	if err != nil {
		return nil, err
	}
	passed, filtered := s.filter.Apply(rows)
	if len(passed) > s.cfg.Universe.MaxSize {
		passed = passed[:s.cfg.Universe.MaxSize] // 시총 상위 우선
	}

	s.logger.WithFields(map[string]interface{}{
		"date":     date.Format("2006-01-02"),
		"input":    len(rows),
		"passed":   len(passed),
		"filtered": filtered,
	}).Info("Universe filtering completed")

	if len(passed) == 0 {
		return nil, fmt.Errorf("no instruments passed filters on %s: %w",
			date.Format("2006-01-02"), contracts.ErrInsufficientUniverse)
	}

	// 2. 워커 풀로 가격/재무 데이터 수집
	items := s.collect(ctx, date, passed)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. 시장/섹터 3개월 수익률 (상대강도 기준선)
	marketRet, sectorRet := referenceReturns(items)

	// 4. 팩터 수집 → 크로스섹션 구축 → 점수화
	scores := s.score(items, marketRet, sectorRet)
	if len(scores) < s.cfg.Universe.MinScorable {
		return nil, fmt.Errorf("only %d of %d instruments scorable on %s: %w",
			len(scores), len(passed), date.Format("2006-01-02"), contracts.ErrInsufficientUniverse)
	}

	// 5. 종합 점수/순위 산정 + 상위 K 선정
	ranked := s.agg.Aggregate(scores)
	for i := range ranked {
		ranked[i].CalcDate = date
	}
	target := buildTarget(date, ranked, s.cfg.Selection.TopK)

	// 6. 단일 트랜잭션으로 저장 (재실행 시 delete-then-insert)
	if err := s.repo.SaveRun(ctx, date, ranked, target); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"date":       date.Format("2006-01-02"),
		"scored":     len(ranked),
		"selected":   target.Count(),
		"top_code":   target.Positions[0].Code,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("Screening completed")

	return target, nil
}

// collect fetches price and financial history for every survivor.
func (s *Screener) collect(ctx context.Context, date time.Time, passed []marketdata.UniverseRow) []collected {
	items := make([]collected, len(passed))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = s.collectOne(ctx, date, passed[i])
			}
		}()
	}

	done := 0
	for i := range passed {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return items
		}
		done++
		if done%50 == 0 {
			s.logger.Debugf("데이터 수집 진행: %d/%d", done, len(passed))
		}
	}
	close(jobs)
	wg.Wait()

	return items
}

func (s *Screener) collectOne(ctx context.Context, date time.Time, row marketdata.UniverseRow) collected {
	item := collected{row: row}

	// 12개월 + 여유분
	item.prices, item.err = s.data.DailyPrices(ctx, row.Code, date, s.cfg.Scoring.MinHistory.PriceDays+10)
	if item.err != nil {
		return item
	}
	item.fins, item.err = s.data.Financials(ctx, row.Code, date, 21)
	if item.err != nil {
		return item
	}

	item.ret3M = factors.Return3M(item.prices)
	return item
}

// referenceReturns computes the equal-weighted market and per-sector
// 3-month returns across the collected universe.
func referenceReturns(items []collected) (market float64, sector map[string]float64) {
	sector = make(map[string]float64)
	sectorCount := make(map[string]int)
	total, count := 0.0, 0

	for _, it := range items {
		if it.err != nil || !finite(it.ret3M) {
			continue
		}
		total += it.ret3M
		count++
		sector[it.row.Sector] += it.ret3M
		sectorCount[it.row.Sector]++
	}

	if count > 0 {
		market = total / float64(count)
	}
	for name, sum := range sector {
		sector[name] = sum / float64(sectorCount[name])
	}
	return market, sector
}

// instrumentMetrics holds the collected factor metrics for one instrument.
// 수집 실패한 팩터는 nil로 남는다.
type instrumentMetrics struct {
	row      marketdata.UniverseRow
	value    *factors.ValueMetrics
	momentum *factors.MomentumMetrics
	quality  *factors.QualityMetrics
	growth   *factors.GrowthMetrics
}

func (im *instrumentMetrics) complete() bool {
	return im.value != nil && im.momentum != nil && im.quality != nil && im.growth != nil
}

// score runs the two-phase factor computation over the collected universe.
func (s *Screener) score(items []collected, marketRet float64, sectorRet map[string]float64) []contracts.FactorScore {
	neutral := s.cfg.Scoring.MissingPolicy == strategyconfig.MissingNeutral

	// Phase 1: 순수 지표 수집
	var metrics []instrumentMetrics
	skipped := 0
	for _, it := range items {
		if it.err != nil {
			s.logger.WithField("code", it.row.Code).WithError(it.err).Debug("데이터 수집 실패, 제외")
			skipped++
			continue
		}

		im := instrumentMetrics{row: it.row}
		im.value, _ = factors.CollectValue(it.fins)
		im.momentum, _ = factors.CollectMomentum(factors.MomentumInputs{
			Prices:         it.prices,
			MarketReturn3M: marketRet,
			SectorReturn3M: sectorRet[it.row.Sector],
		})
		im.quality, _ = factors.CollectQuality(it.fins)
		im.growth, _ = factors.CollectGrowth(it.fins)

		// EXCLUDE 정책: 팩터 하나라도 못 구하면 종목 제외
		if !neutral && !im.complete() {
			skipped++
			continue
		}
		metrics = append(metrics, im)
	}
	if skipped > 0 {
		s.logger.Infof("이력 부족/수집 실패로 %d종목 제외", skipped)
	}

	// Phase 2: 크로스섹션 구축
	xs := factors.NewCrossSection()
	for _, im := range metrics {
		if im.value != nil {
			im.value.Observe(xs)
		}
		if im.momentum != nil {
			im.momentum.Observe(xs)
		}
		if im.quality != nil {
			im.quality.Observe(xs)
		}
		if im.growth != nil {
			im.growth.Observe(xs)
		}
	}
	xs.Finalize()

	// Phase 3: 백분위 점수화
	scores := make([]contracts.FactorScore, 0, len(metrics))
	for _, im := range metrics {
		score := contracts.FactorScore{
			Code:     im.row.Code,
			Name:     im.row.Name,
			Value:    s.cfg.Scoring.NeutralScore,
			Momentum: s.cfg.Scoring.NeutralScore,
			Quality:  s.cfg.Scoring.NeutralScore,
			Growth:   s.cfg.Scoring.NeutralScore,
		}
		if im.value != nil {
			score.Value = im.value.Score(xs)
		}
		if im.momentum != nil {
			score.Momentum = im.momentum.Score(xs)
		}
		if im.quality != nil {
			score.Quality = im.quality.Score(xs)
		}
		if im.growth != nil {
			score.Growth = im.growth.Score(xs)
		}
		scores = append(scores, score)
	}
	return scores
}

// buildTarget selects the top K and assigns equal weights.
// 스코어링 종목이 K 미만이면 전체가 타깃이 된다.
func buildTarget(date time.Time, ranked []contracts.FactorScore, topK int) *contracts.PortfolioTarget {
	k := topK
	if len(ranked) < k {
		k = len(ranked)
	}

	weight := 1.0 / float64(k)
	target := &contracts.PortfolioTarget{Date: date}
	for _, s := range ranked[:k] {
		target.Positions = append(target.Positions, contracts.TargetWeight{
			Code:   s.Code,
			Name:   s.Name,
			Rank:   s.Rank,
			Weight: weight,
			Reason: s.Reason,
		})
	}
	return target
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
