package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/logger"
	"github.com/wonny/talos/backend/pkg/redis"
)

// Provider fronts the repositories with a Redis read-through cache.
// 캐시 실패는 치명적이지 않다 — DB 조회로 폴백하고 경고만 남긴다.
type Provider struct {
	prices     *PriceRepository
	financials *FinancialRepository
	cache      *redis.Cache
	log        *logger.Logger
}

// NewProvider creates a cached market data provider
func NewProvider(prices *PriceRepository, financials *FinancialRepository, cache *redis.Cache, log *logger.Logger) *Provider {
	return &Provider{
		prices:     prices,
		financials: financials,
		cache:      cache,
		log:        log.WithField("module", "marketdata"),
	}
}

// Universe returns the scorable instruments for the date.
func (p *Provider) Universe(ctx context.Context, date time.Time) ([]contracts.Instrument, error) {
	key := fmt.Sprintf("universe:%s", date.Format("2006-01-02"))

	var cached []contracts.Instrument
	if hit, _ := p.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	instruments, err := p.prices.Universe(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("universe query failed: %w", err)
	}

	if err := p.cache.Set(ctx, key, instruments, redis.TTLLong); err != nil {
		p.log.Warnf("universe cache set failed: %v", err)
	}
	return instruments, nil
}

// DailyPrices returns up to `days` most recent records ending at date,
// newest first.
func (p *Provider) DailyPrices(ctx context.Context, code string, date time.Time, days int) ([]contracts.PriceRecord, error) {
	key := fmt.Sprintf("prices:%s:%s:%d", code, date.Format("2006-01-02"), days)

	var cached []contracts.PriceRecord
	if hit, _ := p.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	prices, err := p.prices.DailyPrices(ctx, code, date, days)
	if err != nil {
		return nil, fmt.Errorf("daily prices query failed (%s): %w", code, err)
	}

	if err := p.cache.Set(ctx, key, prices, redis.TTLMedium); err != nil {
		p.log.Warnf("prices cache set failed (%s): %v", code, err)
	}
	return prices, nil
}

// LatestPrice returns the most recent record on or before date.
func (p *Provider) LatestPrice(ctx context.Context, code string, date time.Time) (*contracts.PriceRecord, error) {
	price, err := p.prices.LatestPrice(ctx, code, date)
	if err != nil {
		return nil, fmt.Errorf("latest price query failed (%s): %w", code, err)
	}
	return price, nil
}

// Financials returns up to `periods` most recent reports as of date,
// newest first.
func (p *Provider) Financials(ctx context.Context, code string, date time.Time, periods int) ([]contracts.FinancialRecord, error) {
	key := fmt.Sprintf("financials:%s:%s:%d", code, date.Format("2006-01-02"), periods)

	var cached []contracts.FinancialRecord
	if hit, _ := p.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	records, err := p.financials.Financials(ctx, code, date, periods)
	if err != nil {
		return nil, fmt.Errorf("financials query failed (%s): %w", code, err)
	}

	if err := p.cache.Set(ctx, key, records, redis.TTLMedium); err != nil {
		p.log.Warnf("financials cache set failed (%s): %v", code, err)
	}
	return records, nil
}

// UniverseSnapshot returns instruments with filter metadata. Not cached:
// 하루 한 번 스크리닝에서만 사용.
func (p *Provider) UniverseSnapshot(ctx context.Context, date time.Time) ([]UniverseRow, error) {
	rows, err := p.prices.UniverseSnapshot(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("universe snapshot query failed: %w", err)
	}
	return rows, nil
}
