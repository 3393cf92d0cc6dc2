package rebalance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/logger"
)

// TargetSource supplies the target portfolio for a rebalance date.
// 스코어링 결과가 있으면 그것을, 없으면 폴백을 쓴다.
type TargetSource interface {
	Name() string
	Target(ctx context.Context, date time.Time) (*contracts.PortfolioTarget, error)
}

// ComputedTarget reads the most recent persisted scoring result.
type ComputedTarget struct {
	store        contracts.TargetStore
	maxStaleDays int
}

// NewComputedTarget creates a computed target source
func NewComputedTarget(store contracts.TargetStore, maxStaleDays int) *ComputedTarget {
	return &ComputedTarget{store: store, maxStaleDays: maxStaleDays}
}

func (c *ComputedTarget) Name() string { return contracts.SourceComputed }

// Target returns the latest target on or before date.
// 허용 경과 일수를 넘긴 결과는 없는 것으로 취급한다.
func (c *ComputedTarget) Target(ctx context.Context, date time.Time) (*contracts.PortfolioTarget, error) {
	target, err := c.store.LatestTarget(ctx, date)
	if err != nil {
		return nil, err
	}

	age := int(date.Sub(target.Date).Hours() / 24)
	if age > c.maxStaleDays {
		return nil, fmt.Errorf("latest target is %d days old (max %d): %w",
			age, c.maxStaleDays, contracts.ErrNotFound)
	}
	return target, nil
}

// FallbackHeuristic keeps the current holdings as the target when no
// computed target is usable. 신규 매수 없이 보유 종목만 유지한다.
type FallbackHeuristic struct {
	holdings contracts.HoldingProvider
}

// NewFallbackHeuristic creates a fallback target source
func NewFallbackHeuristic(holdings contracts.HoldingProvider) *FallbackHeuristic {
	return &FallbackHeuristic{holdings: holdings}
}

func (f *FallbackHeuristic) Name() string { return contracts.SourceFallback }

func (f *FallbackHeuristic) Target(ctx context.Context, date time.Time) (*contracts.PortfolioTarget, error) {
	holdings, err := f.holdings.Holdings(ctx)
	if err != nil {
		return nil, err
	}

	target := &contracts.PortfolioTarget{Date: date}
	if len(holdings) == 0 {
		return target, nil
	}

	weight := 1.0 / float64(len(holdings))
	for i, h := range holdings {
		target.Positions = append(target.Positions, contracts.TargetWeight{
			Code:   h.Code,
			Name:   h.Name,
			Rank:   i + 1,
			Weight: weight,
			Reason: "보유 유지 (폴백)",
		})
	}
	return target, nil
}

// Resolver picks the computed target when available, otherwise the fallback.
type Resolver struct {
	computed TargetSource
	fallback TargetSource
	logger   *logger.Logger
}

// NewResolver creates a target source resolver
func NewResolver(computed, fallback TargetSource, log *logger.Logger) *Resolver {
	return &Resolver{
		computed: computed,
		fallback: fallback,
		logger:   log.WithField("module", "rebalance"),
	}
}

// Resolve returns the target and the name of the source that produced it.
func (r *Resolver) Resolve(ctx context.Context, date time.Time) (*contracts.PortfolioTarget, string, error) {
	target, err := r.computed.Target(ctx, date)
	if err == nil {
		return target, r.computed.Name(), nil
	}
	if !errors.Is(err, contracts.ErrNotFound) {
		return nil, "", err
	}

	r.logger.WithField("date", date.Format("2006-01-02")).
		Warn("계산된 타깃 없음, 폴백 사용")

	target, err = r.fallback.Target(ctx, date)
	if err != nil {
		return nil, "", err
	}
	return target, r.fallback.Name(), nil
}
