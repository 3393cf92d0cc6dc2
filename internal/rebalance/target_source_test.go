package rebalance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/talos/backend/internal/contracts"
	"github.com/wonny/talos/backend/pkg/logger"
)

// fakeTargetStore 메모리 타깃 저장소
type fakeTargetStore struct {
	target *contracts.PortfolioTarget
}

func (f *fakeTargetStore) ReplaceTarget(_ context.Context, t *contracts.PortfolioTarget) error {
	f.target = t
	return nil
}

func (f *fakeTargetStore) TargetByDate(_ context.Context, date time.Time) (*contracts.PortfolioTarget, error) {
	if f.target == nil || !f.target.Date.Equal(date) {
		return nil, contracts.ErrNotFound
	}
	return f.target, nil
}

func (f *fakeTargetStore) LatestTarget(_ context.Context, asOf time.Time) (*contracts.PortfolioTarget, error) {
	if f.target == nil || f.target.Date.After(asOf) {
		return nil, contracts.ErrNotFound
	}
	return f.target, nil
}

// fakeHoldings 고정 보유 내역
type fakeHoldings struct {
	holdings []contracts.Holding
}

func (f *fakeHoldings) Holdings(_ context.Context) ([]contracts.Holding, error) {
	return f.holdings, nil
}

func (f *fakeHoldings) Cash(_ context.Context) (float64, error) {
	return 10_000_000, nil
}

func TestResolverPrefersComputed(t *testing.T) {
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeTargetStore{target: targetOf("A", "B")}
	store.target.Date = date

	resolver := NewResolver(
		NewComputedTarget(store, 7),
		NewFallbackHeuristic(&fakeHoldings{}),
		logger.NewNop(),
	)

	target, source, err := resolver.Resolve(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, contracts.SourceComputed, source)
	assert.Equal(t, 2, target.Count())
}

func TestResolverFallsBackWhenMissing(t *testing.T) {
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	holdings := &fakeHoldings{holdings: []contracts.Holding{
		{Code: "A", Name: "A", Quantity: 10},
		{Code: "B", Name: "B", Quantity: 5},
	}}

	resolver := NewResolver(
		NewComputedTarget(&fakeTargetStore{}, 7),
		NewFallbackHeuristic(holdings),
		logger.NewNop(),
	)

	target, source, err := resolver.Resolve(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, contracts.SourceFallback, source)

	// 폴백: 현재 보유 종목을 균등 가중으로 유지
	require.Equal(t, 2, target.Count())
	assert.InDelta(t, 0.5, target.Positions[0].Weight, 1e-9)
	assert.True(t, target.Contains("A"))
	assert.True(t, target.Contains("B"))
}

func TestComputedTargetRejectsStale(t *testing.T) {
	date := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	store := &fakeTargetStore{target: targetOf("A")}
	store.target.Date = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) // 30일 전

	source := NewComputedTarget(store, 7)
	_, err := source.Target(context.Background(), date)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestFallbackEmptyHoldings(t *testing.T) {
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	source := NewFallbackHeuristic(&fakeHoldings{})

	target, err := source.Target(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 0, target.Count())
}
