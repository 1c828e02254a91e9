package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/internal/signal"
	"github.com/muchen/fenglin/internal/sizing"
	"github.com/muchen/fenglin/pkg/logger"
)

type fakeScreener struct {
	candidates []contracts.Candidate
	err        error
}

func (f *fakeScreener) Screen(ctx context.Context, asOf time.Time) ([]contracts.Candidate, error) {
	return f.candidates, f.err
}

// passAllFilter keeps every candidate, preserving order
type passAllFilter struct{}

func (passAllFilter) Filter(ctx context.Context, candidates []contracts.Candidate) ([]string, map[string]string, error) {
	codes := make([]string, 0, len(candidates))
	for _, c := range candidates {
		codes = append(codes, c.Code)
	}
	return codes, map[string]string{}, nil
}

type fakeProvider struct {
	closes map[string][]float64
}

func (f *fakeProvider) SessionData(ctx context.Context, code string) (*contracts.SessionData, error) {
	return &contracts.SessionData{Code: code, Name: code}, nil
}

func (f *fakeProvider) DailyCloses(ctx context.Context, code string, count int) ([]float64, error) {
	return f.closes[code], nil
}

type captureListener struct {
	trades []contracts.Trade
}

func (l *captureListener) OnTrade(t contracts.Trade) { l.trades = append(l.trades, t) }

func candidates(codes ...string) []contracts.Candidate {
	out := make([]contracts.Candidate, 0, len(codes))
	for _, c := range codes {
		out = append(out, contracts.Candidate{Code: c})
	}
	return out
}

func tradingDay() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func TestOrchestrator_FullDayEqualWeight(t *testing.T) {
	ctx := context.Background()
	day := tradingDay()

	paper := broker.NewPaperBroker(900, broker.CostConfig{}, logger.NewNop())
	paper.SetDay(day)
	for _, code := range []string{"600000.XSHG", "600036.XSHG", "000002.XSHE"} {
		paper.SetPrice(code, 1)
	}

	rebalancer := sizing.NewEqualWeightRebalancer(paper, signal.AlwaysTrade{}, logger.NewNop())
	screener := &fakeScreener{candidates: candidates("600000.XSHG", "600036.XSHG", "000002.XSHE")}
	o := NewOrchestrator(screener, passAllFilter{}, rebalancer, paper, NewState(10), logger.NewNop())

	listener := &captureListener{}
	o.SetTradeListener(listener)

	require.NoError(t, o.PreOpen(ctx, day))
	require.NoError(t, o.Open(ctx, day))
	require.NoError(t, o.PostClose(ctx, day))

	snap := o.State().Snapshot()
	assert.Equal(t, 1, snap.Day)
	assert.Equal(t, 10, snap.RebalancePeriodDays)
	require.NotNil(t, snap.Universe)
	assert.Equal(t, 3, snap.Universe.Count())
	require.NotNil(t, snap.LastReport)
	assert.Equal(t, 3, snap.LastReport.BuyCount())

	// one record per fill, pushed to the listener too
	assert.Len(t, snap.LastTrades, 3)
	assert.Len(t, listener.trades, 3)
}

func TestOrchestrator_FocusMomentumBreakout(t *testing.T) {
	ctx := context.Background()
	day := tradingDay()

	paper := broker.NewPaperBroker(10_000, broker.CostConfig{}, logger.NewNop())
	paper.SetDay(day)
	paper.SetPrice("600000.XSHG", 10.2)

	provider := &fakeProvider{closes: map[string][]float64{
		"600000.XSHG": {10, 10, 10, 10, 10.2},
	}}
	policy := signal.NewMomentumPolicy(signal.NewEvaluator(provider, signal.DefaultConfig(), logger.NewNop()))
	rebalancer := sizing.NewFocusRebalancer(paper, policy, "600519.XSHG", logger.NewNop())
	screener := &fakeScreener{candidates: candidates("600000.XSHG")}
	o := NewOrchestrator(screener, passAllFilter{}, rebalancer, paper, NewState(10), logger.NewNop())

	require.NoError(t, o.PreOpen(ctx, day))
	require.NoError(t, o.Open(ctx, day))

	snap := o.State().Snapshot()
	require.NotNil(t, snap.LastReport)
	assert.Equal(t, "600000.XSHG", snap.LastReport.Focus)
	assert.Equal(t, contracts.SignalBuy, snap.LastReport.Signal)

	positions, _ := paper.Positions(ctx)
	assert.Greater(t, positions["600000.XSHG"].MarketValue, 0.0)
}

func TestOrchestrator_EmptyUniverseFocusFallback(t *testing.T) {
	ctx := context.Background()
	day := tradingDay()

	paper := broker.NewPaperBroker(10_000, broker.CostConfig{}, logger.NewNop())
	paper.SetDay(day)
	paper.SetPrice("600519.XSHG", 50)

	provider := &fakeProvider{closes: map[string][]float64{
		"600519.XSHG": {50, 50, 50, 50, 50},
	}}
	policy := signal.NewMomentumPolicy(signal.NewEvaluator(provider, signal.DefaultConfig(), logger.NewNop()))
	rebalancer := sizing.NewFocusRebalancer(paper, policy, "600519.XSHG", logger.NewNop())
	o := NewOrchestrator(&fakeScreener{}, passAllFilter{}, rebalancer, paper, NewState(10), logger.NewNop())

	require.NoError(t, o.PreOpen(ctx, day))
	require.NoError(t, o.Open(ctx, day))

	snap := o.State().Snapshot()
	assert.True(t, snap.Universe.IsEmpty())
	assert.Equal(t, "600519.XSHG", snap.LastReport.Focus, "empty screen falls back to the default instrument")
	assert.Equal(t, contracts.SignalHold, snap.LastReport.Signal)
}

func TestOrchestrator_ScreenErrorKeepsPreviousUniverse(t *testing.T) {
	ctx := context.Background()
	day := tradingDay()

	paper := broker.NewPaperBroker(0, broker.CostConfig{}, logger.NewNop())
	paper.SetDay(day)
	screener := &fakeScreener{candidates: candidates("600000.XSHG")}
	rebalancer := sizing.NewEqualWeightRebalancer(paper, signal.AlwaysTrade{}, logger.NewNop())
	o := NewOrchestrator(screener, passAllFilter{}, rebalancer, paper, NewState(10), logger.NewNop())

	require.NoError(t, o.PreOpen(ctx, day))

	screener.err = errors.New("fundamentals backend down")
	err := o.PreOpen(ctx, day.AddDate(0, 0, 1))
	require.Error(t, err)

	snap := o.State().Snapshot()
	assert.Equal(t, 1, snap.Day, "failed refresh must not advance the day counter")
	assert.Equal(t, []string{"600000.XSHG"}, snap.Universe.Codes)
}

func TestOrchestrator_OpenWithoutPreOpenUsesEmptyUniverse(t *testing.T) {
	ctx := context.Background()
	day := tradingDay()

	paper := broker.NewPaperBroker(10_000, broker.CostConfig{}, logger.NewNop())
	paper.SetDay(day)
	rebalancer := sizing.NewEqualWeightRebalancer(paper, signal.AlwaysTrade{}, logger.NewNop())
	o := NewOrchestrator(&fakeScreener{}, passAllFilter{}, rebalancer, paper, NewState(10), logger.NewNop())

	require.NoError(t, o.Open(ctx, day))

	snap := o.State().Snapshot()
	require.NotNil(t, snap.LastReport)
	assert.Empty(t, snap.LastReport.Orders)
}
