package sizing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

// stubPolicy answers every instrument with fixed decisions
type stubPolicy struct {
	buy  bool
	sell bool
}

func (p stubPolicy) ShouldBuy(ctx context.Context, code string) (bool, error) { return p.buy, nil }
func (p stubPolicy) ShouldSell(ctx context.Context, code string) (bool, error) { return p.sell, nil }

func newPaper(cash float64) *broker.PaperBroker {
	b := broker.NewPaperBroker(cash, broker.CostConfig{}, logger.NewNop())
	b.SetDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	return b
}

func newUniverse(codes ...string) *contracts.Universe {
	u := contracts.NewUniverse(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	u.Codes = append(u.Codes, codes...)
	return u
}

func TestEqualWeight_SplitsCashAcrossBuySet(t *testing.T) {
	ctx := context.Background()
	b := newPaper(900)
	for _, code := range []string{"600000.XSHG", "600036.XSHG", "000002.XSHE"} {
		b.SetPrice(code, 1)
	}

	r := NewEqualWeightRebalancer(b, stubPolicy{buy: true, sell: true}, logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600000.XSHG", "600036.XSHG", "000002.XSHE"))
	require.NoError(t, err)

	require.Len(t, report.Orders, 3)
	for _, o := range report.Orders {
		assert.InDelta(t, 300.0, o.TargetValue, 1e-9)
	}
	assert.Equal(t, 3, report.BuyCount())
	assert.Empty(t, report.Rejected)

	positions, _ := b.Positions(ctx)
	require.Len(t, positions, 3)
	for _, p := range positions {
		assert.InDelta(t, 300.0, p.MarketValue, 1e-9)
	}
}

func TestEqualWeight_SellsBeforeBuying(t *testing.T) {
	ctx := context.Background()
	b := newPaper(0)
	b.SetPrice("600519.XSHG", 50)
	b.SetPrice("600000.XSHG", 10)
	b.SetPosition("600519.XSHG", 200, 200, 48)

	r := NewEqualWeightRebalancer(b, stubPolicy{buy: true, sell: true}, logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600000.XSHG"))
	require.NoError(t, err)

	// 10000 from the liquidation funds the buy
	assert.Equal(t, 1, report.SellCount())
	assert.Equal(t, 1, report.BuyCount())

	positions, _ := b.Positions(ctx)
	assert.NotContains(t, positions, "600519.XSHG")
	assert.InDelta(t, 10_000.0, positions["600000.XSHG"].MarketValue, 1e-9)
}

func TestEqualWeight_HeldInstrumentsNotRebought(t *testing.T) {
	ctx := context.Background()
	b := newPaper(5_000)
	b.SetPrice("600519.XSHG", 50)
	b.SetPrice("600000.XSHG", 10)
	b.SetPosition("600519.XSHG", 200, 200, 48)

	// sell predicate never fires: the held instrument stays a hold
	r := NewEqualWeightRebalancer(b, stubPolicy{buy: true, sell: false}, logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600519.XSHG", "600000.XSHG"))
	require.NoError(t, err)

	assert.Equal(t, []string{"600519.XSHG"}, report.Holds)
	require.Len(t, report.Orders, 1)
	assert.Equal(t, "600000.XSHG", report.Orders[0].Code)
	assert.InDelta(t, 5_000.0, report.Orders[0].TargetValue, 1e-9)
}

func TestEqualWeight_EmptyBuySetLeavesCash(t *testing.T) {
	ctx := context.Background()
	b := newPaper(50_000)

	r := NewEqualWeightRebalancer(b, stubPolicy{buy: false, sell: false}, logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600000.XSHG"))
	require.NoError(t, err)

	assert.Empty(t, report.Orders)
	cash, _ := b.AvailableCash(ctx)
	assert.Equal(t, 50_000.0, cash, "cash carries over uninvested")
}

func TestEqualWeight_RejectionRecordedNotRetried(t *testing.T) {
	ctx := context.Background()
	b := newPaper(1_000)
	b.SetPrice("600000.XSHG", 10)
	// 600036.XSHG has no price: zero liquidity, broker rejects

	r := NewEqualWeightRebalancer(b, stubPolicy{buy: true, sell: true}, logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600000.XSHG", "600036.XSHG"))
	require.NoError(t, err)

	assert.Contains(t, report.Rejected, "600036.XSHG")
	assert.NotContains(t, report.Rejected, "600000.XSHG")
}

func TestFocus_FallbackWhenUniverseEmpty(t *testing.T) {
	ctx := context.Background()
	b := newPaper(10_000)
	b.SetPrice("600519.XSHG", 50)

	r := NewFocusRebalancer(b, stubPolicy{buy: true}, "600519.XSHG", logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse())
	require.NoError(t, err)

	assert.Equal(t, "600519.XSHG", report.Focus)
	assert.Equal(t, contracts.SignalBuy, report.Signal)
}

func TestFocus_BuyInvestsFullCash(t *testing.T) {
	ctx := context.Background()
	b := newPaper(10_000)
	b.SetPrice("600000.XSHG", 10)

	r := NewFocusRebalancer(b, stubPolicy{buy: true}, "600519.XSHG", logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600000.XSHG"))
	require.NoError(t, err)

	require.Len(t, report.Orders, 1)
	assert.InDelta(t, 10_000.0, report.Orders[0].TargetValue, 1e-9)

	positions, _ := b.Positions(ctx)
	assert.InDelta(t, 10_000.0, positions["600000.XSHG"].MarketValue, 1e-9)
}

func TestFocus_SellLiquidates(t *testing.T) {
	ctx := context.Background()
	b := newPaper(0)
	b.SetPrice("600000.XSHG", 10)
	b.SetPosition("600000.XSHG", 500, 500, 9)

	r := NewFocusRebalancer(b, stubPolicy{sell: true}, "600519.XSHG", logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600000.XSHG"))
	require.NoError(t, err)

	assert.Equal(t, contracts.SignalSell, report.Signal)
	assert.Equal(t, 1, report.SellCount())

	cash, _ := b.AvailableCash(ctx)
	assert.Equal(t, 5_000.0, cash)
}

func TestFocus_NoSignalHolds(t *testing.T) {
	ctx := context.Background()
	b := newPaper(1_000)
	b.SetPrice("600000.XSHG", 10)
	b.SetPosition("600000.XSHG", 500, 500, 9)

	r := NewFocusRebalancer(b, stubPolicy{}, "600519.XSHG", logger.NewNop())
	report, err := r.Rebalance(ctx, newUniverse("600000.XSHG"))
	require.NoError(t, err)

	assert.Equal(t, contracts.SignalHold, report.Signal)
	assert.Empty(t, report.Orders)
	assert.Equal(t, []string{"600000.XSHG"}, report.Holds)
}
