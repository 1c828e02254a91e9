package contracts

import (
	"context"
	"time"
)

// Screener produces the ranked candidate list from fundamentals
// SSOT: 选股(基本面筛选)接口
type Screener interface {
	Screen(ctx context.Context, asOf time.Time) ([]Candidate, error)
}

// EligibilityFilter removes currently non-tradeable candidates,
// preserving input order. It never re-ranks.
type EligibilityFilter interface {
	Filter(ctx context.Context, candidates []Candidate) ([]string, map[string]string, error)
}

// TradePolicy decides entry/exit per instrument. The moving-average
// rule is one implementation; the always-true policy is the degenerate
// version used to exercise orchestration without signal logic.
type TradePolicy interface {
	ShouldBuy(ctx context.Context, code string) (bool, error)
	ShouldSell(ctx context.Context, code string) (bool, error)
}

// Rebalancer turns the day's universe into issued orders.
// Implementations: single-focus all-in sizing, equal-weight sizing.
type Rebalancer interface {
	Rebalance(ctx context.Context, universe *Universe) (*RebalanceReport, error)
}

// Lifecycle is the set of daily hooks driven by the market-session
// scheduler: at most once each per trading day, strictly in order,
// with no overlap.
type Lifecycle interface {
	PreOpen(ctx context.Context, day time.Time) error
	Open(ctx context.Context, day time.Time) error
	PostClose(ctx context.Context, day time.Time) error
}
