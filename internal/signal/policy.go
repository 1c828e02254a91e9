package signal

import (
	"context"

	"github.com/muchen/fenglin/internal/contracts"
)

// AlwaysTrade is the degenerate policy: every candidate is bought,
// every holding is sold. Useful for exercising the rebalancing
// skeleton without any signal logic.
type AlwaysTrade struct{}

// ShouldBuy always fires
func (AlwaysTrade) ShouldBuy(ctx context.Context, code string) (bool, error) {
	return true, nil
}

// ShouldSell always fires
func (AlwaysTrade) ShouldSell(ctx context.Context, code string) (bool, error) {
	return true, nil
}

// MomentumPolicy adapts the moving-average evaluator to the
// buy/sell predicate interface used by the portfolio-wide variant.
type MomentumPolicy struct {
	evaluator *Evaluator
}

// NewMomentumPolicy creates a policy backed by the MA rule
func NewMomentumPolicy(evaluator *Evaluator) *MomentumPolicy {
	return &MomentumPolicy{evaluator: evaluator}
}

// ShouldBuy fires on an upward breakout. Data errors suppress the
// buy rather than failing the pass.
func (p *MomentumPolicy) ShouldBuy(ctx context.Context, code string) (bool, error) {
	sig, err := p.evaluator.Evaluate(ctx, code, 0)
	if err != nil {
		if contracts.IsDataUnavailable(err) {
			return false, nil
		}
		return false, err
	}
	return sig == contracts.SignalBuy, nil
}

// ShouldSell fires when price has fallen back under the average.
// Callers only ask about held instruments, so a closeable quantity is
// assumed present.
func (p *MomentumPolicy) ShouldSell(ctx context.Context, code string) (bool, error) {
	sig, err := p.evaluator.Evaluate(ctx, code, 1)
	if err != nil {
		if contracts.IsDataUnavailable(err) {
			return false, nil
		}
		return false, err
	}
	return sig == contracts.SignalSell, nil
}
