package market

import (
	"context"
	"fmt"

	"github.com/muchen/fenglin/internal/contracts"
)

// CloseQuoter adapts a Provider to a last-close price source, used by
// the paper broker to price fills.
type CloseQuoter struct {
	provider Provider
}

func NewCloseQuoter(p Provider) *CloseQuoter {
	return &CloseQuoter{provider: p}
}

// LastClose returns the most recent daily close
func (q *CloseQuoter) LastClose(ctx context.Context, code string) (float64, error) {
	closes, err := q.provider.DailyCloses(ctx, code, 1)
	if err != nil {
		return 0, err
	}
	if len(closes) == 0 {
		return 0, fmt.Errorf("%w: no close for %s", contracts.ErrDataUnavailable, code)
	}
	return closes[len(closes)-1], nil
}
