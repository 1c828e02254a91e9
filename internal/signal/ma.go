package signal

import (
	"context"
	"fmt"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/internal/market"
	"github.com/muchen/fenglin/pkg/logger"
)

// Config defines the moving-average rule parameters
type Config struct {
	Window  int     `yaml:"window"`   // 均线窗口 (trading days)
	BuyBand float64 `yaml:"buy_band"` // 突破带宽, 0.01 = 1%
}

// DefaultConfig returns the MA5 breakout defaults
func DefaultConfig() Config {
	return Config{
		Window:  5,
		BuyBand: 0.01,
	}
}

// Evaluate applies the moving-average rule to a close series, oldest
// first. Exactly Window closes are required; extra leading history is
// ignored, a shorter series is a data error, never padded.
//
//	P  > (1+BuyBand)×MA        → Buy  (突破均线上方带)
//	P  < MA and heldQty > 0    → Sell (跌破均线且有可卖持仓)
//	otherwise                  → Hold
//
// P exactly on either boundary holds.
func Evaluate(closes []float64, heldQty float64, cfg Config) (contracts.Signal, error) {
	if len(closes) < cfg.Window {
		return contracts.SignalHold, fmt.Errorf("%w: need %d closes, have %d",
			contracts.ErrDataUnavailable, cfg.Window, len(closes))
	}

	window := closes[len(closes)-cfg.Window:]

	var sum float64
	for _, c := range window {
		sum += c
	}
	ma := sum / float64(cfg.Window)
	last := window[len(window)-1]

	switch {
	case last > (1+cfg.BuyBand)*ma:
		return contracts.SignalBuy, nil
	case last < ma && heldQty > 0:
		return contracts.SignalSell, nil
	default:
		return contracts.SignalHold, nil
	}
}

// Evaluator fetches price history and applies the MA rule
// SSOT: 均线信号判定只在这里
type Evaluator struct {
	provider market.Provider
	config   Config
	logger   *logger.Logger
}

// NewEvaluator creates a new moving-average evaluator
func NewEvaluator(provider market.Provider, cfg Config, log *logger.Logger) *Evaluator {
	return &Evaluator{
		provider: provider,
		config:   cfg,
		logger:   log,
	}
}

// Evaluate decides Buy/Sell/Hold for one instrument. A short or
// missing price history surfaces as ErrDataUnavailable; callers
// absorb it as Hold for the day.
func (e *Evaluator) Evaluate(ctx context.Context, code string, heldQty float64) (contracts.Signal, error) {
	closes, err := e.provider.DailyCloses(ctx, code, e.config.Window)
	if err != nil {
		return contracts.SignalHold, fmt.Errorf("fetch closes for %s: %w", code, err)
	}

	sig, err := Evaluate(closes, heldQty, e.config)
	if err != nil {
		return contracts.SignalHold, err
	}

	e.logger.WithFields(map[string]interface{}{
		"code":   code,
		"signal": sig,
		"held":   heldQty,
	}).Debug("Signal evaluated")

	return sig, nil
}
