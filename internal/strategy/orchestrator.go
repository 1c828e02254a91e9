// Package strategy owns the daily lifecycle: refresh the universe
// before the open, trade at the open, report fills after the close.
package strategy

import (
	"context"
	"sort"
	"time"

	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

// TradeListener receives each executed trade during the post-close
// pass. Used to push fills to websocket subscribers.
type TradeListener interface {
	OnTrade(trade contracts.Trade)
}

// Orchestrator wires screener, eligibility filter and rebalancer into
// the three daily lifecycle hooks. It is the only writer of State.
// SSOT: 每日调度入口只在这里
type Orchestrator struct {
	screener   contracts.Screener
	filter     contracts.EligibilityFilter
	rebalancer contracts.Rebalancer
	broker     broker.Broker
	state      *State
	listener   TradeListener
	logger     *logger.Logger
}

func NewOrchestrator(
	screener contracts.Screener,
	filter contracts.EligibilityFilter,
	rebalancer contracts.Rebalancer,
	b broker.Broker,
	state *State,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		screener:   screener,
		filter:     filter,
		rebalancer: rebalancer,
		broker:     b,
		state:      state,
		logger:     log,
	}
}

// SetTradeListener registers the post-close fill listener
func (o *Orchestrator) SetTradeListener(l TradeListener) {
	o.listener = l
}

// State exposes the orchestrator's state for API readers
func (o *Orchestrator) State() *State {
	return o.state
}

// PreOpen rebuilds the universe for the trading day. The previous
// universe is kept when screening fails, so the open pass still has
// yesterday's truth to work from.
func (o *Orchestrator) PreOpen(ctx context.Context, day time.Time) error {
	candidates, err := o.screener.Screen(ctx, day)
	if err != nil {
		o.logger.WithError(err).Error("Screening failed, keeping previous universe")
		return err
	}

	passed, excluded, err := o.filter.Filter(ctx, candidates)
	if err != nil {
		o.logger.WithError(err).Error("Eligibility filtering failed, keeping previous universe")
		return err
	}

	u := contracts.NewUniverse(day)
	u.Codes = passed
	u.Excluded = excluded
	o.state.replaceUniverse(u)

	o.logger.WithFields(map[string]interface{}{
		"date":      day.Format("2006-01-02"),
		"screened":  len(candidates),
		"tradeable": len(passed),
		"excluded":  len(excluded),
	}).Info("Universe refreshed")
	return nil
}

// Open runs the day's single rebalance pass over the current universe
func (o *Orchestrator) Open(ctx context.Context, day time.Time) error {
	u := o.state.currentUniverse(day)

	report, err := o.rebalancer.Rebalance(ctx, u)
	if err != nil {
		o.logger.WithError(err).Error("Rebalance pass failed")
		return err
	}
	o.state.setReport(report)

	entry := o.logger.WithFields(map[string]interface{}{
		"date":     day.Format("2006-01-02"),
		"focus":    report.Focus,
		"signal":   string(report.Signal),
		"buys":     report.BuyCount(),
		"sells":    report.SellCount(),
		"holds":    len(report.Holds),
		"rejected": len(report.Rejected),
	})
	if report.Signal.Actionable() || len(report.Orders) > 0 {
		entry.Info("Rebalance pass issued orders")
	} else {
		entry.Info("Rebalance pass complete, nothing to trade")
	}
	return nil
}

// PostClose fetches the day's fills and emits one record per trade
func (o *Orchestrator) PostClose(ctx context.Context, day time.Time) error {
	fills, err := o.broker.ExecutedTrades(ctx, day)
	if err != nil {
		o.logger.WithError(err).Error("Trade report unavailable")
		return err
	}

	trades := make([]contracts.Trade, 0, len(fills))
	for _, t := range fills {
		trades = append(trades, t)
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ID < trades[j].ID })

	for _, t := range trades {
		// 成交记录
		o.logger.WithFields(map[string]interface{}{
			"trade_id": t.ID,
			"code":     t.Code,
			"side":     string(t.Side),
			"qty":      t.Qty,
			"price":    t.Price,
			"amount":   t.Amount,
		}).Info("Trade executed")
		if o.listener != nil {
			o.listener.OnTrade(t)
		}
	}
	o.state.setTrades(trades)

	o.logger.WithFields(map[string]interface{}{
		"date":   day.Format("2006-01-02"),
		"trades": len(trades),
	}).Info("Post-close report complete")
	return nil
}
