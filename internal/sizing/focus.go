// Package sizing turns trade decisions plus available cash into
// target-value orders. Two policies exist: all-in on a single focus
// instrument, and equal-weight across the day's universe.
package sizing

import (
	"context"

	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

// FocusRebalancer trades exactly one instrument per day: the head of
// the universe, or a configured fallback when the screen comes back
// empty. Buy invests the full cash balance; sell liquidates the
// closeable quantity.
type FocusRebalancer struct {
	broker   broker.Broker
	policy   contracts.TradePolicy
	fallback string
	logger   *logger.Logger
}

// NewFocusRebalancer creates a single-focus rebalancer. fallback is
// the instrument traded when the universe is empty.
func NewFocusRebalancer(b broker.Broker, policy contracts.TradePolicy, fallback string, log *logger.Logger) *FocusRebalancer {
	return &FocusRebalancer{
		broker:   b,
		policy:   policy,
		fallback: fallback,
		logger:   log,
	}
}

// Rebalance evaluates the focus instrument once and issues at most one
// order. Data gaps produce a hold, order rejections are recorded and
// left for the next cycle.
func (r *FocusRebalancer) Rebalance(ctx context.Context, u *contracts.Universe) (*contracts.RebalanceReport, error) {
	focus := u.Focus(r.fallback)
	report := &contracts.RebalanceReport{
		Date:     u.Date,
		Focus:    focus,
		Signal:   contracts.SignalHold,
		Rejected: make(map[string]string),
	}

	positions, err := r.broker.Positions(ctx)
	if err != nil {
		return nil, err
	}
	held := positions[focus].HasClosable()

	if held {
		sell, err := r.policy.ShouldSell(ctx, focus)
		if err != nil {
			return nil, err
		}
		if sell {
			report.Signal = contracts.SignalSell
			r.issue(ctx, report, contracts.OrderIntent{Code: focus, TargetValue: 0, Reason: "跌破均线清仓"})
			return report, nil
		}
		report.Holds = append(report.Holds, focus)
	}

	buy, err := r.policy.ShouldBuy(ctx, focus)
	if err != nil {
		return nil, err
	}
	if !buy {
		return report, nil
	}

	cash, err := r.broker.AvailableCash(ctx)
	if err != nil {
		return nil, err
	}
	report.Signal = contracts.SignalBuy
	if cash <= 0 {
		return report, nil
	}

	// 全仓买入: invest the cash delta so an existing position is
	// topped up instead of sold down to the cash balance
	intent := contracts.OrderIntent{Code: focus, TargetValue: cash, Reason: "突破均线买入"}
	report.Orders = append(report.Orders, intent)
	if err := r.broker.OrderValue(ctx, focus, cash); err != nil {
		r.reject(report, intent, err)
	}
	return report, nil
}

func (r *FocusRebalancer) issue(ctx context.Context, report *contracts.RebalanceReport, intent contracts.OrderIntent) {
	report.Orders = append(report.Orders, intent)
	if err := r.broker.OrderTargetValue(ctx, intent.Code, intent.TargetValue); err != nil {
		r.reject(report, intent, err)
	}
}

func (r *FocusRebalancer) reject(report *contracts.RebalanceReport, intent contracts.OrderIntent, err error) {
	report.Rejected[intent.Code] = err.Error()
	r.logger.WithError(err).WithFields(map[string]interface{}{
		"code":         intent.Code,
		"target_value": intent.TargetValue,
	}).Warn("Order rejected, will re-evaluate next cycle")
}
