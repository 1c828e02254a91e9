package sizing

import (
	"context"
	"sort"

	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

// EqualWeightRebalancer spreads available cash evenly across the
// universe. Sells run first, then the remaining cash is split over
// the buy set. An empty buy set leaves cash uninvested until the next
// cycle.
type EqualWeightRebalancer struct {
	broker broker.Broker
	policy contracts.TradePolicy
	logger *logger.Logger
}

func NewEqualWeightRebalancer(b broker.Broker, policy contracts.TradePolicy, log *logger.Logger) *EqualWeightRebalancer {
	return &EqualWeightRebalancer{broker: b, policy: policy, logger: log}
}

// Rebalance liquidates held instruments whose sell predicate fires,
// then buys every universe member not kept as a hold at an equal
// share of available cash.
func (r *EqualWeightRebalancer) Rebalance(ctx context.Context, u *contracts.Universe) (*contracts.RebalanceReport, error) {
	report := &contracts.RebalanceReport{
		Date:     u.Date,
		Rejected: make(map[string]string),
	}

	positions, err := r.broker.Positions(ctx)
	if err != nil {
		return nil, err
	}

	// 先卖后买: map iteration is random, sort for deterministic fills
	held := make([]string, 0, len(positions))
	for code := range positions {
		held = append(held, code)
	}
	sort.Strings(held)

	holds := make(map[string]bool)
	for _, code := range held {
		sell, err := r.policy.ShouldSell(ctx, code)
		if err != nil {
			return nil, err
		}
		if !sell {
			holds[code] = true
			report.Holds = append(report.Holds, code)
			continue
		}
		r.issue(ctx, report, contracts.OrderIntent{Code: code, TargetValue: 0, Reason: "调仓卖出"})
	}

	// 持有的不再买入, 当日卖出的可以重新买入
	var buyList []string
	for _, code := range u.Codes {
		if holds[code] {
			continue
		}
		buy, err := r.policy.ShouldBuy(ctx, code)
		if err != nil {
			return nil, err
		}
		if buy {
			buyList = append(buyList, code)
		}
	}
	if len(buyList) == 0 {
		return report, nil
	}

	cash, err := r.broker.AvailableCash(ctx)
	if err != nil {
		return nil, err
	}
	if cash <= 0 {
		return report, nil
	}

	per := cash / float64(len(buyList))
	for _, code := range buyList {
		r.issue(ctx, report, contracts.OrderIntent{Code: code, TargetValue: per, Reason: "等权买入"})
	}
	return report, nil
}

func (r *EqualWeightRebalancer) issue(ctx context.Context, report *contracts.RebalanceReport, intent contracts.OrderIntent) {
	report.Orders = append(report.Orders, intent)
	if err := r.broker.OrderTargetValue(ctx, intent.Code, intent.TargetValue); err != nil {
		report.Rejected[intent.Code] = err.Error()
		r.logger.WithError(err).WithFields(map[string]interface{}{
			"code":         intent.Code,
			"target_value": intent.TargetValue,
		}).Warn("Order rejected, will re-evaluate next cycle")
	}
}
