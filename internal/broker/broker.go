package broker

import (
	"context"
	"time"

	"github.com/muchen/fenglin/internal/contracts"
)

// Broker is the order-execution and portfolio-accounting collaborator.
// Orders are fire-and-forget: fills surface later via ExecutedTrades.
// SSOT: 券商/交易接口只在这里定义
type Broker interface {
	// AvailableCash returns the cash available for new buys
	AvailableCash(ctx context.Context) (float64, error)

	// Positions returns current holdings keyed by instrument code
	Positions(ctx context.Context) (map[string]contracts.Position, error)

	// OrderTargetValue adjusts a position toward a target market
	// value. Target equal to current value is a no-op; target 0
	// liquidates the closeable quantity.
	OrderTargetValue(ctx context.Context, code string, targetValue float64) error

	// OrderValue trades a signed value delta: positive buys,
	// negative sells.
	OrderValue(ctx context.Context, code string, value float64) error

	// ExecutedTrades returns the fills of one trading day keyed by
	// trade ID.
	ExecutedTrades(ctx context.Context, day time.Time) (map[string]contracts.Trade, error)
}

// CostConfig models per-trade costs: commissions on both sides, stamp
// tax on sells, and a per-order commission floor.
// 买入佣金万三, 卖出佣金万三加千一印花税, 单笔最低 5 元
type CostConfig struct {
	OpenCommission  float64 `yaml:"open_commission"`
	CloseCommission float64 `yaml:"close_commission"`
	CloseTax        float64 `yaml:"close_tax"`
	MinCommission   float64 `yaml:"min_commission"`
}

// DefaultCostConfig returns standard A-share retail costs
func DefaultCostConfig() CostConfig {
	return CostConfig{
		OpenCommission:  0.0003,
		CloseCommission: 0.0003,
		CloseTax:        0.001,
		MinCommission:   5,
	}
}

// buyCost returns the fee charged on a buy of the given value
func (c CostConfig) buyCost(value float64) float64 {
	fee := value * c.OpenCommission
	if fee > 0 && fee < c.MinCommission {
		fee = c.MinCommission
	}
	return fee
}

// sellCost returns the fee charged on a sell of the given value
func (c CostConfig) sellCost(value float64) float64 {
	fee := value * c.CloseCommission
	if fee > 0 && fee < c.MinCommission {
		fee = c.MinCommission
	}
	return fee + value*c.CloseTax
}
