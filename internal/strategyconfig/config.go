// Package strategyconfig defines the YAML strategy parameter file and
// its loader. One file is one strategy; the decoder rejects unknown
// fields so a typo can never silently fall back to a default.
package strategyconfig

import (
	"time"

	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/signal"
	"github.com/muchen/fenglin/internal/universe"
)

// Config is the full strategy parameter set
type Config struct {
	Meta      Meta                    `yaml:"meta" json:"meta"`
	Screening universe.ScreenerConfig `yaml:"screening" json:"screening"`
	Signal    signal.Config           `yaml:"signal" json:"signal"`
	Rebalance Rebalance               `yaml:"rebalance" json:"rebalance"`
	Costs     broker.CostConfig       `yaml:"costs" json:"costs"`
	Schedule  Schedule                `yaml:"schedule" json:"schedule"`
}

// Meta identifies the strategy and its market anchors
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"`

	// ReferenceIndex anchors the trading calendar, 沪深300
	ReferenceIndex string `yaml:"reference_index" json:"reference_index"`

	// FallbackInstrument is traded by the focus variant when the
	// screen comes back empty
	FallbackInstrument string `yaml:"fallback_instrument" json:"fallback_instrument"`
}

// Rebalance modes
const (
	ModeFocus       = "focus"
	ModeEqualWeight = "equal_weight"
)

// Rebalance selects the sizing policy
type Rebalance struct {
	Mode string `yaml:"mode" json:"mode"` // focus | equal_weight

	// PeriodDays is carried in state snapshots but does not yet gate
	// the daily pass
	PeriodDays int `yaml:"period_days" json:"period_days"`
}

// Schedule holds the three lifecycle cron expressions, local to
// Meta.Timezone, seconds field included
type Schedule struct {
	PreOpen   string `yaml:"pre_open" json:"pre_open"`
	Open      string `yaml:"open" json:"open"`
	PostClose string `yaml:"post_close" json:"post_close"`
}

// DecisionSnapshot pins the exact configuration a trading day ran with
type DecisionSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Default returns the built-in value-momentum parameter set, used when
// no YAML file is supplied
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID:         "value-momentum",
			Version:            "1.0",
			Timezone:           "Asia/Shanghai",
			ReferenceIndex:     "000300.XSHG",
			FallbackInstrument: "600519.XSHG",
		},
		Screening: universe.DefaultScreenerConfig(),
		Signal:    signal.DefaultConfig(),
		Rebalance: Rebalance{Mode: ModeFocus, PeriodDays: 10},
		Costs:     broker.DefaultCostConfig(),
		Schedule: Schedule{
			PreOpen:   "0 15 9 * * 1-5",
			Open:      "0 30 9 * * 1-5",
			PostClose: "0 30 15 * * 1-5",
		},
	}
}
