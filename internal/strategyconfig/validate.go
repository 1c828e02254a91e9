package strategyconfig

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidationError is a hard constraint violation, the process must not
// start with this configuration
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning flags a legal but suspicious parameter choice
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.FallbackInstrument == "" {
		return ValidationError{"meta.fallback_instrument", "required"}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	// === Screening ===
	s := cfg.Screening
	if s.PEMin >= s.PEMax {
		return ValidationError{"screening", "pe_min must be < pe_max"}
	}
	if s.Limit <= 0 {
		return ValidationError{"screening.limit", "must be > 0"}
	}

	// === Signal ===
	if cfg.Signal.Window <= 0 {
		return ValidationError{"signal.window", "must be > 0"}
	}
	if cfg.Signal.BuyBand < 0 {
		return ValidationError{"signal.buy_band", "must be >= 0"}
	}

	// === Rebalance ===
	if cfg.Rebalance.Mode != ModeFocus && cfg.Rebalance.Mode != ModeEqualWeight {
		return ValidationError{"rebalance.mode", "must be focus or equal_weight"}
	}
	if cfg.Rebalance.PeriodDays < 0 {
		return ValidationError{"rebalance.period_days", "must be >= 0"}
	}

	// === Costs ===
	c := cfg.Costs
	if c.OpenCommission < 0 || c.CloseCommission < 0 || c.CloseTax < 0 || c.MinCommission < 0 {
		return ValidationError{"costs", "rates must be >= 0"}
	}

	// === Schedule ===
	for field, expr := range map[string]string{
		"schedule.pre_open":   cfg.Schedule.PreOpen,
		"schedule.open":       cfg.Schedule.Open,
		"schedule.post_close": cfg.Schedule.PostClose,
	} {
		if err := validateCron(expr); err != nil {
			return ValidationError{field, err.Error()}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 无突破带宽: 均线之上即买入, 换手率会很高
	if cfg.Signal.BuyBand == 0 {
		warnings = append(warnings, Warning{
			Code:    "ZERO_BUY_BAND",
			Message: "buy_band 0: any close above the MA triggers a buy",
		})
	}

	if cfg.Screening.Limit > 100 {
		warnings = append(warnings, Warning{
			Code:    "WIDE_SCREEN",
			Message: "screening.limit > 100: tail candidates are weakly ranked",
		})
	}

	if cfg.Costs.MinCommission == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_MIN_COMMISSION",
			Message: "costs.min_commission 0: real brokers charge a floor",
		})
	}

	return warnings
}

var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

func validateCron(expr string) error {
	if expr == "" {
		return fmt.Errorf("required")
	}
	_, err := cronParser.Parse(expr)
	return err
}
