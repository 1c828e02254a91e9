package universe

import (
	"context"
	"fmt"
	"time"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/internal/fundamentals"
	"github.com/muchen/fenglin/pkg/logger"
)

// FundamentalsSource answers one snapshot query
type FundamentalsSource interface {
	Query(ctx context.Context, q fundamentals.Query) ([]contracts.Candidate, error)
}

// Screener produces the ranked candidate list by value/quality filters
// SSOT: 选股条件只在这里
type Screener struct {
	source FundamentalsSource
	config ScreenerConfig
	logger *logger.Logger
}

// ScreenerConfig defines the fundamental filter thresholds. All range
// predicates are exclusive.
type ScreenerConfig struct {
	PEMin           float64 `yaml:"pe_min"`            // 市盈率下限
	PEMax           float64 `yaml:"pe_max"`            // 市盈率上限
	EPSMin          float64 `yaml:"eps_min"`           // 每股收益下限
	ProfitGrowthMin float64 `yaml:"profit_growth_min"` // 净利润年增长率下限
	ROEMin          float64 `yaml:"roe_min"`           // ROE 下限
	Limit           int     `yaml:"limit"`             // 截断数量
}

// DefaultScreenerConfig returns the default thresholds
func DefaultScreenerConfig() ScreenerConfig {
	return ScreenerConfig{
		PEMin:           10,
		PEMax:           40,
		EPSMin:          0.3,
		ProfitGrowthMin: 0.30,
		ROEMin:          15,
		Limit:           50,
	}
}

// NewScreener creates a new screener
func NewScreener(source FundamentalsSource, config ScreenerConfig, log *logger.Logger) *Screener {
	return &Screener{
		source: source,
		config: config,
		logger: log,
	}
}

// Screen queries the most recent fundamentals snapshot at asOf and
// returns candidates ranked ascending by P/B (cheapest relative to
// book first), truncated to the configured limit. No qualifying rows
// yields an empty list, never an error.
func (s *Screener) Screen(ctx context.Context, asOf time.Time) ([]contracts.Candidate, error) {
	query := fundamentals.Query{
		Filters: []fundamentals.Filter{
			{Field: fundamentals.FieldPERatio, Op: fundamentals.OpGT, Value: s.config.PEMin},
			{Field: fundamentals.FieldPERatio, Op: fundamentals.OpLT, Value: s.config.PEMax},
			{Field: fundamentals.FieldEPS, Op: fundamentals.OpGT, Value: s.config.EPSMin},
			{Field: fundamentals.FieldNetProfitGrowth, Op: fundamentals.OpGT, Value: s.config.ProfitGrowthMin},
			{Field: fundamentals.FieldROE, Op: fundamentals.OpGT, Value: s.config.ROEMin},
		},
		OrderBy: fundamentals.Order{Field: fundamentals.FieldPBRatio}, // 市净率升序
		Limit:   s.config.Limit,
		AsOf:    asOf,
	}

	candidates, err := s.source.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("screen fundamentals: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"as_of":      asOf.Format("2006-01-02"),
		"candidates": len(candidates),
		"limit":      s.config.Limit,
	}).Info("Screening completed")

	return candidates, nil
}
