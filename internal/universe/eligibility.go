package universe

import (
	"context"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/internal/market"
	"github.com/muchen/fenglin/pkg/logger"
)

// Exclusion reasons recorded in the universe
const (
	ReasonPaused   = "停牌"
	ReasonDelisted = "退市"
	ReasonST       = "ST"
	ReasonNoData   = "行情缺失"
)

// Eligibility removes candidates that cannot trade this session.
// Order-preserving: the screener's P/B ranking survives filtering.
type Eligibility struct {
	provider market.Provider
	logger   *logger.Logger
}

// NewEligibility creates a new eligibility filter
func NewEligibility(provider market.Provider, log *logger.Logger) *Eligibility {
	return &Eligibility{
		provider: provider,
		logger:   log,
	}
}

// Filter returns the codes that pass all three predicates, in input
// order, plus the excluded codes with reasons. An instrument whose
// session data cannot be fetched is excluded (fail closed); filtering
// itself never fails.
func (e *Eligibility) Filter(ctx context.Context, candidates []contracts.Candidate) ([]string, map[string]string, error) {
	passed := make([]string, 0, len(candidates))
	excluded := make(map[string]string)

	for _, candidate := range candidates {
		data, err := e.provider.SessionData(ctx, candidate.Code)
		if err != nil {
			// 无法取到当日行情 → 按不可交易处理
			excluded[candidate.Code] = ReasonNoData
			e.logger.WithError(err).WithField("code", candidate.Code).Debug("Session data unavailable, excluding")
			continue
		}

		if reason := checkTradeable(data); reason != "" {
			excluded[candidate.Code] = reason
			continue
		}

		passed = append(passed, candidate.Code)
	}

	e.logger.WithFields(map[string]interface{}{
		"input":    len(candidates),
		"passed":   len(passed),
		"excluded": len(excluded),
	}).Info("Eligibility filtering completed")

	return passed, excluded, nil
}

// checkTradeable returns an exclusion reason, empty if tradeable
func checkTradeable(data *contracts.SessionData) string {
	if data.Paused {
		return ReasonPaused
	}
	if data.Delisted() {
		return ReasonDelisted
	}
	if data.SpecialTreatment {
		return ReasonST
	}
	return ""
}
