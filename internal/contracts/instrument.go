package contracts

import "strings"

// DelistingMarker is the substring in a display name that marks a
// delisted (or delisting) instrument, e.g. "退市长油".
const DelistingMarker = "退"

// Candidate is an instrument plus the fundamental metrics used for
// screening and ranking. Produced fresh each pre-open, never persisted.
type Candidate struct {
	Code            string  `json:"code"`              // exchange-qualified, e.g. "600519.XSHG"
	PERatio         float64 `json:"pe_ratio"`          // 市盈率
	PBRatio         float64 `json:"pb_ratio"`          // 市净率
	MarketCap       float64 `json:"market_cap"`        // 总市值 (亿元)
	EPS             float64 `json:"eps"`               // 每股收益
	NetProfitGrowth float64 `json:"net_profit_growth"` // 净利润年增长率
	ROE             float64 `json:"roe"`               // 净资产收益率
}

// SessionData is the per-instrument current-session snapshot consumed
// from the market data provider.
type SessionData struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	Paused           bool   `json:"paused"`            // 当日停牌
	SpecialTreatment bool   `json:"special_treatment"` // ST / *ST
}

// Tradeable reports whether the instrument can be traded this session.
// All three predicates must pass.
func (s *SessionData) Tradeable() bool {
	return !s.Paused && !s.SpecialTreatment && !s.Delisted()
}

// Delisted checks the display name for the delisting marker
func (s *SessionData) Delisted() bool {
	return strings.Contains(s.Name, DelistingMarker)
}
