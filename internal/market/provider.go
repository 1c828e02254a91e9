package market

import (
	"context"

	"github.com/muchen/fenglin/internal/contracts"
)

// Provider supplies per-session instrument data and daily price bars
// SSOT: 行情数据访问接口
type Provider interface {
	// SessionData returns the current-session snapshot for one
	// instrument: display name, paused flag, ST flag.
	SessionData(ctx context.Context, code string) (*contracts.SessionData, error)

	// DailyCloses returns the most recent daily close prices,
	// oldest first, at most count long. Fewer than count closes is
	// not an error here; callers decide whether a short history is
	// usable (the MA rule requires the full window).
	DailyCloses(ctx context.Context, code string, count int) ([]float64, error)
}
