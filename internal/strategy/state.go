package strategy

import (
	"sync"
	"time"

	"github.com/muchen/fenglin/internal/contracts"
)

// State is the process-wide strategy state, rebuilt on every start.
// Cash and positions live at the broker; only the orchestrator writes
// here, API readers take the lock.
type State struct {
	mu sync.RWMutex

	universe   *contracts.Universe
	day        int // 交易日计数, 从 0 开始
	lastReport *contracts.RebalanceReport
	lastTrades []contracts.Trade

	// RebalancePeriodDays is read from configuration and reported in
	// snapshots. It does not yet gate the daily pass.
	rebalancePeriodDays int
}

// Snapshot is a read-only copy of the strategy state for API readers
type Snapshot struct {
	Day                 int                        `json:"day"`
	RebalancePeriodDays int                        `json:"rebalance_period_days"`
	Universe            *contracts.Universe        `json:"universe,omitempty"`
	LastReport          *contracts.RebalanceReport `json:"last_report,omitempty"`
	LastTrades          []contracts.Trade          `json:"last_trades,omitempty"`
}

func NewState(rebalancePeriodDays int) *State {
	return &State{rebalancePeriodDays: rebalancePeriodDays}
}

func (s *State) replaceUniverse(u *contracts.Universe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.universe = u
	s.day++
}

func (s *State) currentUniverse(day time.Time) *contracts.Universe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.universe == nil {
		return contracts.NewUniverse(day)
	}
	return s.universe
}

func (s *State) setReport(r *contracts.RebalanceReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = r
}

func (s *State) setTrades(trades []contracts.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTrades = trades
}

// Snapshot returns a consistent copy of the current state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Day:                 s.day,
		RebalancePeriodDays: s.rebalancePeriodDays,
		Universe:            s.universe,
		LastReport:          s.lastReport,
		LastTrades:          s.lastTrades,
	}
}
