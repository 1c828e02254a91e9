// Package handlers exposes read-only views of the running strategy.
// The orchestrator is the only writer; these endpoints never mutate.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/scheduler"
	"github.com/muchen/fenglin/internal/strategy"
	"github.com/muchen/fenglin/internal/strategyconfig"
	"github.com/muchen/fenglin/pkg/logger"
)

// StrategyHandler serves strategy state, universe and fills
type StrategyHandler struct {
	state     *strategy.State
	broker    broker.Broker
	scheduler *scheduler.Scheduler
	cfg       *strategyconfig.Config
	snapshot  *strategyconfig.DecisionSnapshot
	logger    *logger.Logger
}

func NewStrategyHandler(
	state *strategy.State,
	b broker.Broker,
	sched *scheduler.Scheduler,
	cfg *strategyconfig.Config,
	snap *strategyconfig.DecisionSnapshot,
	log *logger.Logger,
) *StrategyHandler {
	return &StrategyHandler{
		state:     state,
		broker:    b,
		scheduler: sched,
		cfg:       cfg,
		snapshot:  snap,
		logger:    log,
	}
}

// GetState returns the full state snapshot
func (h *StrategyHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state.Snapshot())
}

// GetUniverse returns the current trading-day universe
func (h *StrategyHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	if snap.Universe == nil {
		writeError(w, http.StatusNotFound, "universe not built yet")
		return
	}
	writeJSON(w, http.StatusOK, snap.Universe)
}

// GetTrades returns the last post-close fill report
func (h *StrategyHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trades": snap.LastTrades,
	})
}

// GetPositions returns current holdings and cash from the broker
func (h *StrategyHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cash, err := h.broker.AvailableCash(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Broker cash query failed")
		writeError(w, http.StatusBadGateway, "broker unavailable")
		return
	}
	positions, err := h.broker.Positions(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Broker positions query failed")
		writeError(w, http.StatusBadGateway, "broker unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"available_cash": cash,
		"positions":      positions,
	})
}

// GetConfig returns the loaded strategy parameters with the pinned
// snapshot the run started with
func (h *StrategyHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"config_hash": h.snapshot.ConfigHash,
		"loaded_at":   h.snapshot.CreatedAt,
		"config":      h.cfg,
	})
}

// GetJobs returns scheduler execution statistics
func (h *StrategyHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
