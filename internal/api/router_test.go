package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muchen/fenglin/internal/api/handlers"
	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/scheduler"
	"github.com/muchen/fenglin/internal/strategy"
	"github.com/muchen/fenglin/internal/strategyconfig"
	"github.com/muchen/fenglin/pkg/logger"
)

func testRouter(t *testing.T) (http.Handler, *broker.PaperBroker, *strategy.State) {
	t.Helper()

	paper := broker.NewPaperBroker(100_000, broker.CostConfig{}, logger.NewNop())
	paper.SetDay(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))

	state := strategy.NewState(10)
	sched := scheduler.New(logger.NewNop(), time.UTC)

	cfg := strategyconfig.Default()
	snap, err := strategyconfig.NewDecisionSnapshot(cfg, nil)
	require.NoError(t, err)

	handler := handlers.NewStrategyHandler(state, paper, sched, cfg, snap, logger.NewNop())
	return NewRouter(handler, NewTradeHub(logger.NewNop()), logger.NewNop()), paper, state
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_StateSnapshot(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/strategy/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snap strategy.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 0, snap.Day)
	assert.Equal(t, 10, snap.RebalancePeriodDays)
}

func TestRouter_UniverseBeforePreOpen(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/strategy/universe", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Positions(t *testing.T) {
	router, paper, _ := testRouter(t)
	paper.SetPrice("600519.XSHG", 50)
	paper.SetPosition("600519.XSHG", 200, 200, 48)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/portfolio/positions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		AvailableCash float64                    `json:"available_cash"`
		Positions     map[string]json.RawMessage `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 100_000.0, body.AvailableCash)
	assert.Contains(t, body.Positions, "600519.XSHG")
}

func TestRouter_Config(t *testing.T) {
	router, _, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/strategy/config", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// The endpoint serves the snapshot pinned at bootstrap, not a
	// recomputed hash
	wantHash, err := strategyconfig.Hash(strategyconfig.Default())
	require.NoError(t, err)
	assert.Equal(t, wantHash, body["config_hash"])
	assert.NotEmpty(t, body["loaded_at"])
}
