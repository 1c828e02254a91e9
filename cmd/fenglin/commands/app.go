package commands

import (
	"fmt"
	"time"

	"github.com/muchen/fenglin/internal/api"
	"github.com/muchen/fenglin/internal/broker"
	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/internal/external/sina"
	"github.com/muchen/fenglin/internal/fundamentals"
	"github.com/muchen/fenglin/internal/market"
	"github.com/muchen/fenglin/internal/signal"
	"github.com/muchen/fenglin/internal/sizing"
	"github.com/muchen/fenglin/internal/strategy"
	"github.com/muchen/fenglin/internal/strategyconfig"
	"github.com/muchen/fenglin/internal/universe"
	"github.com/muchen/fenglin/pkg/config"
	"github.com/muchen/fenglin/pkg/database"
	"github.com/muchen/fenglin/pkg/httputil"
	"github.com/muchen/fenglin/pkg/logger"
	"github.com/muchen/fenglin/pkg/redis"
)

// app holds everything a command needs after bootstrap
type app struct {
	cfg      *config.Config
	strategy *strategyconfig.Config
	snapshot *strategyconfig.DecisionSnapshot
	log      *logger.Logger
	db       *database.DB
	provider market.Provider
	broker   *broker.PaperBroker
	orch     *strategy.Orchestrator
	hub      *api.TradeHub
	loc      *time.Location
}

// buildApp wires the full dependency graph shared by run, once and
// screen. Callers must Close() it.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	scfg, snap, err := loadStrategyConfig(cfg, log)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if scfg.Meta.Timezone != "" {
		loc, err = time.LoadLocation(scfg.Meta.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone: %w", err)
		}
	}

	if !cfg.Strategy.PaperMode {
		return nil, fmt.Errorf("live trading is not supported, set PAPER_MODE=true")
	}

	// Fundamentals store
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Market data: Sina quotes behind the redis cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	httpClient := httputil.New(log, cfg.Market.RequestTimeout).
		WithRateLimit(cfg.Market.RateLimitQPS, cfg.Market.RateLimitBurst)
	sinaClient := sina.NewClient(httpClient, cfg.Market.SinaBaseURL, cfg.Market.SinaKlineBaseURL, log)
	provider := market.NewCachedProvider(sinaClient, redis.NewCache(redisClient, "fenglin"), cfg.Market.CacheTTL, log)

	// Strategy pipeline
	repo := fundamentals.NewRepository(db.Pool, log)
	screener := universe.NewScreener(repo, scfg.Screening, log)
	eligibility := universe.NewEligibility(provider, log)

	paper := broker.NewPaperBroker(cfg.Strategy.InitialCash, scfg.Costs, log)
	paper.SetQuoteSource(market.NewCloseQuoter(provider))
	now := time.Now().In(loc)
	paper.SetDay(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc))

	rebalancer, err := buildRebalancer(scfg, provider, paper, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	state := strategy.NewState(scfg.Rebalance.PeriodDays)
	orch := strategy.NewOrchestrator(screener, eligibility, rebalancer, paper, state, log)

	hub := api.NewTradeHub(log)
	orch.SetTradeListener(hub)

	return &app{
		cfg:      cfg,
		strategy: scfg,
		snapshot: snap,
		log:      log,
		db:       db,
		provider: provider,
		broker:   paper,
		orch:     orch,
		hub:      hub,
		loc:      loc,
	}, nil
}

func (a *app) Close() {
	a.hub.Close()
	a.db.Close()
}

// loadStrategyConfig reads the YAML strategy file, falling back to the
// built-in defaults when no path is configured, and pins the result in
// a decision snapshot for audit.
func loadStrategyConfig(cfg *config.Config, log *logger.Logger) (*strategyconfig.Config, *strategyconfig.DecisionSnapshot, error) {
	path := strategyFile
	if path == "" {
		path = cfg.Strategy.ConfigPath
	}

	var scfg *strategyconfig.Config
	var yamlData []byte
	if path == "" {
		scfg = strategyconfig.Default()
	} else {
		loaded, raw, err := strategyconfig.Load(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load strategy config %s: %w", path, err)
		}
		scfg, yamlData = loaded, raw
	}

	snap, err := strategyconfig.NewDecisionSnapshot(scfg, yamlData)
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(map[string]interface{}{
		"strategy":    scfg.Meta.StrategyID,
		"version":     scfg.Meta.Version,
		"config_hash": snap.ConfigHash,
		"mode":        scfg.Rebalance.Mode,
	}).Info("Strategy config loaded")

	for _, w := range strategyconfig.Warn(scfg) {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	return scfg, snap, nil
}

// buildRebalancer selects the sizing policy for the configured mode
func buildRebalancer(
	scfg *strategyconfig.Config,
	provider market.Provider,
	b broker.Broker,
	log *logger.Logger,
) (contracts.Rebalancer, error) {
	switch scfg.Rebalance.Mode {
	case strategyconfig.ModeFocus:
		evaluator := signal.NewEvaluator(provider, scfg.Signal, log)
		policy := signal.NewMomentumPolicy(evaluator)
		return sizing.NewFocusRebalancer(b, policy, scfg.Meta.FallbackInstrument, log), nil
	case strategyconfig.ModeEqualWeight:
		return sizing.NewEqualWeightRebalancer(b, signal.AlwaysTrade{}, log), nil
	default:
		return nil, fmt.Errorf("unknown rebalance mode %q", scfg.Rebalance.Mode)
	}
}
