package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muchen/fenglin/internal/api"
	"github.com/muchen/fenglin/internal/api/handlers"
	"github.com/muchen/fenglin/internal/scheduler"
	"github.com/muchen/fenglin/internal/scheduler/jobs"
)

// runCmd starts the daily scheduler plus the API server
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the strategy daemon (scheduler + API)",
	Long: `Runs the full daily cycle on the configured cron schedule and
serves the read-only strategy API.

Jobs (exchange-local time):
  pre_open    refresh the universe from fundamentals
  open        evaluate signals and issue orders
  post_close  report executed trades

Endpoints:
  GET /health                    - health check
  GET /api/strategy/state        - state snapshot
  GET /api/strategy/universe     - today's universe
  GET /api/strategy/trades       - last fill report
  GET /api/strategy/config       - loaded parameters + hash
  GET /api/portfolio/positions   - holdings and cash
  GET /api/jobs                  - scheduler stats
  GET /ws/trades                 - live fill stream

Example:
  go run ./cmd/fenglin run
  go run ./cmd/fenglin run --port 8086`,
	RunE: runDaemon,
}

var apiPort string

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fenglin strategy daemon ===")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// Scheduler with the three lifecycle jobs
	sched := scheduler.New(a.log, a.loc)
	if err := jobs.RegisterLifecycle(sched, a.orch, a.strategy.Schedule, a.loc); err != nil {
		return fmt.Errorf("register jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// API server
	handler := handlers.NewStrategyHandler(a.orch.State(), a.broker, sched, a.strategy, a.snapshot, a.log)
	router := api.NewRouter(handler, a.hub, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.log.WithField("signal", sig.String()).Info("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
