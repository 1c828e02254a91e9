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
)

// apiCmd serves the read-only API without the scheduler, useful for
// inspecting a freshly wired app or developing handlers.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the read-only strategy API only",
	Long: `Serves the strategy API without starting the cron scheduler.
No lifecycle jobs run, so state and universe stay empty until a
daemon fills them; use this for handler development and smoke checks.

Example:
  go run ./cmd/fenglin api --port 8086`,
	RunE: runAPIOnly,
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
}

func runAPIOnly(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fenglin API server ===")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// 空调度器: /api/jobs 返回空列表而不是 404
	sched := scheduler.New(a.log, a.loc)

	handler := handlers.NewStrategyHandler(a.orch.State(), a.broker, sched, a.strategy, a.snapshot, a.log)
	router := api.NewRouter(handler, a.hub, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

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
