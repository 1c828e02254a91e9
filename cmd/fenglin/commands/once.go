package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// onceCmd runs one full trading-day cycle immediately
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run one pre-open/open/post-close cycle now",
	Long: `Runs the three lifecycle hooks back to back against the paper
broker, outside the cron schedule. Useful for dry runs and for
checking what the strategy would do today.

Example:
  go run ./cmd/fenglin once
  go run ./cmd/fenglin once --strategy config/strategy/value_momentum.yaml`,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fenglin single-day dry run ===")

	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	now := time.Now().In(a.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)

	if err := a.orch.PreOpen(ctx, day); err != nil {
		return fmt.Errorf("pre-open: %w", err)
	}
	if err := a.orch.Open(ctx, day); err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if err := a.orch.PostClose(ctx, day); err != nil {
		return fmt.Errorf("post-close: %w", err)
	}

	snap := a.orch.State().Snapshot()
	fmt.Printf("\nUniverse: %d instruments (%d excluded)\n", snap.Universe.Count(), len(snap.Universe.Excluded))
	if snap.LastReport != nil {
		r := snap.LastReport
		if r.Focus != "" {
			fmt.Printf("Focus:    %s (%s)\n", r.Focus, r.Signal)
		}
		fmt.Printf("Orders:   %d buys, %d sells, %d holds, %d rejected\n",
			r.BuyCount(), r.SellCount(), len(r.Holds), len(r.Rejected))
	}
	fmt.Printf("Fills:    %d\n", len(snap.LastTrades))

	cash, err := a.broker.AvailableCash(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Cash:     %.2f\n", cash)
	return nil
}
