package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muchen/fenglin/internal/fundamentals"
	"github.com/muchen/fenglin/internal/universe"
)

// screenCmd runs the fundamentals screen and eligibility filter once
// and prints the result, without trading
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Print today's screened universe",
	Long: `Runs the fundamentals screen and the eligibility filter, prints
the surviving instruments in P/B order plus the exclusion reasons.
No orders are issued.

Example:
  go run ./cmd/fenglin screen
  go run ./cmd/fenglin screen --as-of 2026-03-02`,
	RunE: runScreen,
}

var asOfFlag string

func init() {
	rootCmd.AddCommand(screenCmd)
	screenCmd.Flags().StringVar(&asOfFlag, "as-of", "", "fundamentals snapshot date (YYYY-MM-DD, default latest)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var asOf time.Time
	if asOfFlag != "" {
		asOf, err = time.ParseInLocation("2006-01-02", asOfFlag, a.loc)
		if err != nil {
			return fmt.Errorf("parse --as-of: %w", err)
		}
	}

	ctx := context.Background()
	repo := fundamentals.NewRepository(a.db.Pool, a.log)
	screener := universe.NewScreener(repo, a.strategy.Screening, a.log)
	eligibility := universe.NewEligibility(a.provider, a.log)

	candidates, err := screener.Screen(ctx, asOf)
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	passed, excluded, err := eligibility.Filter(ctx, candidates)
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	fmt.Printf("=== universe (%d screened, %d tradeable) ===\n", len(candidates), len(passed))
	byCode := make(map[string]int, len(candidates))
	for i, c := range candidates {
		byCode[c.Code] = i
	}
	for rank, code := range passed {
		c := candidates[byCode[code]]
		fmt.Printf("%3d  %-12s  PE %6.2f  PB %5.2f  ROE %5.2f\n", rank+1, code, c.PERatio, c.PBRatio, c.ROE)
	}

	if len(excluded) > 0 {
		fmt.Printf("\n=== excluded ===\n")
		for code, reason := range excluded {
			fmt.Printf("     %-12s  %s\n", code, reason)
		}
	}
	return nil
}
