package fundamentals

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/pkg/logger"
)

// Repository answers fundamentals queries from PostgreSQL
// SSOT: 基本面数据查询只在这里
type Repository struct {
	db     *pgxpool.Pool
	logger *logger.Logger
}

// NewRepository creates a new fundamentals repository
func NewRepository(db *pgxpool.Pool, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// Query runs one snapshot query. A day with no qualifying rows returns
// an empty slice, not an error.
func (r *Repository) Query(ctx context.Context, q Query) ([]contracts.Candidate, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fundamentals query: %w", err)
	}

	snapDate, ok, err := r.snapshotDate(ctx, q.AsOf)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot date: %w", err)
	}
	if !ok {
		// No snapshot at or before AsOf. Screening degrades to an
		// empty candidate list rather than failing the day.
		r.logger.WithField("as_of", q.AsOf).Warn("No fundamentals snapshot available")
		return []contracts.Candidate{}, nil
	}

	sql, args := q.buildSQL()
	args[0] = snapDate

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query fundamentals: %w", err)
	}
	defer rows.Close()

	candidates := make([]contracts.Candidate, 0)
	for rows.Next() {
		var c contracts.Candidate
		err := rows.Scan(
			&c.Code,
			&c.PERatio,
			&c.PBRatio,
			&c.MarketCap,
			&c.EPS,
			&c.NetProfitGrowth,
			&c.ROE,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	r.logger.WithFields(map[string]interface{}{
		"snapshot":   snapDate.Format("2006-01-02"),
		"candidates": len(candidates),
	}).Debug("Fundamentals query completed")

	return candidates, nil
}

// snapshotDate resolves the most recent snapshot at or before asOf
// (or the latest overall when asOf is zero).
func (r *Repository) snapshotDate(ctx context.Context, asOf time.Time) (time.Time, bool, error) {
	var asOfArg interface{}
	if !asOf.IsZero() {
		asOfArg = asOf
	}

	var snapDate *time.Time
	err := r.db.QueryRow(ctx, `
		SELECT MAX(trade_date)
		FROM data.fundamentals
		WHERE $1::date IS NULL OR trade_date <= $1
	`, asOfArg).Scan(&snapDate)
	if err != nil {
		return time.Time{}, false, err
	}
	if snapDate == nil {
		return time.Time{}, false, nil
	}

	return *snapDate, true, nil
}
