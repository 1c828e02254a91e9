package fundamentals

import (
	"fmt"
	"strings"
	"time"
)

// Field names a numeric fundamentals column usable in filters and
// ordering. Whitelisted to keep the dynamic SQL safe.
type Field string

const (
	FieldPERatio         Field = "pe_ratio"
	FieldPBRatio         Field = "pb_ratio"
	FieldMarketCap       Field = "market_cap"
	FieldEPS             Field = "eps"
	FieldNetProfitGrowth Field = "net_profit_growth"
	FieldROE             Field = "roe"
)

var validFields = map[Field]bool{
	FieldPERatio:         true,
	FieldPBRatio:         true,
	FieldMarketCap:       true,
	FieldEPS:             true,
	FieldNetProfitGrowth: true,
	FieldROE:             true,
}

// Op is a range predicate operator
type Op string

const (
	OpGT Op = ">"
	OpLT Op = "<"
	OpGE Op = ">="
	OpLE Op = "<="
)

var validOps = map[Op]bool{OpGT: true, OpLT: true, OpGE: true, OpLE: true}

// Filter is one range predicate on a numeric field
type Filter struct {
	Field Field
	Op    Op
	Value float64
}

// Order is the single sort key of a query
type Order struct {
	Field Field
	Desc  bool
}

// Query describes one fundamentals snapshot query: range predicates,
// one sort key, a row limit and an as-of date (zero = latest snapshot).
type Query struct {
	Filters []Filter
	OrderBy Order
	Limit   int
	AsOf    time.Time
}

// Validate checks fields and operators against the whitelist
func (q *Query) Validate() error {
	for _, f := range q.Filters {
		if !validFields[f.Field] {
			return fmt.Errorf("unknown filter field %q", f.Field)
		}
		if !validOps[f.Op] {
			return fmt.Errorf("unknown filter op %q", f.Op)
		}
	}
	if q.OrderBy.Field != "" && !validFields[q.OrderBy.Field] {
		return fmt.Errorf("unknown order field %q", q.OrderBy.Field)
	}
	if q.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

// buildSQL renders the query against data.fundamentals. The snapshot
// date is always $1; filter values follow in order.
func (q *Query) buildSQL() (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT code, pe_ratio, pb_ratio, market_cap, eps, net_profit_growth, roe
		FROM data.fundamentals
		WHERE trade_date = $1`)

	args := []interface{}{nil} // $1 filled in by the repository
	for _, f := range q.Filters {
		args = append(args, f.Value)
		fmt.Fprintf(&sb, " AND %s %s $%d", f.Field, f.Op, len(args))
	}

	if q.OrderBy.Field != "" {
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", q.OrderBy.Field, dir)
	}

	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	return sb.String(), args
}
