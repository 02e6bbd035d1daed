// Package repo runs the report queries against the MIS store. All SQL is
// built with the shared where-builder and rebound to @pN placeholders.
package repo

import (
	"context"
	"fmt"
	"time"

	"petmis/internal/core/sqlbuild"
	perr "petmis/internal/platform/errors"
	"petmis/internal/platform/logger"
	"petmis/internal/platform/store"
	"petmis/internal/services/reports/domain"
)

// Repo wraps the MIS handle for report reads
type Repo struct {
	DB  store.Querier
	log *logger.Logger
}

// New constructs a Repo
func New(db store.Querier) *Repo {
	return &Repo{DB: db, log: logger.Named("reports.repo")}
}

// grid runs query and scans every row into a map keyed by column name,
// preserving the result column order for CSV export
func (r *Repo) grid(ctx context.Context, query string, args ...any) ([]string, []domain.Record, error) {
	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), args...)
	if err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeDB, "report query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeDB, "report columns")
	}

	var out []domain.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, perr.Wrap(err, perr.ErrorCodeDB, "report scan")
		}
		rec := make(domain.Record, len(cols))
		for i, c := range cols {
			rec[c] = normalizeValue(vals[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, perr.Wrap(err, perr.ErrorCodeDB, "report rows")
	}
	return cols, out, nil
}

// scalarInt runs a single-cell count query
func (r *Repo) scalarInt(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, sqlbuild.Rebind(query), args...).Scan(&n); err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "report count")
	}
	return n, nil
}

// normalizeValue makes driver values JSON-friendly
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// popTotal extracts and removes the windowed TotalRecords column that paged
// CTE queries attach to every row
func popTotal(recs []domain.Record) int {
	if len(recs) == 0 {
		return 0
	}
	var total int
	if v, ok := recs[0]["TotalRecords"]; ok {
		total = toInt(v)
	}
	for _, rec := range recs {
		delete(rec, "TotalRecords")
	}
	return total
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// MonthKey renders the map key the trend builders index by
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// dayClampPredicate restricts rows to the same day-of-month window in every
// month, clamping both bounds to short months. Binds four parameters:
// startDay twice then endDay twice.
func dayClampPredicate(basis string) string {
	return fmt.Sprintf(`
				AND DAY(%[1]s) >=
					CASE
						WHEN ? > DAY(EOMONTH(%[1]s))
						THEN DAY(EOMONTH(%[1]s))
						ELSE ?
					END
				AND DAY(%[1]s) <=
					CASE
						WHEN ? > DAY(EOMONTH(%[1]s))
						THEN DAY(EOMONTH(%[1]s))
						ELSE ?
					END`, basis)
}

// monthlyCounts groups a fact table by calendar month over the trailing
// window. When sameMonth is set, only rows inside the wraparound-aware
// start/end day window count, so MTD windows compare like-for-like months.
func (r *Repo) monthlyCounts(
	ctx context.Context,
	table, countExpr string,
	wb *sqlbuild.WhereBuilder,
	oldestAnchor, upperExclusive string,
	sameMonth bool,
	startDay, endDay int,
) (map[string]int, error) {
	query := fmt.Sprintf(`
			SELECT
				YEAR(CreatedDate) AS [year],
				MONTH(CreatedDate) AS [month],
				%s AS [value]
			FROM %s
			WHERE %s
			AND CreatedDate >= ?
			AND CreatedDate <  ?`, countExpr, table, wb.SQL())
	args := append(wb.Params(), oldestAnchor, upperExclusive)

	if sameMonth {
		query += `
			AND (
					CASE WHEN ? <= ?
						THEN CASE WHEN DAY(CreatedDate) BETWEEN ? AND ? THEN 1 ELSE 0 END
						ELSE CASE WHEN DAY(CreatedDate) >= ? OR DAY(CreatedDate) <= ? THEN 1 ELSE 0 END
					END
				) = 1`
		args = append(args,
			startDay, endDay,
			startDay, endDay,
			startDay, endDay,
		)
	}
	query += `
			GROUP BY YEAR(CreatedDate), MONTH(CreatedDate)`

	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), args...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "monthly counts on %s", table)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var y, m, v int
		if err := rows.Scan(&y, &m, &v); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "monthly counts scan on %s", table)
		}
		out[MonthKey(y, m)] = v
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "monthly counts rows on %s", table)
	}
	return out, nil
}

// MethodCount is one month of one receive-method bucket
type MethodCount struct {
	Period time.Time
	Method string
	Value  int
}

// methodMonthly groups a fact table by receive method and calendar month.
// The day clamp only applies when sameMonth is set.
func (r *Repo) methodMonthly(
	ctx context.Context,
	table, methodCol, countExpr string,
	wb *sqlbuild.WhereBuilder,
	sameMonth bool,
	startDay, endDay int,
) ([]MethodCount, error) {
	query := fmt.Sprintf(`
			SELECT
				%s AS value,
				%s,
				DATEFROMPARTS(YEAR(CreatedDate), MONTH(CreatedDate), 1) AS ReportingPeriod
			FROM %s
			WHERE %s`, countExpr, methodCol, table, wb.SQL())
	args := wb.Params()

	if sameMonth {
		query += dayClampPredicate("CreatedDate")
		args = append(args, startDay, startDay, endDay, endDay)
	}
	query += fmt.Sprintf(`
			GROUP BY
				%s,
				DATEFROMPARTS(YEAR(CreatedDate), MONTH(CreatedDate), 1)
			ORDER BY ReportingPeriod ASC`, methodCol)

	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), args...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "method monthly on %s", table)
	}
	defer rows.Close()

	var out []MethodCount
	for rows.Next() {
		var mc MethodCount
		var method any
		if err := rows.Scan(&mc.Value, &method, &mc.Period); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "method monthly scan on %s", table)
		}
		if s, ok := normalizeValue(method).(string); ok {
			mc.Method = s
		}
		out = append(out, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "method monthly rows on %s", table)
	}
	return out, nil
}
