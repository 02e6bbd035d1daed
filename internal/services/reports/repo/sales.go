package repo

import (
	"context"
	"fmt"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/filterset"
	"petmis/internal/core/sqlbuild"
	perr "petmis/internal/platform/errors"
	"petmis/internal/services/reports/domain"
)

// agentCategoryExpr maps the handful of known agent category ids to their
// display names; unknown ids come back NULL
const agentCategoryExpr = `CASE
					WHEN AgentCategoryId = 8 THEN 'Breeder'
					WHEN AgentCategoryId = 7 THEN 'Pet Business'
					WHEN AgentCategoryId = 6 THEN 'Charities'
					WHEN AgentCategoryId = 5 THEN 'Vet'
				END AS AgentCategory`

// salesWhere builds the standard sales window + filter predicate
func salesWhere(c filterset.Criteria, win datewindow.Range) *sqlbuild.WhereBuilder {
	wb := sqlbuild.NewWhere().
		Add("CreatedDate >= ?", win.Start).
		Add("CreatedDate < ?", win.EndExclusive)
	return filterset.Apply(wb, c)
}

// SalesTrend returns month-bucketed policy sale counts over the trailing
// window keyed by "YYYY-MM"
func (r *Repo) SalesTrend(
	ctx context.Context,
	c filterset.Criteria,
	oldestAnchor, upperExclusive string,
	sameMonth bool,
	startDay, endDay int,
) (map[string]int, error) {
	wb := filterset.Apply(sqlbuild.NewWhere(), c)
	return r.monthlyCounts(ctx, "Sales", "COUNT(PolicyNumber)", wb,
		oldestAnchor, upperExclusive, sameMonth, startDay, endDay)
}

// SalesByPetType groups policy sales into pet categories
func (r *Repo) SalesByPetType(ctx context.Context, c filterset.Criteria, win datewindow.Range) ([]domain.NamedCount, error) {
	return r.petTypeCounts(ctx, "Sales", "COUNT(PolicyNumber)", salesWhere(c, win))
}

// SalesPage returns one page of the sales grid plus the unpaged total
func (r *Repo) SalesPage(ctx context.Context, c filterset.Criteria, win datewindow.Range, skip, limit int) (int, []domain.Record, error) {
	wb := salesWhere(c, win)

	total, err := r.scalarInt(ctx,
		"SELECT COUNT(PolicyNumber) AS TotalRecords FROM Sales WHERE "+wb.SQL(), wb.Params()...)
	if err != nil {
		return 0, nil, err
	}

	query := `
			SELECT
				CountryName, CountryCode, Brand,
				QuoteNumber,
				CreatedDate, ActualStartDate,
				ProductName, PetType, ClientName,
				PetName, SaleMethod, PolicyNumber
			FROM Sales
			WHERE ` + wb.SQL() + `
			ORDER BY CreatedDate DESC, QuoteNumber
			OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`

	args := append(wb.Params(), skip, limit)
	_, recs, err := r.grid(ctx, query, args...)
	return total, recs, err
}

// SalesMethodMonthly buckets policy sales by sale method per month
func (r *Repo) SalesMethodMonthly(ctx context.Context, c filterset.Criteria, win datewindow.Range, sameMonth bool, startDay, endDay int) ([]MethodCount, error) {
	return r.methodMonthly(ctx, "Sales", "SaleMethod", "COUNT(PolicyNumber)",
		salesWhere(c, win), sameMonth, startDay, endDay)
}

// SalesMethodTotals sums sales per normalized sale method over the raw
// window; contact-center variants collapse into phone at the SQL level
func (r *Repo) SalesMethodTotals(ctx context.Context, c filterset.Criteria, win datewindow.Range) (map[string]int, error) {
	wb := salesWhere(c, win)

	const normalized = `CASE
					WHEN LOWER(LTRIM(RTRIM(SaleMethod))) IN ('contact center','contact_center','phone') THEN 'phone'
					WHEN LOWER(LTRIM(RTRIM(SaleMethod))) = 'web' THEN 'web'
					ELSE LOWER(LTRIM(RTRIM(SaleMethod)))
				END`

	query := fmt.Sprintf(`
			SELECT
				%s AS SaleMethod,
				COUNT(PolicyNumber) AS value
			FROM Sales
			WHERE %s
			GROUP BY %s`, normalized, wb.SQL(), normalized)

	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), wb.Params()...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "sales method totals")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var method any
		var v int
		if err := rows.Scan(&method, &v); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "sales method totals scan")
		}
		s, _ := normalizeValue(method).(string)
		out[s] += v
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "sales method totals rows")
	}
	return out, nil
}

// FreePolicySlices aggregates free policy sales by status, pet type and
// channel in one round trip, each row tagged with its grouping level
func (r *Repo) FreePolicySlices(ctx context.Context, c filterset.Criteria, win datewindow.Range) (byStatus, byPet, byChannel []domain.PctSlice, err error) {
	wb := salesWhere(c, win)

	query := `
			WITH base AS (
				SELECT PolicyStatusName, PetType, SaleMethod
				FROM FreePolicySales
				WHERE ` + wb.SQL() + `
			),
			status_agg AS (
				SELECT PolicyStatusName AS name, COUNT(*) AS value,
					   CAST(100.0 * COUNT(*) / NULLIF(SUM(COUNT(*)) OVER (), 0) AS DECIMAL(5,1)) AS PctOfTotal
				FROM base
				GROUP BY PolicyStatusName
			),
			pet_agg AS (
				SELECT PetType AS name, COUNT(*) AS value,
					   CAST(100.0 * COUNT(*) / NULLIF(SUM(COUNT(*)) OVER (), 0) AS DECIMAL(5,1)) AS PctOfTotal
				FROM base
				GROUP BY PetType
			),
			channel_agg AS (
				SELECT SaleMethod AS name, COUNT(*) AS value,
					   CAST(100.0 * COUNT(*) / NULLIF(SUM(COUNT(*)) OVER (), 0) AS DECIMAL(5,1)) AS PctOfTotal
				FROM base
				GROUP BY SaleMethod
			)
			SELECT 'status' AS level, name, value, PctOfTotal FROM status_agg
			UNION ALL
			SELECT 'pet_type' AS level, name, value, PctOfTotal FROM pet_agg
			UNION ALL
			SELECT 'channel' AS level, name, value, PctOfTotal FROM channel_agg
			ORDER BY level, value DESC`

	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), wb.Params()...)
	if err != nil {
		return nil, nil, nil, perr.Wrap(err, perr.ErrorCodeDB, "free policy slices")
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var name any
		var value int
		var pct any
		if err := rows.Scan(&level, &name, &value, &pct); err != nil {
			return nil, nil, nil, perr.Wrap(err, perr.ErrorCodeDB, "free policy slices scan")
		}
		s, _ := normalizeValue(name).(string)
		slice := domain.PctSlice{Name: s, Value: value, Pct: toFloat(pct)}
		switch level {
		case "status":
			byStatus = append(byStatus, slice)
		case "pet_type":
			byPet = append(byPet, slice)
		case "channel":
			byChannel = append(byChannel, slice)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, perr.Wrap(err, perr.ErrorCodeDB, "free policy slices rows")
	}
	return byStatus, byPet, byChannel, nil
}

// FreePolicyPage returns one page of the free policy grid plus the total
func (r *Repo) FreePolicyPage(ctx context.Context, c filterset.Criteria, win datewindow.Range, skip, limit int) (int, []domain.Record, error) {
	wb := salesWhere(c, win)

	total, err := r.scalarInt(ctx,
		"SELECT COUNT(PolicyNumber) AS TotalRecords FROM FreePolicySales WHERE "+wb.SQL(), wb.Params()...)
	if err != nil {
		return 0, nil, err
	}

	query := fmt.Sprintf(`
			SELECT
				CountryCode, CountryName, CreatedDate, QuoteNumber, PolicyNumber,
				SubAgentName, AgentCategoryId,
				%s,
				PetType, ProductName, StateName,
				SaleMethod, PolicyStatusName, Brand
			FROM FreePolicySales
			WHERE %s
			ORDER BY CreatedDate DESC, QuoteNumber
			OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`, agentCategoryExpr, wb.SQL())

	args := append(wb.Params(), skip, limit)
	_, recs, err := r.grid(ctx, query, args...)
	return total, recs, err
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case []byte:
		// DECIMAL comes back as text from the driver
		var f float64
		_, _ = fmt.Sscanf(string(n), "%f", &f)
		return f
	case string:
		var f float64
		_, _ = fmt.Sscanf(n, "%f", &f)
		return f
	default:
		return 0
	}
}
