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

// incompleteDetails flags quotes missing any of the contact or pet fields the
// sales team needs to follow up
const incompleteDetails = `( NULLIF(LTRIM(RTRIM(FullName)),  '') IS NULL
						OR NULLIF(LTRIM(RTRIM(Email)),     '') IS NULL
						OR NULLIF(LTRIM(RTRIM(Address)),   '') IS NULL
						OR NULLIF(LTRIM(RTRIM(PostCode)),  '') IS NULL
						OR NULLIF(LTRIM(RTRIM(ContactNo)), '') IS NULL
						OR NULLIF(LTRIM(RTRIM(PetType)),   '') IS NULL
						OR NULLIF(LTRIM(RTRIM(PetName)),   '') IS NULL )`

// quoteStatusExpr derives Live/Lapsed from the expiry date at read time
const quoteStatusExpr = `CASE
						WHEN COALESCE(QuoteExpiryDate, QuoteStartDate) IS NULL THEN NULL
						WHEN CAST(GETDATE() AS DATE) > QuoteExpiryDate THEN 'Lapsed'
						ELSE 'Live'
					END AS QuoteStatus`

// convertedExpr treats placeholder policy numbers as unconverted
const convertedExpr = `CASE
						WHEN PolicyNumber IS NULL THEN 'No'
						WHEN PolicyNumber LIKE '%none%' THEN 'No'
						ELSE 'Yes'
					END AS ConvertedQuote`

// QuoteKPIs are the headline counters for one summary window
type QuoteKPIs struct {
	CurrentTotal int
	PrevTotal    int
	Live         int
	Lapsed       int
	Incomplete   int
}

// QuoteKPIs counts the current window, the month-shifted previous window and
// the live/lapsed/incomplete splits in a single pass over the Quote table
func (r *Repo) QuoteKPIs(
	ctx context.Context,
	c filterset.Criteria,
	cur datewindow.Range,
	prevStart, prevEndExclusive string,
	today string,
) (QuoteKPIs, error) {
	wb := filterset.Apply(sqlbuild.NewWhere(), c)

	query := fmt.Sprintf(`
			SELECT
				SUM(CASE WHEN CreatedDate >= ? AND CreatedDate <  ? THEN 1 ELSE 0 END) AS currentPeriodTotalQuotes,
				SUM(CASE WHEN CreatedDate >= ? AND CreatedDate <  ? THEN 1 ELSE 0 END) AS lastPeriodTotalQuotes,
				SUM(CASE WHEN CreatedDate >= ? AND CreatedDate <  ? AND ? <= QuoteExpiryDate
					AND (PolicyNumber IS NULL OR PolicyNumber LIKE '%%NONE%%') THEN 1 ELSE 0 END) AS liveQuotes,
				SUM(CASE WHEN CreatedDate >= ? AND CreatedDate <  ? AND ?  > QuoteExpiryDate
					AND (PolicyNumber IS NULL OR PolicyNumber LIKE '%%NONE%%') THEN 1 ELSE 0 END) AS lapsedQuotes,
				SUM(CASE WHEN CreatedDate >= ? AND CreatedDate <  ? AND
					%s
				THEN 1 ELSE 0 END) AS incompleteQuoteDetails
			FROM Quote
			WHERE %s`, incompleteDetails, wb.SQL())

	args := []any{
		cur.Start, cur.EndExclusive,
		prevStart, prevEndExclusive,
		cur.Start, cur.EndExclusive, today,
		cur.Start, cur.EndExclusive, today,
		cur.Start, cur.EndExclusive,
	}
	args = append(args, wb.Params()...)

	// SUM over an empty table yields NULL, not zero
	var curTotal, prevTotal, live, lapsed, incomplete any
	err := r.DB.QueryRowContext(ctx, sqlbuild.Rebind(query), args...).
		Scan(&curTotal, &prevTotal, &live, &lapsed, &incomplete)
	if err != nil {
		return QuoteKPIs{}, perr.Wrap(err, perr.ErrorCodeDB, "quote kpis")
	}
	return QuoteKPIs{
		CurrentTotal: toInt(curTotal),
		PrevTotal:    toInt(prevTotal),
		Live:         toInt(live),
		Lapsed:       toInt(lapsed),
		Incomplete:   toInt(incomplete),
	}, nil
}

// QuoteTrend returns month-bucketed quote counts over the 13-month trailing
// window keyed by "YYYY-MM"
func (r *Repo) QuoteTrend(
	ctx context.Context,
	c filterset.Criteria,
	oldestAnchor, upperExclusive string,
	sameMonth bool,
	startDay, endDay int,
) (map[string]int, error) {
	wb := filterset.Apply(sqlbuild.NewWhere(), c)
	return r.monthlyCounts(ctx, "Quote", "COUNT(QuoteNumber)", wb,
		oldestAnchor, upperExclusive, sameMonth, startDay, endDay)
}

// quoteWhere builds the standard quote window + filter predicate
func quoteWhere(c filterset.Criteria, win datewindow.Range) *sqlbuild.WhereBuilder {
	wb := sqlbuild.NewWhere().
		Add("CreatedDate >= ?", win.Start).
		Add("CreatedDate < ?", win.EndExclusive)
	return filterset.Apply(wb, c)
}

// QuotePage returns one page of the quote grid plus the unpaged total
func (r *Repo) QuotePage(ctx context.Context, c filterset.Criteria, win datewindow.Range, skip, limit int) (int, []domain.Record, error) {
	wb := quoteWhere(c, win)

	total, err := r.scalarInt(ctx,
		"SELECT COUNT(QuoteNumber) AS TotalRecords FROM Quote WHERE "+wb.SQL(), wb.Params()...)
	if err != nil {
		return 0, nil, err
	}

	query := fmt.Sprintf(`
			SELECT
				CountryName, CountryCode, Brand,
				QuoteNumber,
				%s,
				%s,
				CASE
					WHEN %s
					THEN 'No'
					ELSE 'Yes'
				END AS QuoteDetailsCompleted,
				CreatedDate, QuoteStartDate, QuoteExpiryDate, QuoteReceivedMethod,
				FullName, Email, ContactNo,
				PetName, PetType, BreedName, PetBirthDate
			FROM Quote
			WHERE %s
			ORDER BY CreatedDate DESC, QuoteNumber
			OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`,
		quoteStatusExpr, convertedExpr, incompleteDetails, wb.SQL())

	args := append(wb.Params(), skip, limit)
	_, recs, err := r.grid(ctx, query, args...)
	return total, recs, err
}

// QuotePetTypePage is the quote grid without the completeness column
func (r *Repo) QuotePetTypePage(ctx context.Context, c filterset.Criteria, win datewindow.Range, skip, limit int) (int, []domain.Record, error) {
	wb := quoteWhere(c, win)

	total, err := r.scalarInt(ctx,
		"SELECT COUNT(QuoteNumber) AS TotalRecords FROM Quote WHERE "+wb.SQL(), wb.Params()...)
	if err != nil {
		return 0, nil, err
	}

	query := fmt.Sprintf(`
			SELECT
				CountryName, CountryCode, Brand,
				QuoteNumber,
				%s,
				%s,
				QuoteStartDate, QuoteExpiryDate, QuoteReceivedMethod,
				FullName, Email, ContactNo,
				PetName, PetType, BreedName, PetBirthDate
			FROM Quote
			WHERE %s
			ORDER BY CreatedDate DESC, QuoteNumber
			OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`,
		quoteStatusExpr, convertedExpr, wb.SQL())

	args := append(wb.Params(), skip, limit)
	_, recs, err := r.grid(ctx, query, args...)
	return total, recs, err
}

// QuoteByPetType groups quotes into pet categories
func (r *Repo) QuoteByPetType(ctx context.Context, c filterset.Criteria, win datewindow.Range) ([]domain.NamedCount, error) {
	return r.petTypeCounts(ctx, "Quote", "COUNT(QuoteNumber)", quoteWhere(c, win))
}

// ConversionTotals counts quotes in the window and how many of them became
// policies inside the same window
func (r *Repo) ConversionTotals(ctx context.Context, c filterset.Criteria, win datewindow.Range) (totalQuotes, converted int, err error) {
	wb := filterset.Apply(sqlbuild.NewWhere(), c)

	query := fmt.Sprintf(`
			SELECT
				TotalQuotes = COUNT(CASE WHEN CreatedDate >= ? AND CreatedDate < ? THEN QuoteNumber END),
				TotalSales = SUM(
					CASE WHEN PolicyNumber IS NOT NULL
						AND PolicyNumber NOT LIKE '%%NONE%%'
						AND PolicyCreatedDate >= ?
						AND PolicyCreatedDate < ?
						AND CreatedDate >= ? AND CreatedDate < ?
					THEN 1 ELSE 0 END
				)
			FROM Quote
			WHERE %s`, wb.SQL())

	args := []any{
		win.Start, win.EndExclusive,
		win.Start, win.EndExclusive,
		win.Start, win.EndExclusive,
	}
	args = append(args, wb.Params()...)

	var total, sales any
	if err := r.DB.QueryRowContext(ctx, sqlbuild.Rebind(query), args...).Scan(&total, &sales); err != nil {
		return 0, 0, perr.Wrap(err, perr.ErrorCodeDB, "conversion totals")
	}
	return toInt(total), toInt(sales), nil
}

// ConversionPage is the quote grid extended with the policy columns
func (r *Repo) ConversionPage(ctx context.Context, c filterset.Criteria, win datewindow.Range, skip, limit int) (int, []domain.Record, error) {
	wb := quoteWhere(c, win)

	total, err := r.scalarInt(ctx,
		"SELECT COUNT(QuoteNumber) AS TotalRecords FROM Quote WHERE "+wb.SQL(), wb.Params()...)
	if err != nil {
		return 0, nil, err
	}

	query := fmt.Sprintf(`
			SELECT
				CountryName, CountryCode, Brand,
				QuoteNumber,
				%s,
				%s,
				CreatedDate, QuoteStartDate, QuoteExpiryDate, QuoteReceivedMethod,
				FullName, Email, ContactNo,
				PetName, PetType, BreedName, PetBirthDate,
				PolicyNumber, PolicyStartDate, PolicyEndDate
			FROM Quote
			WHERE %s
			ORDER BY CreatedDate DESC, QuoteNumber
			OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`,
		quoteStatusExpr, convertedExpr, wb.SQL())

	args := append(wb.Params(), skip, limit)
	_, recs, err := r.grid(ctx, query, args...)
	return total, recs, err
}

// QuoteMethodMonthly buckets quotes by received method per month
func (r *Repo) QuoteMethodMonthly(ctx context.Context, c filterset.Criteria, win datewindow.Range, sameMonth bool, startDay, endDay int) ([]MethodCount, error) {
	return r.methodMonthly(ctx, "Quote", "QuoteReceivedMethod", "COUNT(QuoteNumber)",
		quoteWhere(c, win), sameMonth, startDay, endDay)
}

// QuoteMethodTotals sums quotes per received method over the raw window
func (r *Repo) QuoteMethodTotals(ctx context.Context, c filterset.Criteria, win datewindow.Range) (map[string]int, error) {
	wb := quoteWhere(c, win)
	query := `
			SELECT QuoteReceivedMethod, COUNT(QuoteNumber) AS value
			FROM Quote
			WHERE ` + wb.SQL() + `
			GROUP BY QuoteReceivedMethod`

	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), wb.Params()...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "quote method totals")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var method any
		var v int
		if err := rows.Scan(&method, &v); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "quote method totals scan")
		}
		s, _ := normalizeValue(method).(string)
		out[s] += v
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "quote method totals rows")
	}
	return out, nil
}

// QuoteMethodPage pages the day-window aligned quote grid, carrying the
// unpaged total in a window function so one round trip serves both
func (r *Repo) QuoteMethodPage(ctx context.Context, c filterset.Criteria, win datewindow.Range, startDay, endDay, skip, limit int) (int, []domain.Record, error) {
	wb := quoteWhere(c, win)

	query := fmt.Sprintf(`
			WITH Base AS (
				SELECT
					CountryName, CountryCode, Brand,
					QuoteNumber,
					%s,
					%s,
					CreatedDate, QuoteStartDate, QuoteExpiryDate, QuoteReceivedMethod,
					FullName, Email, ContactNo,
					PetName, PetType, BreedName, PetBirthDate,
					PolicyNumber, PolicyStartDate, PolicyEndDate
				FROM Quote
				WHERE %s%s
			)
			SELECT
				b.*,
				COUNT(QuoteNumber) OVER() AS TotalRecords
			FROM Base b
			ORDER BY b.CreatedDate DESC, b.QuoteNumber
			OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`,
		quoteStatusExpr, convertedExpr, wb.SQL(), dayClampPredicate("CreatedDate"))

	args := append(wb.Params(), startDay, startDay, endDay, endDay, skip, limit)
	_, recs, err := r.grid(ctx, query, args...)
	if err != nil {
		return 0, nil, err
	}
	return popTotal(recs), recs, nil
}

// petTypeCounts rolls a fact table up into the UI's pet categories
func (r *Repo) petTypeCounts(ctx context.Context, table, countExpr string, wb *sqlbuild.WhereBuilder) ([]domain.NamedCount, error) {
	const rollup = `CASE
					WHEN LOWER(COALESCE(PetType, '')) LIKE '%cat%'    THEN 'Cat'
					WHEN LOWER(COALESCE(PetType, '')) LIKE '%dog%'    THEN 'Dog'
					WHEN LOWER(COALESCE(PetType, '')) LIKE '%horse%'  THEN 'Horse'
					WHEN LOWER(COALESCE(PetType, '')) LIKE '%exotic%' THEN 'Exotic'
					WHEN LOWER(COALESCE(PetType, '')) LIKE '%bb_com%'  THEN 'BB'
					ELSE 'Others'
				END`

	query := fmt.Sprintf(`
			SELECT
				%s AS value,
				%s AS name
			FROM %s
			WHERE %s
			GROUP BY
				%s
			ORDER BY name DESC`, countExpr, rollup, table, wb.SQL(), rollup)

	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), wb.Params()...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "pet type counts on %s", table)
	}
	defer rows.Close()

	var out []domain.NamedCount
	for rows.Next() {
		var nc domain.NamedCount
		if err := rows.Scan(&nc.Value, &nc.Name); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeDB, "pet type counts scan on %s", table)
		}
		out = append(out, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "pet type counts rows on %s", table)
	}
	return out, nil
}
