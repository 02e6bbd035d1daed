package repo

import (
	"context"
	"fmt"
	"time"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/filterset"
	"petmis/internal/core/sqlbuild"
	perr "petmis/internal/platform/errors"
	"petmis/internal/services/reports/domain"
)

// PolicyFilter is the predicate set for the consolidated CRM policy view
type PolicyFilter struct {
	Basis      string // allow-listed date column
	Win        datewindow.Range
	Criteria   filterset.Criteria
	Status     []string // CustomerStatus values
	FreePolicy []string // "Yes" / "No"
}

// where renders the filter into a builder; the day clamp binds separately
func (f PolicyFilter) where() *sqlbuild.WhereBuilder {
	wb := sqlbuild.NewWhere().
		Add(f.Basis+" >= ?", f.Win.Start).
		Add(f.Basis+" < ?", f.Win.EndExclusive)
	wb = filterset.Apply(wb, f.Criteria)
	wb.AddIn("CustomerStatus", anyVals(f.Status))
	wb.AddIn("FreePolicy", anyVals(f.FreePolicy))
	return wb
}

func anyVals(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// PeriodCount is one month bucket of the policy chart
type PeriodCount struct {
	Period time.Time
	Value  int
}

// PolicyMonthly counts CRM rows per month, restricted to the same
// day-of-month window in every month
func (r *Repo) PolicyMonthly(ctx context.Context, f PolicyFilter, startDay, endDay int) ([]PeriodCount, error) {
	wb := f.where()

	query := fmt.Sprintf(`
			SELECT
				COUNT(*) AS value,
				DATEFROMPARTS(YEAR(%[1]s), MONTH(%[1]s), 1) AS PolicyReportingPeriod
			FROM CRM
			WHERE %[2]s%[3]s
			GROUP BY DATEFROMPARTS(YEAR(%[1]s), MONTH(%[1]s), 1)
			ORDER BY PolicyReportingPeriod ASC`,
		f.Basis, wb.SQL(), dayClampPredicate(f.Basis))

	args := append(wb.Params(), startDay, startDay, endDay, endDay)

	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), args...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "policy monthly")
	}
	defer rows.Close()

	var out []PeriodCount
	for rows.Next() {
		var pc PeriodCount
		if err := rows.Scan(&pc.Value, &pc.Period); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "policy monthly scan")
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "policy monthly rows")
	}
	return out, nil
}

// policySelectList is the raw CRM projection shared by the page and export
// queries; Converted is derived, Country falls back to the code
const policySelectList = `Brand,
					COALESCE(CAST(NULLIF(Country, '') AS NVARCHAR(100)), CountryCode) AS Country,
					BusinessName, BusinessType, CustomerStatus, FreePolicy, QuoteStatus,
					QuoteNumber, PolicyNumber, QuoteReceivedMethod,
					QuoteCreatedDate, QuoteStartDate, QuoteEndDate,
					OriginalPolicyStartDate, PolicyEndDate,
					FirstName, LastName, Email, ContactNo, EmailConcent,
					PetName, PetType, PetBirthDate, PetBreedId, BreedName,
					CountryCode,
					CAST(CASE WHEN PolicyNumber IS NULL THEN 0 ELSE 1 END AS BIT) AS Converted`

// PolicyPage pages the raw CRM grid with the windowed total attached
func (r *Repo) PolicyPage(ctx context.Context, f PolicyFilter, order string, startDay, endDay, skip, limit int) (int, []domain.Record, error) {
	wb := f.where()

	query := fmt.Sprintf(`
			WITH Base AS (
				SELECT
					%s
				FROM CRM
				WHERE %s%s
			)
			SELECT
				GETUTCDATE() AS DateExtracted,
				b.*,
				COUNT(*) OVER() AS TotalRecords
			FROM Base b
			ORDER BY b.%s %s, b.PolicyNumber
			OFFSET ? ROWS FETCH NEXT ? ROWS ONLY`,
		policySelectList, wb.SQL(), dayClampPredicate(f.Basis), f.Basis, order)

	args := append(wb.Params(), startDay, startDay, endDay, endDay, skip, limit)
	_, recs, err := r.grid(ctx, query, args...)
	if err != nil {
		return 0, nil, err
	}
	return popTotal(recs), recs, nil
}
