package repo

import (
	"context"
	"database/sql"
	"fmt"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/filterset"
	"petmis/internal/core/sqlbuild"
	perr "petmis/internal/platform/errors"
)

// Export queries return live *sql.Rows so the CSV writer can stream result
// sets that would not fit in memory; callers own Close.

func (r *Repo) export(ctx context.Context, name, query string, args ...any) (*sql.Rows, error) {
	rows, err := r.DB.QueryContext(ctx, sqlbuild.Rebind(query), args...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "%s export", name)
	}
	return rows, nil
}

// QuoteExport streams the full quote grid for the window
func (r *Repo) QuoteExport(ctx context.Context, c filterset.Criteria, win datewindow.Range) (*sql.Rows, error) {
	wb := quoteWhere(c, win)
	query := fmt.Sprintf(`
			SELECT
				CountryName, CountryCode, Brand,
				QuoteNumber,
				CreatedDate,
				PolicyNumber,
				PolicyCreatedDate,
				%s,
				%s,
				CASE
					WHEN %s
					THEN 'No'
					ELSE 'Yes'
				END AS QuoteDetailsCompleted,
				QuoteStartDate, QuoteExpiryDate, QuoteReceivedMethod,
				FullName, Email, ContactNo,
				PetName, PetType, BreedName, PetBirthDate
			FROM Quote
			WHERE %s
			ORDER BY CreatedDate DESC, QuoteNumber`,
		quoteStatusExpr, convertedExpr, incompleteDetails, wb.SQL())
	return r.export(ctx, "quote", query, wb.Params()...)
}

// QuoteConversionExport streams the quote grid extended with policy columns
func (r *Repo) QuoteConversionExport(ctx context.Context, c filterset.Criteria, win datewindow.Range) (*sql.Rows, error) {
	wb := quoteWhere(c, win)
	query := fmt.Sprintf(`
			SELECT
				CountryName, CountryCode, Brand,
				QuoteNumber,
				%s,
				%s,
				CreatedDate AS QuoteCreatedDate, QuoteStartDate, QuoteExpiryDate, QuoteReceivedMethod,
				FullName, Email, ContactNo,
				PetName, PetType, BreedName, PetBirthDate,
				PolicyNumber, PolicyStartDate, PolicyEndDate
			FROM Quote
			WHERE %s
			ORDER BY CreatedDate DESC, QuoteNumber`,
		quoteStatusExpr, convertedExpr, wb.SQL())
	return r.export(ctx, "quote conversion", query, wb.Params()...)
}

// QuoteMethodExport streams the day-window aligned quote grid
func (r *Repo) QuoteMethodExport(ctx context.Context, c filterset.Criteria, win datewindow.Range, startDay, endDay int) (*sql.Rows, error) {
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
				b.*
			FROM Base b
			ORDER BY b.CreatedDate DESC, b.QuoteNumber`,
		quoteStatusExpr, convertedExpr, wb.SQL(), dayClampPredicate("CreatedDate"))
	args := append(wb.Params(), startDay, startDay, endDay, endDay)
	return r.export(ctx, "quote receive method", query, args...)
}

// SalesExport streams the raw sales grid
func (r *Repo) SalesExport(ctx context.Context, c filterset.Criteria, win datewindow.Range) (*sql.Rows, error) {
	wb := salesWhere(c, win)
	query := `
			SELECT
				CountryName, CountryCode, Brand,
				QuoteNumber,
				CreatedDate, ActualStartDate,
				ProductName, PetType, ClientName,
				PetName, SaleMethod, PolicyNumber
			FROM Sales
			WHERE ` + wb.SQL() + `
			ORDER BY CreatedDate DESC`
	return r.export(ctx, "sales", query, wb.Params()...)
}

// FreePolicyExport streams the raw free policy grid
func (r *Repo) FreePolicyExport(ctx context.Context, c filterset.Criteria, win datewindow.Range) (*sql.Rows, error) {
	wb := salesWhere(c, win)
	query := fmt.Sprintf(`
			SELECT
				CountryCode, CountryName, CreatedDate, QuoteNumber, PolicyNumber,
				SubAgentName, AgentCategoryId,
				%s,
				PetType, ProductName, StateName,
				SaleMethod, PolicyStatusName, Brand
			FROM FreePolicySales
			WHERE %s
			ORDER BY CreatedDate DESC`, agentCategoryExpr, wb.SQL())
	return r.export(ctx, "free policy", query, wb.Params()...)
}

// PolicyExport streams the raw CRM grid with the day clamp applied
func (r *Repo) PolicyExport(ctx context.Context, f PolicyFilter, order string, startDay, endDay int) (*sql.Rows, error) {
	wb := f.where()
	query := fmt.Sprintf(`
			SELECT
				GETUTCDATE() AS DateExtracted,
				%s
			FROM CRM
			WHERE %s%s
			ORDER BY %s %s, PolicyNumber`,
		policySelectList, wb.SQL(), dayClampPredicate(f.Basis), f.Basis, order)
	args := append(wb.Params(), startDay, startDay, endDay, endDay)
	return r.export(ctx, "policy", query, args...)
}
