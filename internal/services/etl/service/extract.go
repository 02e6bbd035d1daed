// Package service implements the extract, transform and load stages plus the
// per-feed orchestration over the regional fleet
package service

import (
	"context"
	"time"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/sqlbuild"
	perr "petmis/internal/platform/errors"
	"petmis/internal/platform/logger"
	"petmis/internal/platform/store"
	"petmis/internal/services/etl/domain"
)

// Extractor pulls one region's feed rows over the declared window
type Extractor struct {
	log *logger.Logger
}

// NewExtractor constructs an Extractor
func NewExtractor() *Extractor {
	return &Extractor{log: logger.Named("etl.extract")}
}

// Extract runs the region's query with the window bound Arity times in
// order, then annotates the batch with the region identity columns
func (e *Extractor) Extract(ctx context.Context, db store.Querier, rg domain.Region, win datewindow.Range) (domain.Table, error) {
	start := time.Now()

	args := make([]any, 0, rg.Arity)
	for len(args) < rg.Arity {
		args = append(args, win.Start, win.End)
	}

	rows, err := db.QueryContext(ctx, sqlbuild.Rebind(rg.Query), args...)
	if err != nil {
		return domain.Table{}, perr.Wrapf(err, perr.ErrorCodeExtraction, "extract %s", rg.Code)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return domain.Table{}, perr.Wrapf(err, perr.ErrorCodeExtraction, "extract %s columns", rg.Code)
	}

	t := domain.Table{Columns: append([]string(nil), cols...)}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return domain.Table{}, perr.Wrapf(err, perr.ErrorCodeExtraction, "extract %s scan", rg.Code)
		}
		t.Rows = append(t.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, perr.Wrapf(err, perr.ErrorCodeExtraction, "extract %s rows", rg.Code)
	}

	t.SetColumn("CountryCode", rg.Code)
	t.SetColumn("CountryName", rg.Name)
	if rg.BrandOverride != "" {
		t.SetColumn("Brand", rg.BrandOverride)
	}

	e.log.Info().
		Str("region", rg.Code).
		Int("rows", len(t.Rows)).
		Dur("elapsed", time.Since(start)).
		Msg("extracted")
	return t, nil
}
