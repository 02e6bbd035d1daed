package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	stdhttp "net/http"
	"strings"
	"time"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/filterset"
	"petmis/internal/core/sqlbuild"
	perr "petmis/internal/platform/errors"
	"petmis/internal/services/reports/domain"
)

// csvFlushRows is how many data rows go out between flushes so large
// exports stream instead of buffering server-side
const csvFlushRows = 5000

// exportFilename stamps the effective window into the download name
func exportFilename(base string, win datewindow.Range) string {
	base = strings.TrimSuffix(base, ".csv")
	return fmt.Sprintf("%s_%s_to_%s.csv", base, win.Start, win.End)
}

// policyExportFilename additionally records the day window
func policyExportFilename(base string, win datewindow.Range, startDay, endDay int) string {
	base = strings.TrimSuffix(base, ".csv")
	return fmt.Sprintf("%s_d%d-%d_%s_to_%s.csv", base, startDay, endDay, win.Start, win.End)
}

// writeCSV streams rows to w as a CSV attachment, flushing in batches
func (s *Service) writeCSV(w stdhttp.ResponseWriter, rows *sql.Rows, filename string) error {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "export columns")
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	flusher, _ := w.(stdhttp.Flusher)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "export header")
	}

	record := make([]string, len(cols))
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "export scan")
		}
		for i, v := range vals {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "export row")
		}
		n++
		if n%csvFlushRows == 0 {
			cw.Flush()
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
	if err := rows.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "export rows")
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "export flush")
	}
	if flusher != nil {
		flusher.Flush()
	}
	s.log.Debug().Str("filename", filename).Int("rows", n).Msg("csv export streamed")
	return nil
}

func formatCell(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(tv)
	case string:
		return tv
	case time.Time:
		return tv.Format("2006-01-02 15:04:05")
	case bool:
		if tv {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(tv)
	}
}

// StreamQuoteCSV exports the full quote grid
func (s *Service) StreamQuoteCSV(ctx context.Context, w stdhttp.ResponseWriter, req domain.ReportRequest, filename string) error {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)
	rows, err := s.Repo.QuoteExport(ctx, c, win)
	if err != nil {
		return err
	}
	return s.writeCSV(w, rows, exportFilename(filename, win))
}

// StreamQuoteConversionCSV exports the quote grid with policy columns
func (s *Service) StreamQuoteConversionCSV(ctx context.Context, w stdhttp.ResponseWriter, req domain.ReportRequest, filename string) error {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)
	rows, err := s.Repo.QuoteConversionExport(ctx, c, win)
	if err != nil {
		return err
	}
	return s.writeCSV(w, rows, exportFilename(filename, win))
}

// StreamQuoteMethodCSV exports the day-window aligned quote grid
func (s *Service) StreamQuoteMethodCSV(ctx context.Context, w stdhttp.ResponseWriter, req domain.ReportRequest, filename string) error {
	win, _, startDay, endDay, err := effectiveWindow(req)
	if err != nil {
		return err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)
	rows, err := s.Repo.QuoteMethodExport(ctx, c, win, startDay, endDay)
	if err != nil {
		return err
	}
	return s.writeCSV(w, rows, exportFilename(filename, win))
}

// StreamSalesCSV exports the raw sales grid
func (s *Service) StreamSalesCSV(ctx context.Context, w stdhttp.ResponseWriter, req domain.ReportRequest, filename string) error {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)
	rows, err := s.Repo.SalesExport(ctx, c, win)
	if err != nil {
		return err
	}
	return s.writeCSV(w, rows, exportFilename(filename, win))
}

// StreamFreePolicyCSV exports the raw free policy grid
func (s *Service) StreamFreePolicyCSV(ctx context.Context, w stdhttp.ResponseWriter, req domain.ReportRequest, filename string) error {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)
	rows, err := s.Repo.FreePolicyExport(ctx, c, win)
	if err != nil {
		return err
	}
	return s.writeCSV(w, rows, exportFilename(filename, win))
}

// StreamPolicyCSV exports the raw CRM grid
func (s *Service) StreamPolicyCSV(ctx context.Context, w stdhttp.ResponseWriter, req domain.PolicyRequest, filename string) error {
	win, _, startDay, endDay, err := effectiveWindow(req.ReportRequest)
	if err != nil {
		return err
	}
	f := policyFilter(req, win)
	order := sqlbuild.Order(req.Order)
	rows, err := s.Repo.PolicyExport(ctx, f, order, startDay, endDay)
	if err != nil {
		return err
	}
	return s.writeCSV(w, rows, policyExportFilename(filename, win, startDay, endDay))
}
