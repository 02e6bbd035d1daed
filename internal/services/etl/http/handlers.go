// Package http provides http transport for the ETL triggers
package http

import (
	stdhttp "net/http"

	"petmis/internal/core/datewindow"
	phttp "petmis/internal/platform/net/http"
	"petmis/internal/services/etl/domain"
	svc "petmis/internal/services/etl/service"
)

// defaultWindowDays is the reload window when no dates are supplied
const defaultWindowDays = 365

// Register mounts the ETL trigger endpoints on the given router.
// Triggers mutate the MIS store, hence POST.
func Register(r phttp.Router, s *svc.Service) {
	h := &handlers{svc: s}

	r.Post("/run", phttp.Handle(h.runAll))
	r.Post("/quote", phttp.Handle(h.runKind(domain.KindQuote)))
	r.Post("/sales", phttp.Handle(h.runKind(domain.KindSales)))
	r.Post("/free-policy", phttp.Handle(h.runKind(domain.KindFreePolicy)))
}

type handlers struct{ svc *svc.Service }

// window parses the optional start_date/end_date query params, defaulting to
// the trailing year ending today
func window(r *stdhttp.Request) (datewindow.Range, error) {
	q := r.URL.Query()
	start := q.Get("start_date")
	if start == "" {
		start = datewindow.DaysAgo(defaultWindowDays)
	}
	end := q.Get("end_date")
	if end == "" {
		end = datewindow.Today()
	}
	return datewindow.HalfOpen(start, end)
}

func (h *handlers) runAll(r *stdhttp.Request) phttp.Response {
	win, err := window(r)
	if err != nil {
		return phttp.Error(err)
	}
	results, err := h.svc.RunAll(r.Context(), win)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(map[string]any{
		"start_date": win.Start,
		"end_date":   win.End,
		"results":    results,
	})
}

func (h *handlers) runKind(kind domain.Kind) func(*stdhttp.Request) phttp.Response {
	return func(r *stdhttp.Request) phttp.Response {
		win, err := window(r)
		if err != nil {
			return phttp.Error(err)
		}
		res, err := h.svc.Run(r.Context(), kind, win)
		if err != nil {
			return phttp.Error(err)
		}
		return phttp.OK(res)
	}
}
