package http

import (
	"context"
	stdhttp "net/http"

	"petmis/internal/core/datewindow"
	"petmis/internal/platform/logger"
	phttp "petmis/internal/platform/net/http"
	svc "petmis/internal/services/reports/service"
)

// Register mounts the report endpoints on the given router
func Register(r phttp.Router, s *svc.Service) {
	h := &handlers{svc: s, log: logger.Named("reports.http")}

	r.Get("/quote_summary", h.quoteSummary)
	r.Get("/quote_data", h.quoteData)
	r.Get("/quote_summary_by_pet_type", h.quoteSummaryByPetType)
	r.Get("/quote_data_by_pet_type", h.quoteDataByPetType)
	r.Get("/quote_conversion_summary", h.quoteConversionSummary)
	r.Get("/quote_conversion_data", h.quoteConversionData)
	r.Get("/quote_rmth_same_period_summary", h.quoteMethodSummary)
	r.Get("/quote_rmth_same_period_report", h.quoteMethodData)

	r.Get("/sales_summary", h.salesSummary)
	r.Get("/sales_data", h.salesData)
	r.Get("/sales_by_pet_type", h.salesByPetType)
	r.Get("/sales_rmth_same_period", h.salesMethodSummary)
	r.Get("/free_policy_sales", h.freePolicySales)
	r.Get("/free_policy_data", h.freePolicyData)

	r.Get("/policy_summary", h.policySummary)
	r.Get("/policy_data", h.policyData)
}

type handlers struct {
	svc *svc.Service
	log *logger.Logger
}

// respond funnels a JSON result or its error into the envelope
func respond(w stdhttp.ResponseWriter, r *stdhttp.Request, data any, err error) {
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, data)
}

// stream runs a CSV export; on failure before any bytes went out the error
// still renders as JSON
func (h *handlers) stream(w stdhttp.ResponseWriter, r *stdhttp.Request, run func(ctx context.Context) error) {
	if err := run(r.Context()); err != nil {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("csv export failed")
		phttp.RespondError(w, r, err)
	}
}

func (h *handlers) quoteSummary(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.QuoteSummary(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) quoteData(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if qbool(r.URL.Query(), "download") {
		filename := qstr(r.URL.Query(), "filename", "quote.csv")
		h.stream(w, r, func(ctx context.Context) error {
			return h.svc.StreamQuoteCSV(ctx, w, req, filename)
		})
		return
	}
	out, err := h.svc.QuoteData(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) quoteSummaryByPetType(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.QuoteSummaryByPetType(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) quoteDataByPetType(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if qbool(r.URL.Query(), "download") {
		filename := qstr(r.URL.Query(), "filename", "quote_by_pet_type.csv")
		h.stream(w, r, func(ctx context.Context) error {
			return h.svc.StreamQuoteCSV(ctx, w, req, filename)
		})
		return
	}
	out, err := h.svc.QuoteDataByPetType(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) quoteConversionSummary(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.QuoteConversionSummary(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) quoteConversionData(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if qbool(r.URL.Query(), "download") {
		filename := qstr(r.URL.Query(), "filename", "quote_conversion.csv")
		h.stream(w, r, func(ctx context.Context) error {
			return h.svc.StreamQuoteConversionCSV(ctx, w, req, filename)
		})
		return
	}
	out, err := h.svc.QuoteConversionData(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) quoteMethodSummary(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := trendRequest(r, func() string { return monthsBack(6) })
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.QuoteMethodSummary(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) quoteMethodData(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := trendRequest(r, func() string { return monthsBack(6) })
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if qbool(r.URL.Query(), "download") {
		filename := qstr(r.URL.Query(), "filename", "quote_receive_method.csv")
		h.stream(w, r, func(ctx context.Context) error {
			return h.svc.StreamQuoteMethodCSV(ctx, w, req, filename)
		})
		return
	}
	out, err := h.svc.QuoteMethodData(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) salesSummary(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.SalesSummary(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) salesData(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if qbool(r.URL.Query(), "download") {
		filename := qstr(r.URL.Query(), "filename", "sales.csv")
		h.stream(w, r, func(ctx context.Context) error {
			return h.svc.StreamSalesCSV(ctx, w, req, filename)
		})
		return
	}
	out, err := h.svc.SalesData(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) salesByPetType(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.SalesByPetType(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) salesMethodSummary(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := trendRequest(r, func() string { return monthsBack(6) })
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.SalesMethodSummary(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) freePolicySales(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.FreePolicySales(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) freePolicyData(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := reportRequest(r, datewindow.FirstDayOfCurrentMonth)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if qbool(r.URL.Query(), "download") {
		filename := qstr(r.URL.Query(), "filename", "free_policy.csv")
		h.stream(w, r, func(ctx context.Context) error {
			return h.svc.StreamFreePolicyCSV(ctx, w, req, filename)
		})
		return
	}
	out, err := h.svc.FreePolicyData(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) policySummary(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := policyRequest(r)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	out, err := h.svc.PolicySummary(r.Context(), req)
	respond(w, r, out, err)
}

func (h *handlers) policyData(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	req := policyRequest(r)
	if err := req.Validate(); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if qbool(r.URL.Query(), "download") {
		filename := qstr(r.URL.Query(), "filename", "Policy.csv")
		h.stream(w, r, func(ctx context.Context) error {
			return h.svc.StreamPolicyCSV(ctx, w, req, filename)
		})
		return
	}
	out, err := h.svc.PolicyData(r.Context(), req)
	respond(w, r, out, err)
}
