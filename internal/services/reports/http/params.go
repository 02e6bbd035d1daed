// Package http provides the report endpoints: JSON summaries and grids,
// with CSV download variants on the data endpoints
package http

import (
	stdhttp "net/http"
	"net/url"
	"strconv"
	"time"

	"petmis/internal/core/datewindow"
	"petmis/internal/services/reports/domain"
)

// defaultHistoricalMonths is the trend depth the channel and policy charts
// show when the caller does not ask for one
const defaultHistoricalMonths = 7

func qstr(q url.Values, key, def string) string {
	if v := q.Get(key); v != "" {
		return v
	}
	return def
}

func qint(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func qbool(q url.Values, key string) bool {
	b, err := strconv.ParseBool(q.Get(key))
	return err == nil && b
}

// monthsBack returns the month anchor n months before today as ISO
func monthsBack(n int) string {
	return datewindow.AddMonths(datewindow.MonthAnchor(time.Now()), -n).Format(datewindow.ISO)
}

// reportRequest parses the shared filter set, defaulting the window to
// month-to-date unless the endpoint supplies its own start default
func reportRequest(r *stdhttp.Request, defaultStart func() string) domain.ReportRequest {
	q := r.URL.Query()
	req := domain.ReportRequest{
		StartDate:    qstr(q, "start_date", defaultStart()),
		EndDate:      qstr(q, "end_date", datewindow.Today()),
		CountryCodes: qstr(q, "country_codes", "all"),
		Brands:       qstr(q, "brands", "all"),
		PetTypes:     qstr(q, "pet_types", "all"),
		Skip:         qint(q, "skip", 0),
		Limit:        qint(q, "limit", domain.DefaultLimit),
	}
	req.ClampPage()
	return req
}

// trendRequest additionally reads the historical depth
func trendRequest(r *stdhttp.Request, defaultStart func() string) domain.ReportRequest {
	req := reportRequest(r, defaultStart)
	req.Months = qint(r.URL.Query(), "historical_months", defaultHistoricalMonths)
	return req
}

// policyRequest parses the policy-only knobs on top of the shared set.
// Policy endpoints filter regions rather than country codes by name.
func policyRequest(r *stdhttp.Request) domain.PolicyRequest {
	q := r.URL.Query()
	req := domain.PolicyRequest{
		ReportRequest: domain.ReportRequest{
			StartDate:    qstr(q, "start_date", monthsBack(12)),
			EndDate:      qstr(q, "end_date", datewindow.Today()),
			CountryCodes: qstr(q, "regions", "all"),
			Brands:       qstr(q, "brands", "all"),
			PetTypes:     qstr(q, "pet_types", "all"),
			Skip:         qint(q, "skip", 0),
			Limit:        qint(q, "limit", domain.DefaultLimit),
			Months:       qint(q, "historical_months", defaultHistoricalMonths),
		},
		PolicyStatus: qstr(q, "policy_status", "All"),
		PolicyType:   qstr(q, "free_policy", "All"),
		DateBasis:    qstr(q, "date_basis", "QuoteCreatedDate"),
		Order:        qstr(q, "order", "DESC"),
	}
	req.ClampPage()
	return req
}
