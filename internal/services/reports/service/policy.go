package service

import (
	"context"
	"strings"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/filterset"
	"petmis/internal/core/sqlbuild"
	"petmis/internal/services/reports/domain"
	"petmis/internal/services/reports/repo"
)

// policyFilter resolves the policy request into the repo predicate set
func policyFilter(req domain.PolicyRequest, win datewindow.Range) repo.PolicyFilter {
	return repo.PolicyFilter{
		Basis:      sqlbuild.DateBasis(req.DateBasis),
		Win:        win,
		Criteria:   filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes),
		Status:     statusFilter(req.PolicyStatus),
		FreePolicy: freePolicyFilter(req.PolicyType),
	}
}

// statusFilter keeps the status as-is unless it is the "all" wildcard
func statusFilter(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil
	}
	return []string{raw}
}

// freePolicyFilter maps yes/no onto the stored FreePolicy values
func freePolicyFilter(raw string) []string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return []string{"Yes"}
	case "no":
		return []string{"No"}
	default:
		return nil
	}
}

// PolicySummary charts monthly policy counts over the effective window,
// aligned to the requested day-of-month window in every month
func (s *Service) PolicySummary(ctx context.Context, req domain.PolicyRequest) (domain.PolicySummary, error) {
	win, _, startDay, endDay, err := effectiveWindow(req.ReportRequest)
	if err != nil {
		return domain.PolicySummary{}, err
	}
	f := policyFilter(req, win)

	rows, err := s.Repo.PolicyMonthly(ctx, f, startDay, endDay)
	if err != nil {
		return domain.PolicySummary{}, err
	}

	// densify between the first and last month that actually have data
	chart := []domain.DateCount{}
	total := 0
	if len(rows) > 0 {
		counts := make(map[string]int, len(rows))
		first := datewindow.MonthAnchor(rows[0].Period)
		last := first
		for _, r := range rows {
			anchor := datewindow.MonthAnchor(r.Period)
			counts[repo.MonthKey(anchor.Year(), int(anchor.Month()))] = r.Value
			if anchor.Before(first) {
				first = anchor
			}
			if anchor.After(last) {
				last = anchor
			}
			total += r.Value
		}
		for anchor := first; !anchor.After(last); anchor = datewindow.AddMonths(anchor, 1) {
			key := repo.MonthKey(anchor.Year(), int(anchor.Month()))
			chart = append(chart, domain.DateCount{
				Date:  datewindow.MonthLabel(anchor),
				Count: counts[key],
			})
		}
	}

	return domain.PolicySummary{
		Meta: domain.PolicyMeta{
			StartDate:      win.Start,
			EndDate:        win.End,
			Months:         req.Months,
			WindowStartDay: startDay,
			WindowEndDay:   endDay,
			DateBasis:      f.Basis,
			Regions:        f.Criteria.Countries,
			PolicyStatus:   f.Status,
			PolicyType:     f.FreePolicy,
			GeneratedAt:    s.generatedAt(),
		},
		Chart:         chart,
		TotalPolicies: total,
	}, nil
}

// PolicyData pages the raw CRM grid
func (s *Service) PolicyData(ctx context.Context, req domain.PolicyRequest) (domain.PolicyPage, error) {
	req.ClampPage()
	win, _, startDay, endDay, err := effectiveWindow(req.ReportRequest)
	if err != nil {
		return domain.PolicyPage{}, err
	}
	f := policyFilter(req, win)
	order := sqlbuild.Order(req.Order)

	total, recs, err := s.Repo.PolicyPage(ctx, f, order, startDay, endDay, req.Skip, req.Limit)
	if err != nil {
		return domain.PolicyPage{}, err
	}

	return domain.PolicyPage{
		Meta: domain.PolicyMeta{
			StartDate:      win.Start,
			EndDate:        win.End,
			Months:         req.Months,
			WindowStartDay: startDay,
			WindowEndDay:   endDay,
			DayCutoff:      endDay,
			DateBasis:      f.Basis,
			Regions:        f.Criteria.Countries,
			PolicyStatus:   f.Status,
			PolicyType:     f.FreePolicy,
			Order:          order,
			GeneratedAt:    s.generatedAt(),
		},
		DataPage: dataPage(total, req.ReportRequest, recs),
	}, nil
}
