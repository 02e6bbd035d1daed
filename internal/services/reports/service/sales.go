package service

import (
	"context"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/filterset"
	"petmis/internal/services/reports/domain"
)

// SalesSummary builds the 13-month policy sales trend
func (s *Service) SalesSummary(ctx context.Context, req domain.ReportRequest) (domain.SalesSummary, error) {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.SalesSummary{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	start := win.StartDate()
	end := win.EndDate()
	prevStart := datewindow.AddMonths(start, -1)
	prevEnd := datewindow.AddMonths(end, -1)

	endAnchor := datewindow.MonthAnchor(end)
	oldestAnchor := datewindow.AddMonths(endAnchor, -12)
	upperExclusive := datewindow.AddMonths(endAnchor, 1)
	sameMonth := datewindow.SameCalendarMonth(start, end)
	startDay := start.Day()
	endDay := end.Day()

	counts, err := s.Repo.SalesTrend(ctx, c,
		oldestAnchor.Format(datewindow.ISO), upperExclusive.Format(datewindow.ISO),
		sameMonth, startDay, endDay)
	if err != nil {
		return domain.SalesSummary{}, err
	}

	return domain.SalesSummary{
		Meta: domain.TrendMeta{
			StartDate:      win.Start,
			EndDate:        win.End,
			PrevStartDate:  prevStart.Format(datewindow.ISO),
			PrevEndDate:    prevEnd.Format(datewindow.ISO),
			CountryCodes:   c.Countries,
			GeneratedAt:    s.generatedAt(),
			LTMStartDate:   oldestAnchor.Format(datewindow.ISO),
			LTMEndDate:     upperExclusive.AddDate(0, 0, -1).Format(datewindow.ISO),
			LTMPeriodCount: trendMonths,
			DayWindow:      domain.DayWindow{StartDay: startDay, EndDay: endDay},
		},
		GraphData: trendPoints(counts, endAnchor),
	}, nil
}

// SalesData pages the raw sales grid
func (s *Service) SalesData(ctx context.Context, req domain.ReportRequest) (domain.DataPage, error) {
	req.ClampPage()
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DataPage{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	total, recs, err := s.Repo.SalesPage(ctx, c, win, req.Skip, req.Limit)
	if err != nil {
		return domain.DataPage{}, err
	}
	return dataPage(total, req, recs), nil
}

// SalesByPetType groups policy sales into pet categories
func (s *Service) SalesByPetType(ctx context.Context, req domain.ReportRequest) (domain.PetTypeSummary, error) {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.PetTypeSummary{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	rows, err := s.Repo.SalesByPetType(ctx, c, win)
	if err != nil {
		return domain.PetTypeSummary{}, err
	}
	return s.petTypeSummary(win, c, rows), nil
}

// FreePolicySales slices free policy sales by status, pet type and channel.
// The grand total is the status slice sum; the three slices partition the
// same base so any of them would do.
func (s *Service) FreePolicySales(ctx context.Context, req domain.ReportRequest) (domain.FreePolicyBreakdown, error) {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.FreePolicyBreakdown{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	byStatus, byPet, byChannel, err := s.Repo.FreePolicySlices(ctx, c, win)
	if err != nil {
		return domain.FreePolicyBreakdown{}, err
	}

	total := 0
	for _, slice := range byStatus {
		total += slice.Value
	}
	if byStatus == nil {
		byStatus = []domain.PctSlice{}
	}
	if byPet == nil {
		byPet = []domain.PctSlice{}
	}
	if byChannel == nil {
		byChannel = []domain.PctSlice{}
	}

	return domain.FreePolicyBreakdown{
		Meta: domain.FreePolicyMeta{
			StartDate:    win.Start,
			EndDate:      win.End,
			CountryCodes: c.Countries,
			Brands:       c.Brands,
			PetTypes:     c.Pets,
			GeneratedAt:  s.generatedAt(),
		},
		ByStatus:  byStatus,
		ByPetType: byPet,
		ByChannel: byChannel,
		Total:     total,
	}, nil
}

// FreePolicyData pages the raw free policy grid
func (s *Service) FreePolicyData(ctx context.Context, req domain.ReportRequest) (domain.DataPage, error) {
	req.ClampPage()
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DataPage{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	total, recs, err := s.Repo.FreePolicyPage(ctx, c, win, req.Skip, req.Limit)
	if err != nil {
		return domain.DataPage{}, err
	}
	return dataPage(total, req, recs), nil
}

// SalesMethodSummary builds the web/phone sales channel trend
func (s *Service) SalesMethodSummary(ctx context.Context, req domain.ReportRequest) (domain.SalesMethodSummary, error) {
	win, usedStart, startDay, endDay, err := effectiveWindow(req)
	if err != nil {
		return domain.SalesMethodSummary{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	raw, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.SalesMethodSummary{}, err
	}
	sameMonth := datewindow.SameCalendarMonth(raw.StartDate(), raw.EndDate())

	monthly, err := s.Repo.SalesMethodMonthly(ctx, c, win, sameMonth, startDay, endDay)
	if err != nil {
		return domain.SalesMethodSummary{}, err
	}

	out := domain.SalesMethodSummary{
		MethodSummary: domain.MethodSummary{
			Meta: domain.MethodMeta{
				StartDate:      win.Start,
				EndDate:        win.End,
				CountryCodes:   c.Countries,
				GeneratedAt:    s.generatedAt(),
				Months:         req.Months,
				WindowStartDay: startDay,
				WindowEndDay:   endDay,
			},
			Chart:          []domain.MethodPoint{},
			TotalsByMethod: map[string]int{},
		},
	}
	if len(monthly) == 0 {
		return out, nil
	}

	chart, totals := methodChart(monthly,
		datewindow.MonthAnchor(usedStart), datewindow.MonthAnchor(win.EndDate()))
	out.Chart = chart
	out.TotalsByMethod = totals
	out.TotalSales = sumValues(totals)

	periodTotals, err := s.Repo.SalesMethodTotals(ctx, c, raw)
	if err != nil {
		return domain.SalesMethodSummary{}, err
	}
	out.CurrentPeriodTotal = periodSplit(periodTotals)
	return out, nil
}
