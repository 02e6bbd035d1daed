package service

import (
	"context"
	"math"
	"strconv"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/filterset"
	"petmis/internal/services/reports/domain"
)

// QuoteSummary assembles the headline quote KPIs, the previous-period
// comparison, the completeness percentage and the 13-month trend
func (s *Service) QuoteSummary(ctx context.Context, req domain.ReportRequest) (domain.QuoteSummary, error) {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.QuoteSummary{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	start := win.StartDate()
	end := win.EndDate()

	// previous period is the same window shifted back one month, clamped
	prevStart := datewindow.AddMonths(start, -1)
	prevEnd := datewindow.AddMonths(end, -1)
	prevStartStr := prevStart.Format(datewindow.ISO)
	prevEndExclusive := prevEnd.AddDate(0, 0, 1).Format(datewindow.ISO)

	kpis, err := s.Repo.QuoteKPIs(ctx, c, win, prevStartStr, prevEndExclusive, s.today())
	if err != nil {
		return domain.QuoteSummary{}, err
	}

	endAnchor := datewindow.MonthAnchor(end)
	oldestAnchor := datewindow.AddMonths(endAnchor, -12)
	upperExclusive := datewindow.AddMonths(endAnchor, 1)
	sameMonth := datewindow.SameCalendarMonth(start, end)
	startDay := start.Day()
	endDay := end.Day()

	counts, err := s.Repo.QuoteTrend(ctx, c,
		oldestAnchor.Format(datewindow.ISO), upperExclusive.Format(datewindow.ISO),
		sameMonth, startDay, endDay)
	if err != nil {
		return domain.QuoteSummary{}, err
	}

	return domain.QuoteSummary{
		Meta: domain.TrendMeta{
			StartDate:      win.Start,
			EndDate:        win.End,
			PrevStartDate:  prevStartStr,
			PrevEndDate:    prevEnd.Format(datewindow.ISO),
			CountryCodes:   c.Countries,
			GeneratedAt:    s.generatedAt(),
			LTMStartDate:   oldestAnchor.Format(datewindow.ISO),
			LTMEndDate:     upperExclusive.AddDate(0, 0, -1).Format(datewindow.ISO),
			LTMPeriodCount: trendMonths,
			DayWindow:      domain.DayWindow{StartDay: startDay, EndDay: endDay},
		},
		CurrentPeriodTotalQuotes: kpis.CurrentTotal,
		LastPeriodTotalQuotes:    kpis.PrevTotal,
		LiveQuotes:               kpis.Live,
		LapsedQuotes:             kpis.Lapsed,
		IncompleteQuoteDetails:   kpis.Incomplete,
		QuotesCompleteness:       completeness(kpis.CurrentTotal, kpis.Incomplete),
		GraphData:                trendPoints(counts, endAnchor),
	}, nil
}

// completeness renders the share of fully filled-in quotes to one decimal,
// dropping the fraction when it is whole ("98", "97.5")
func completeness(total, incomplete int) string {
	if total == 0 {
		return "0"
	}
	pct := math.Round(float64(total-incomplete)/float64(total)*1000) / 10
	return strconv.FormatFloat(pct, 'f', -1, 64)
}

// QuoteData pages the raw quote grid
func (s *Service) QuoteData(ctx context.Context, req domain.ReportRequest) (domain.DataPage, error) {
	req.ClampPage()
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DataPage{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	total, recs, err := s.Repo.QuotePage(ctx, c, win, req.Skip, req.Limit)
	if err != nil {
		return domain.DataPage{}, err
	}
	return dataPage(total, req, recs), nil
}

// QuoteSummaryByPetType groups quotes into pet categories
func (s *Service) QuoteSummaryByPetType(ctx context.Context, req domain.ReportRequest) (domain.PetTypeSummary, error) {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.PetTypeSummary{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	rows, err := s.Repo.QuoteByPetType(ctx, c, win)
	if err != nil {
		return domain.PetTypeSummary{}, err
	}
	return s.petTypeSummary(win, c, rows), nil
}

// QuoteDataByPetType pages the quote grid without the completeness column
func (s *Service) QuoteDataByPetType(ctx context.Context, req domain.ReportRequest) (domain.DataPage, error) {
	req.ClampPage()
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DataPage{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	total, recs, err := s.Repo.QuotePetTypePage(ctx, c, win, req.Skip, req.Limit)
	if err != nil {
		return domain.DataPage{}, err
	}
	return dataPage(total, req, recs), nil
}

// QuoteConversionSummary computes the converted / not-converted split
func (s *Service) QuoteConversionSummary(ctx context.Context, req domain.ReportRequest) (domain.ConversionSummary, error) {
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.ConversionSummary{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	total, converted, err := s.Repo.ConversionTotals(ctx, c, win)
	if err != nil {
		return domain.ConversionSummary{}, err
	}

	var pct, notPct float64
	if total > 0 {
		pct = math.Round(float64(converted)/float64(total)*10000) / 100
		notPct = math.Round((100.0-pct)*100) / 100
	}
	notConverted := total - converted
	if notConverted < 0 {
		notConverted = 0
	}

	return domain.ConversionSummary{
		TotalQuotes:         total,
		Converted:           converted,
		ConversionPercent:   pct,
		NotConverted:        notConverted,
		NotConvertedPercent: notPct,
		Breakdown: []domain.ConversionSlice{
			{Name: "Converted", Value: converted, Percent: pct},
			{Name: "Not Converted", Value: notConverted, Percent: notPct},
		},
		Meta: domain.ConversionMeta{
			StartDate:    win.Start,
			EndDate:      win.End,
			CountryCodes: c.Countries,
		},
	}, nil
}

// QuoteConversionData pages the quote grid extended with policy columns
func (s *Service) QuoteConversionData(ctx context.Context, req domain.ReportRequest) (domain.DataPage, error) {
	req.ClampPage()
	win, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.DataPage{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	total, recs, err := s.Repo.ConversionPage(ctx, c, win, req.Skip, req.Limit)
	if err != nil {
		return domain.DataPage{}, err
	}
	return dataPage(total, req, recs), nil
}

// QuoteMethodSummary builds the web/phone channel trend with the trailing
// months anchor and the current-window split
func (s *Service) QuoteMethodSummary(ctx context.Context, req domain.ReportRequest) (domain.QuoteMethodSummary, error) {
	win, usedStart, startDay, endDay, err := effectiveWindow(req)
	if err != nil {
		return domain.QuoteMethodSummary{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	raw, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return domain.QuoteMethodSummary{}, err
	}
	sameMonth := datewindow.SameCalendarMonth(raw.StartDate(), raw.EndDate())

	monthly, err := s.Repo.QuoteMethodMonthly(ctx, c, win, sameMonth, startDay, endDay)
	if err != nil {
		return domain.QuoteMethodSummary{}, err
	}

	out := domain.QuoteMethodSummary{
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
	out.TotalQuotes = sumValues(totals)

	// the current-period split uses the caller's original window, not the
	// trailing-months anchor
	periodTotals, err := s.Repo.QuoteMethodTotals(ctx, c, raw)
	if err != nil {
		return domain.QuoteMethodSummary{}, err
	}
	out.CurrentPeriodTotal = periodSplit(periodTotals)
	return out, nil
}

// QuoteMethodData pages the day-window aligned quote grid
func (s *Service) QuoteMethodData(ctx context.Context, req domain.ReportRequest) (domain.MethodPage, error) {
	req.ClampPage()
	win, _, startDay, endDay, err := effectiveWindow(req)
	if err != nil {
		return domain.MethodPage{}, err
	}
	c := filterset.FromQuery(req.CountryCodes, req.Brands, req.PetTypes)

	total, recs, err := s.Repo.QuoteMethodPage(ctx, c, win, startDay, endDay, req.Skip, req.Limit)
	if err != nil {
		return domain.MethodPage{}, err
	}
	return domain.MethodPage{
		DataPage:     dataPage(total, req, recs),
		StartDate:    win.Start,
		EndDate:      win.End,
		CountryCodes: c.Countries,
	}, nil
}

// petTypeSummary is shared by the quote and sales groupings
func (s *Service) petTypeSummary(win datewindow.Range, c filterset.Criteria, rows []domain.NamedCount) domain.PetTypeSummary {
	if rows == nil {
		rows = []domain.NamedCount{}
	}
	totals := make(map[string]int, len(rows))
	grand := 0
	for _, r := range rows {
		totals[r.Name] = r.Value
		grand += r.Value
	}
	return domain.PetTypeSummary{
		Meta: domain.RangeMeta{
			StartDate:    win.Start,
			EndDate:      win.End,
			CountryCodes: c.Countries,
			GeneratedAt:  s.generatedAt(),
		},
		Summary:     rows,
		TotalsByPet: totals,
		Total:       grand,
	}
}

func dataPage(total int, req domain.ReportRequest, recs []domain.Record) domain.DataPage {
	if recs == nil {
		recs = []domain.Record{}
	}
	return domain.DataPage{Total: total, Skip: req.Skip, Limit: req.Limit, Data: recs}
}
