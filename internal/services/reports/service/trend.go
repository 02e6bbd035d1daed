package service

import (
	"strings"
	"time"

	"petmis/internal/core/datewindow"
	"petmis/internal/services/reports/domain"
	"petmis/internal/services/reports/repo"
)

// trendPoints densifies the month counts into exactly trendMonths points
// ending at endAnchor, zero-filling months with no rows
func trendPoints(counts map[string]int, endAnchor time.Time) []domain.MonthCount {
	out := make([]domain.MonthCount, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		anchor := datewindow.AddMonths(endAnchor, -i)
		key := repo.MonthKey(anchor.Year(), int(anchor.Month()))
		out = append(out, domain.MonthCount{
			Month: datewindow.MonthLabel(anchor),
			Value: counts[key],
		})
	}
	return out
}

// normalizeMethod collapses the contact-center spellings into phone
func normalizeMethod(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "contact center" || s == "contact_center" {
		return "phone"
	}
	return s
}

// methodChart pivots the per-month method buckets into a dense web/phone
// series from startAnchor through endAnchor, and returns the totals per
// normalized method across the whole window
func methodChart(points []repo.MethodCount, startAnchor, endAnchor time.Time) ([]domain.MethodPoint, map[string]int) {
	type split struct{ web, phone int }
	byMonth := make(map[string]split)
	totals := make(map[string]int)

	for _, p := range points {
		method := normalizeMethod(p.Method)
		totals[method] += p.Value

		key := repo.MonthKey(p.Period.Year(), int(p.Period.Month()))
		s := byMonth[key]
		switch method {
		case "web":
			s.web += p.Value
		case "phone":
			s.phone += p.Value
		}
		byMonth[key] = s
	}

	var chart []domain.MethodPoint
	for anchor := startAnchor; !anchor.After(endAnchor); anchor = datewindow.AddMonths(anchor, 1) {
		key := repo.MonthKey(anchor.Year(), int(anchor.Month()))
		s := byMonth[key]
		chart = append(chart, domain.MethodPoint{
			Date:  datewindow.MonthLabel(anchor),
			Web:   s.web,
			Phone: s.phone,
		})
	}
	return chart, totals
}

// periodSplit folds a raw method/count map into the web/phone pair
func periodSplit(totals map[string]int) domain.MethodTotals {
	var out domain.MethodTotals
	for method, v := range totals {
		switch normalizeMethod(method) {
		case "web":
			out.Web += v
		case "phone":
			out.Phone += v
		}
	}
	return out
}

func sumValues(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// effectiveWindow resolves the report window. A positive months count
// overrides the start date with the trailing-window anchor month, keeping
// the requested start day where the anchor month allows it.
func effectiveWindow(req domain.ReportRequest) (win datewindow.Range, usedStart time.Time, startDay, endDay int, err error) {
	raw, err := datewindow.HalfOpen(req.StartDate, req.EndDate)
	if err != nil {
		return datewindow.Range{}, time.Time{}, 0, 0, err
	}
	startDay = raw.StartDate().Day()
	endDay = raw.EndDate().Day()

	if req.Months > 0 {
		usedStart = datewindow.TrailingStart(raw.EndDate(), req.Months, startDay)
		win, err = datewindow.FromDates(usedStart, raw.EndDate())
		if err != nil {
			return datewindow.Range{}, time.Time{}, 0, 0, err
		}
		return win, usedStart, startDay, endDay, nil
	}
	return raw, raw.StartDate(), startDay, endDay, nil
}
