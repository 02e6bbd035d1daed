package service

import (
	"time"

	"petmis/internal/services/etl/domain"
)

// minSQLServerDate is the floor of the datetime type; anything earlier is a
// sentinel from the source systems and loads as NULL
var minSQLServerDate = time.Date(1753, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateLayouts are the textual date shapes the regional drivers hand back
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Transform normalizes one extracted batch in place: it stamps
// ETLDateUploaded with the run date and nulls every cleanup date column
// value that is unparseable or before the SQL Server datetime floor.
func Transform(t *domain.Table, cleanup []string, now time.Time) {
	uploaded := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	t.SetColumn("ETLDateUploaded", uploaded)

	for _, col := range cleanup {
		idx := t.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		for _, row := range t.Rows {
			row[idx] = cleanDate(row[idx])
		}
	}
}

// cleanDate coerces v to a time.Time or nil
func cleanDate(v any) any {
	switch tv := v.(type) {
	case nil:
		return nil
	case time.Time:
		if tv.Before(minSQLServerDate) {
			return nil
		}
		return tv
	case string:
		return parseDate(tv)
	case []byte:
		return parseDate(string(tv))
	default:
		return nil
	}
}

func parseDate(s string) any {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Before(minSQLServerDate) {
				return nil
			}
			return t
		}
	}
	return nil
}
