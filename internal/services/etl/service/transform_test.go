package service

import (
	"testing"
	"time"

	"petmis/internal/services/etl/domain"
)

func TestTransformStampsUploadDate(t *testing.T) {
	tb := domain.Table{
		Columns: []string{"QuoteNumber"},
		Rows:    [][]any{{"Q1"}},
	}
	now := time.Date(2025, 8, 30, 14, 22, 5, 0, time.UTC)
	Transform(&tb, nil, now)

	idx := tb.ColumnIndex("ETLDateUploaded")
	if idx < 0 {
		t.Fatal("ETLDateUploaded not added")
	}
	got, ok := tb.Rows[0][idx].(time.Time)
	if !ok {
		t.Fatalf("stamp is %T", tb.Rows[0][idx])
	}
	want := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("stamp = %s, want midnight %s", got, want)
	}
}

func TestTransformNullsSentinelDates(t *testing.T) {
	sentinel := time.Date(1752, 12, 31, 0, 0, 0, 0, time.UTC)
	valid := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tb := domain.Table{
		Columns: []string{"PolicyStartDate"},
		Rows: [][]any{
			{sentinel},
			{valid},
			{"1700-01-01"},
			{"2025-06-01 10:30:00"},
			{"not a date"},
			{nil},
			{[]byte("2025-06-02")},
		},
	}
	Transform(&tb, []string{"PolicyStartDate"}, time.Now())

	idx := tb.ColumnIndex("PolicyStartDate")
	if tb.Rows[0][idx] != nil {
		t.Fatalf("pre-1753 time survived: %v", tb.Rows[0][idx])
	}
	if got, ok := tb.Rows[1][idx].(time.Time); !ok || !got.Equal(valid) {
		t.Fatalf("valid time changed: %v", tb.Rows[1][idx])
	}
	if tb.Rows[2][idx] != nil {
		t.Fatalf("pre-1753 string survived: %v", tb.Rows[2][idx])
	}
	if got, ok := tb.Rows[3][idx].(time.Time); !ok || got.Year() != 2025 {
		t.Fatalf("datetime string not parsed: %v", tb.Rows[3][idx])
	}
	if tb.Rows[4][idx] != nil {
		t.Fatalf("garbage survived: %v", tb.Rows[4][idx])
	}
	if tb.Rows[5][idx] != nil {
		t.Fatalf("nil changed: %v", tb.Rows[5][idx])
	}
	if got, ok := tb.Rows[6][idx].(time.Time); !ok || got.Day() != 2 {
		t.Fatalf("byte date not parsed: %v", tb.Rows[6][idx])
	}
}

func TestTransformIgnoresMissingCleanupColumn(t *testing.T) {
	tb := domain.Table{
		Columns: []string{"QuoteNumber"},
		Rows:    [][]any{{"Q1"}},
	}
	// the DE feed lacks some of the shared cleanup columns
	Transform(&tb, []string{"NoSuchColumn"}, time.Now())
	if tb.Rows[0][0] != "Q1" {
		t.Fatalf("row mutated: %v", tb.Rows[0])
	}
}
