package service

import (
	"testing"
	"time"

	"petmis/internal/core/datewindow"
)

func TestExportFilename(t *testing.T) {
	win, err := datewindow.HalfOpen("2025-06-01", "2025-06-30")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if got := exportFilename("quote.csv", win); got != "quote_2025-06-01_to_2025-06-30.csv" {
		t.Fatalf("exportFilename = %q", got)
	}
	// the .csv suffix is optional on the way in
	if got := exportFilename("sales", win); got != "sales_2025-06-01_to_2025-06-30.csv" {
		t.Fatalf("exportFilename = %q", got)
	}
}

func TestPolicyExportFilename(t *testing.T) {
	win, err := datewindow.HalfOpen("2025-03-05", "2025-08-20")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	got := policyExportFilename("Policy.csv", win, 5, 20)
	if got != "Policy_d5-20_2025-03-05_to_2025-08-20.csv" {
		t.Fatalf("policyExportFilename = %q", got)
	}
}

func TestFormatCell(t *testing.T) {
	ts := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{[]byte("bytes"), "bytes"},
		{ts, "2025-06-02 10:30:00"},
		{true, "True"},
		{false, "False"},
		{int64(7), "7"},
		{3.5, "3.5"},
	}
	for _, tc := range cases {
		if got := formatCell(tc.in); got != tc.want {
			t.Fatalf("formatCell(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
