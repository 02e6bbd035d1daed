package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"petmis/internal/core/sqlbuild"
	"petmis/internal/services/reports/domain"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mockRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(2025, 6); got != "2025-06" {
		t.Fatalf("MonthKey = %q", got)
	}
	if got := MonthKey(999, 12); got != "0999-12" {
		t.Fatalf("MonthKey = %q", got)
	}
}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{int64(7), 7},
		{int32(7), 7},
		{7, 7},
		{7.0, 7},
		{nil, 0}, // SUM over an empty table yields NULL
		{"7", 0},
	}
	for _, tc := range cases {
		if got := toInt(tc.in); got != tc.want {
			t.Fatalf("toInt(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{3.5, 3.5},
		{[]byte("42.1"), 42.1}, // DECIMAL comes back as bytes from the driver
		{"17.0", 17.0},
		{int64(9), 9},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := toFloat(tc.in); got != tc.want {
			t.Fatalf("toFloat(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPopTotal(t *testing.T) {
	recs := []domain.Record{
		{"QuoteNumber": "Q1", "TotalRecords": int64(240)},
		{"QuoteNumber": "Q2", "TotalRecords": int64(240)},
	}
	total := popTotal(recs)
	if total != 240 {
		t.Fatalf("total = %d", total)
	}
	for _, rec := range recs {
		if _, ok := rec["TotalRecords"]; ok {
			t.Fatalf("TotalRecords not removed: %v", rec)
		}
	}
	if got := popTotal(nil); got != 0 {
		t.Fatalf("popTotal(nil) = %d", got)
	}
}

func TestGridNormalizesBytes(t *testing.T) {
	r, mock := mockRepo(t)
	mock.ExpectQuery("SELECT QuoteNumber, Brand").
		WillReturnRows(sqlmock.NewRows([]string{"QuoteNumber", "Brand"}).
			AddRow([]byte("Q1"), "bb").
			AddRow([]byte("Q2"), nil))

	cols, recs, err := r.grid(context.Background(), "SELECT QuoteNumber, Brand FROM Quote")
	require.NoError(t, err)
	require.Equal(t, []string{"QuoteNumber", "Brand"}, cols)
	require.Equal(t, "Q1", recs[0]["QuoteNumber"], "byte slices must become strings")
	require.Nil(t, recs[1]["Brand"])
}

func TestMonthlyCountsParamOrder(t *testing.T) {
	r, mock := mockRepo(t)
	wb := sqlbuild.NewWhere().Add("UPPER(CountryCode) = ?", "NZ")

	// filter params first, then window bounds, then the wraparound day
	// window bound three times
	mock.ExpectQuery("GROUP BY YEAR\\(CreatedDate\\), MONTH\\(CreatedDate\\)").
		WithArgs("NZ", "2024-08-01", "2025-09-01", 5, 20, 5, 20, 5, 20).
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "value"}).
			AddRow(2025, 6, 42))

	counts, err := r.monthlyCounts(context.Background(),
		"Quote", "COUNT(QuoteNumber)", wb, "2024-08-01", "2025-09-01", true, 5, 20)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"2025-06": 42}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyCountsNoDayWindow(t *testing.T) {
	r, mock := mockRepo(t)
	wb := sqlbuild.NewWhere()

	mock.ExpectQuery("GROUP BY YEAR\\(CreatedDate\\), MONTH\\(CreatedDate\\)").
		WithArgs("2024-08-01", "2025-09-01").
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "value"}))

	counts, err := r.monthlyCounts(context.Background(),
		"Sales", "COUNT(PolicyNumber)", wb, "2024-08-01", "2025-09-01", false, 1, 31)
	require.NoError(t, err)
	require.Empty(t, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMethodMonthlyDayClampParams(t *testing.T) {
	r, mock := mockRepo(t)
	wb := sqlbuild.NewWhere().
		Add("CreatedDate >= ?", "2025-03-05").
		Add("CreatedDate < ?", "2025-08-21")

	mock.ExpectQuery("ORDER BY ReportingPeriod ASC").
		WithArgs("2025-03-05", "2025-08-21", 5, 5, 20, 20).
		WillReturnRows(sqlmock.NewRows([]string{"value", "QuoteReceivedMethod", "ReportingPeriod"}).
			AddRow(12, []byte("Web"), mustDate("2025-03-01")))

	out, err := r.methodMonthly(context.Background(),
		"Quote", "QuoteReceivedMethod", "COUNT(QuoteNumber)", wb, true, 5, 20)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Web", out[0].Method)
	require.Equal(t, 12, out[0].Value)
	require.NoError(t, mock.ExpectationsWereMet())
}
