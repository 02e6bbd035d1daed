package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"petmis/internal/core/datewindow"
	"petmis/internal/services/etl/domain"
)

func TestExtractBindsWindowPerArity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rg := domain.Region{
		Code:  "UK",
		Name:  "United Kingdom",
		Query: "SELECT QuoteNumber FROM Quotes WHERE CreatedDate >= ? AND CreatedDate <= ? AND UpdatedDate >= ? AND UpdatedDate <= ?",
		Arity: 4,
	}
	win, err := datewindow.HalfOpen("2025-06-01", "2025-06-30")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT QuoteNumber FROM Quotes WHERE CreatedDate >= @p1 AND CreatedDate <= @p2 AND UpdatedDate >= @p3 AND UpdatedDate <= @p4",
	)).
		WithArgs("2025-06-01", "2025-06-30", "2025-06-01", "2025-06-30").
		WillReturnRows(sqlmock.NewRows([]string{"QuoteNumber"}).AddRow("Q1").AddRow("Q2"))

	got, err := NewExtractor().Extract(context.Background(), db, rg, win)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractAnnotatesRegion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rg := domain.Region{
		Code:          "DE",
		Name:          "Germany",
		Query:         "SELECT QuoteNumber, Brand FROM Quotes WHERE CreatedDate >= ? AND CreatedDate <= ?",
		Arity:         2,
		BrandOverride: "bb",
	}
	win, err := datewindow.HalfOpen("2025-06-01", "2025-06-30")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT QuoteNumber, Brand").
		WithArgs("2025-06-01", "2025-06-30").
		WillReturnRows(sqlmock.NewRows([]string{"QuoteNumber", "Brand"}).
			AddRow("Q1", "localbrand"))

	got, err := NewExtractor().Extract(context.Background(), db, rg, win)
	require.NoError(t, err)

	require.Equal(t, []string{"QuoteNumber", "Brand", "CountryCode", "CountryName"}, got.Columns)
	row := got.Rows[0]
	require.Equal(t, "bb", row[got.ColumnIndex("Brand")], "brand override must replace the source value")
	require.Equal(t, "DE", row[got.ColumnIndex("CountryCode")])
	require.Equal(t, "Germany", row[got.ColumnIndex("CountryName")])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExtractQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rg := domain.Region{Code: "NZ", Query: "SELECT 1 WHERE ? < ?", Arity: 2}
	win, err := datewindow.HalfOpen("2025-06-01", "2025-06-30")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT 1").WillReturnError(context.DeadlineExceeded)

	_, err = NewExtractor().Extract(context.Background(), db, rg, win)
	require.Error(t, err)
	require.Contains(t, err.Error(), "NZ")
}
