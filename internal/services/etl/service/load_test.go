package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"petmis/internal/core/datewindow"
	"petmis/internal/services/etl/domain"
)

func testWindow(t *testing.T) datewindow.Range {
	t.Helper()
	win, err := datewindow.HalfOpen("2025-06-01", "2025-06-30")
	require.NoError(t, err)
	return win
}

// copyRecorder captures what the loader hands the bulk copy seam
type copyRecorder struct {
	cols  []string
	rows  [][]any
	calls int
	err   error
}

func (c *copyRecorder) fn(_ context.Context, _ *sql.Tx, _ string, cols []string, rows [][]any) (int64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	c.cols = cols
	c.rows = append(c.rows, rows...)
	return int64(len(rows)), nil
}

func TestLoadRejectsBadTableName(t *testing.T) {
	l := NewLoader(nil)
	_, err := l.Load(context.Background(), "dbo.Quotes; DROP", domain.Table{}, testWindow(t))
	require.Error(t, err)
}

func TestLoadReplacesWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	// bounded delete loop runs until a batch comes back empty
	mock.ExpectExec("DELETE TOP \\(2\\) FROM MISQuoteDetails").
		WithArgs("2025-06-01", "2025-06-30").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE TOP \\(2\\) FROM MISQuoteDetails").
		WithArgs("2025-06-01", "2025-06-30").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE TOP \\(2\\) FROM MISQuoteDetails").
		WithArgs("2025-06-01", "2025-06-30").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INFORMATION_SCHEMA.COLUMNS").
		WithArgs("MISQuoteDetails").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "CHARACTER_MAXIMUM_LENGTH"}).
			AddRow("QuoteNumber", 50).
			AddRow("PetName", 3).
			AddRow("CreatedDate", nil).
			AddRow("MissingFromBatch", 10))
	mock.ExpectCommit()

	rec := &copyRecorder{}
	l := NewLoader(db)
	l.Copy = rec.fn
	l.DeleteBatch = 2

	created := time.Date(2025, 6, 2, 10, 0, 0, 123456789, time.UTC)
	batch := domain.Table{
		Columns: []string{"QuoteNumber", "PetName", "CreatedDate", "NotInDestination"},
		Rows: [][]any{
			{"Q1", "Bartholomew", created, "dropped"},
			{"Q2", "Rex", nil, "dropped"},
		},
	}

	res, err := l.Load(context.Background(), "MISQuoteDetails", batch, testWindow(t))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.EqualValues(t, 3, res.Deleted)
	require.Equal(t, 2, res.Attempted)
	require.Equal(t, 2, res.Inserted)
	require.Zero(t, res.FailedChunks)

	// destination schema decides column set and order
	require.Equal(t, []string{"QuoteNumber", "PetName", "CreatedDate"}, rec.cols)
	// oversized strings truncate to the column limit
	require.Equal(t, "Bar", rec.rows[0][1])
	require.Equal(t, "Rex", rec.rows[1][1])
	// timestamps floor to the millisecond
	require.Equal(t, created.Truncate(time.Millisecond), rec.rows[0][2])
}

func TestLoadSkipsChunkAfterRetries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE TOP").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INFORMATION_SCHEMA.COLUMNS").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "CHARACTER_MAXIMUM_LENGTH"}).
			AddRow("QuoteNumber", 50))
	mock.ExpectCommit()

	rec := &copyRecorder{err: errors.New("bulk copy rejected")}
	l := NewLoader(db)
	l.Copy = rec.fn

	batch := domain.Table{
		Columns: []string{"QuoteNumber"},
		Rows:    [][]any{{"Q1"}},
	}
	res, err := l.Load(context.Background(), "MISQuoteDetails", batch, testWindow(t))
	require.NoError(t, err, "a skipped chunk degrades the run, it does not abort it")
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 3, rec.calls)
	require.Equal(t, 1, res.FailedChunks)
	require.Zero(t, res.Inserted)
	require.True(t, res.Degraded())
}

func TestLoadIntrospectionFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE TOP").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INFORMATION_SCHEMA.COLUMNS").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "CHARACTER_MAXIMUM_LENGTH"}))
	mock.ExpectRollback()

	l := NewLoader(db)
	l.Copy = (&copyRecorder{}).fn

	_, err = l.Load(context.Background(), "NoSuchTable", domain.Table{}, testWindow(t))
	require.Error(t, err, "an empty destination schema means the table does not exist")
}
