package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"petmis/internal/core/datewindow"
	"petmis/internal/core/sqlbuild"
	perr "petmis/internal/platform/errors"
	"petmis/internal/platform/logger"
	"petmis/internal/platform/store"
	"petmis/internal/services/etl/domain"

	mssql "github.com/microsoft/go-mssqldb"
)

const (
	defaultDeleteBatch = 50_000
	defaultChunkSize   = 20_000
	chunkRetries       = 3
)

// CopyFn bulk-inserts rows into table inside tx and returns the count written.
// It is a seam so tests can inject failures without a live server.
type CopyFn func(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error)

// Loader replaces the destination table's window with a fresh batch
type Loader struct {
	DB          store.TxBeginner
	Copy        CopyFn
	DeleteBatch int
	ChunkSize   int
	log         *logger.Logger
}

// NewLoader constructs a Loader over the MIS handle using bulk copy
func NewLoader(db store.TxBeginner) *Loader {
	return &Loader{
		DB:          db,
		Copy:        BulkCopy,
		DeleteBatch: defaultDeleteBatch,
		ChunkSize:   defaultChunkSize,
		log:         logger.Named("etl.load"),
	}
}

// BulkCopy is the production CopyFn backed by the driver's bulk insert
func BulkCopy(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) (int64, error) {
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(table, mssql.BulkOptions{}, columns...))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, err
		}
	}
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// column describes one destination column from INFORMATION_SCHEMA
type column struct {
	name   string
	maxLen int64 // 0 = not a sized string type, -1 = MAX
}

// Load deletes the window from table and inserts the batch in chunks inside
// one transaction. Chunks that keep failing after retries are skipped and
// counted rather than aborting the run.
func (l *Loader) Load(ctx context.Context, table string, t domain.Table, win datewindow.Range) (domain.LoadResult, error) {
	var res domain.LoadResult

	if !sqlbuild.ValidTableName(table) {
		return res, perr.Newf(perr.ErrorCodeInvalidTableName, "invalid table name %q", table)
	}
	l.log.Info().Str("table", table).Int("rows", len(t.Rows)).Msg("load starting")

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, perr.Wrap(err, perr.ErrorCodeLoad, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	deleted, err := l.deleteWindow(ctx, tx, table, win)
	if err != nil {
		return res, err
	}
	res.Deleted = deleted

	schema, err := l.introspect(ctx, tx, table)
	if err != nil {
		return res, err
	}

	cols, rows := l.conform(table, t, schema)
	res.Attempted = len(rows)

	inserted, failed := l.insertChunks(ctx, tx, table, cols, rows)
	res.Inserted = inserted
	res.FailedChunks = failed

	if err := tx.Commit(); err != nil {
		return res, perr.Wrap(err, perr.ErrorCodeLoad, "commit")
	}
	l.log.Info().
		Str("table", table).
		Int64("deleted", res.Deleted).
		Int("inserted", res.Inserted).
		Int("failed_chunks", res.FailedChunks).
		Msg("load done")
	return res, nil
}

// deleteWindow clears the reload window in bounded batches so the tx log
// stays manageable on year-wide reloads
func (l *Loader) deleteWindow(ctx context.Context, tx *sql.Tx, table string, win datewindow.Range) (int64, error) {
	batch := l.DeleteBatch
	if batch <= 0 {
		batch = defaultDeleteBatch
	}
	stmt := fmt.Sprintf(
		"DELETE TOP (%d) FROM %s WHERE CAST(CreatedDate AS DATE) BETWEEN @p1 AND @p2",
		batch, table,
	)

	start := time.Now()
	var total int64
	for {
		r, err := tx.ExecContext(ctx, stmt, win.Start, win.End)
		if err != nil {
			return total, perr.Wrapf(err, perr.ErrorCodeLoad, "delete window from %s", table)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return total, perr.Wrapf(err, perr.ErrorCodeLoad, "delete rowcount on %s", table)
		}
		total += n
		l.log.Debug().Int64("batch", n).Int64("total", total).Msg("delete batch")
		if n == 0 {
			break
		}
	}
	l.log.Info().Int64("deleted", total).Dur("elapsed", time.Since(start)).Msg("window cleared")
	return total, nil
}

// introspect reads the destination column set and string length limits
func (l *Loader) introspect(ctx context.Context, tx *sql.Tx, table string) ([]column, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT COLUMN_NAME, CHARACTER_MAXIMUM_LENGTH
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_NAME = @p1
		 ORDER BY ORDINAL_POSITION`, table)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeLoad, "introspect %s", table)
	}
	defer rows.Close()

	var out []column
	for rows.Next() {
		var c column
		var maxLen sql.NullInt64
		if err := rows.Scan(&c.name, &maxLen); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeLoad, "introspect %s scan", table)
		}
		if maxLen.Valid {
			c.maxLen = maxLen.Int64
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeLoad, "introspect %s rows", table)
	}
	if len(out) == 0 {
		return nil, perr.Newf(perr.ErrorCodeLoad, "destination table %s has no columns", table)
	}
	return out, nil
}

// conform projects the batch onto the destination schema: extra columns are
// dropped, missing ones logged, oversized strings truncated with a per-column
// count, timestamps floored to the millisecond and values nil-normalized
func (l *Loader) conform(table string, t domain.Table, schema []column) ([]string, [][]any) {
	have := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		have[c] = i
	}
	dest := make(map[string]struct{}, len(schema))

	var cols []string
	var srcIdx []int
	var limits []int64
	for _, sc := range schema {
		dest[sc.name] = struct{}{}
		if i, ok := have[sc.name]; ok {
			cols = append(cols, sc.name)
			srcIdx = append(srcIdx, i)
			limits = append(limits, sc.maxLen)
		} else {
			l.log.Warn().Str("table", table).Str("column", sc.name).Msg("batch missing destination column")
		}
	}
	for _, c := range t.Columns {
		if _, ok := dest[c]; !ok {
			l.log.Warn().Str("table", table).Str("column", c).Msg("dropping column not in destination")
		}
	}

	truncated := make([]int, len(cols))
	rows := make([][]any, len(t.Rows))
	for ri, src := range t.Rows {
		row := make([]any, len(cols))
		for ci, si := range srcIdx {
			v := src[si]
			switch tv := v.(type) {
			case time.Time:
				// sub-millisecond precision does not survive datetime columns
				row[ci] = tv.Truncate(time.Millisecond)
			case string:
				if max := limits[ci]; max > 0 && int64(len([]rune(tv))) > max {
					row[ci] = string([]rune(tv)[:max])
					truncated[ci]++
				} else {
					row[ci] = tv
				}
			case []byte:
				s := string(tv)
				if max := limits[ci]; max > 0 && int64(len([]rune(s))) > max {
					s = string([]rune(s)[:max])
					truncated[ci]++
				}
				row[ci] = s
			default:
				row[ci] = v
			}
		}
		rows[ri] = row
	}

	total := 0
	for ci, n := range truncated {
		if n > 0 {
			total += n
			l.log.Warn().Str("column", cols[ci]).Int("rows", n).Int64("limit", limits[ci]).Msg("truncated oversized values")
		}
	}
	if total == 0 {
		l.log.Debug().Msg("no truncation needed")
	}
	return cols, rows
}

// insertChunks writes rows in chunks, halving the chunk size on failure and
// skipping a chunk after repeated failures
func (l *Loader) insertChunks(ctx context.Context, tx *sql.Tx, table string, cols []string, rows [][]any) (inserted, failedChunks int) {
	chunk := l.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}

	start := 0
	for start < len(rows) {
		size := chunk
		if start+size > len(rows) {
			size = len(rows) - start
		}

		attempts := 0
		for {
			n, err := l.Copy(ctx, tx, table, cols, rows[start:start+size])
			if err == nil {
				inserted += int(n)
				l.log.Info().
					Int("rows", size).
					Int("inserted_total", inserted).
					Int("remaining", len(rows)-start-size).
					Msg("chunk inserted")
				start += size
				break
			}

			attempts++
			if attempts >= chunkRetries {
				failedChunks++
				l.log.Error().Err(err).
					Int("from", start).
					Int("rows", size).
					Msg("chunk skipped after retries")
				start += size
				break
			}

			if chunk > 1 {
				chunk = chunk / 2
			}
			if size > chunk {
				size = chunk
			}
			l.log.Warn().Err(err).Int("chunk_size", chunk).Msg("chunk insert failed, retrying smaller")
		}
	}
	return inserted, failedChunks
}
