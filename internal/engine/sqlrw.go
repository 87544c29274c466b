package engine

import (
	"context"
	"database/sql"
	"db-copy/internal/dialect"
	"fmt"
)

// SQLPageReader reads pages from a live source handle through its dialect.
type SQLPageReader struct {
	DB      *sql.DB
	Dialect dialect.SourceDialect
}

func (r *SQLPageReader) FetchPage(ctx context.Context, table string, cols []string, offset, limit uint64) ([][]interface{}, error) {
	query := r.Dialect.PageQuery(cols, table, offset, limit)
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var page [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		// Drivers may reuse byte buffers between Next calls.
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = append([]byte(nil), b...)
			}
		}
		page = append(page, vals)
	}
	return page, rows.Err()
}

// SQLBatchWriter inserts batches into a live target handle as a single
// multi-row statement with positional placeholders.
type SQLBatchWriter struct {
	DB      *sql.DB
	Dialect dialect.TargetDialect
}

func (w *SQLBatchWriter) InsertBatch(ctx context.Context, table string, cols []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	query := w.Dialect.InsertQuery(table, cols, len(rows))
	args := make([]interface{}, 0, len(rows)*len(cols))
	for _, row := range rows {
		args = append(args, row...)
	}
	_, err := w.DB.ExecContext(ctx, query, args...)
	return err
}
