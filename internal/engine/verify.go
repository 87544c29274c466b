package engine

import (
	"context"
	"database/sql"
	"db-copy/internal/dialect"
	"db-copy/internal/schema"
	"fmt"
)

// Verifier compares source and target after a copy. Purely read-only: a
// mismatch is reported, never repaired.
type Verifier struct {
	source *sql.DB
	target *sql.DB
	srcD   dialect.SourceDialect
	tgtD   dialect.TargetDialect
}

func NewVerifier(source, target *sql.DB, srcD dialect.SourceDialect, tgtD dialect.TargetDialect) *Verifier {
	return &Verifier{source: source, target: target, srcD: srcD, tgtD: tgtD}
}

// Counts compares row counts on both sides.
func (v *Verifier) Counts(ctx context.Context, table string) (schema.VerifyResult, error) {
	var result schema.VerifyResult
	if err := v.source.QueryRowContext(ctx, v.srcD.RowCountQuery(table)).Scan(&result.SourceCount); err != nil {
		return result, fmt.Errorf("failed to count source rows: %w", err)
	}
	if err := v.target.QueryRowContext(ctx, v.tgtD.RowCountQuery(table)).Scan(&result.TargetCount); err != nil {
		return result, fmt.Errorf("failed to count target rows: %w", err)
	}
	result.Matched = result.SourceCount == result.TargetCount
	return result, nil
}

// SampleRows returns up to n rows from the target table for a spot check,
// along with the column names, in whatever order the target returns them.
func (v *Verifier) SampleRows(ctx context.Context, table string, n int) ([]string, [][]interface{}, error) {
	query := v.tgtD.LimitQuery(fmt.Sprintf("SELECT * FROM %s", v.tgtD.QuoteIdentifier(table)), n)
	rows, err := v.target.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sample rows: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var sample [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		sample = append(sample, vals)
	}
	return cols, sample, rows.Err()
}
