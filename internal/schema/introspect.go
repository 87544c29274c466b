package schema

import (
	"context"
	"database/sql"
	"db-copy/internal/dialect"
	"fmt"
	"strings"
)

// Introspector reads table metadata from the source. All queries are read-only
// and independent; no transaction is held across them.
type Introspector struct {
	db *sql.DB
	d  dialect.SourceDialect
}

func NewIntrospector(db *sql.DB, d dialect.SourceDialect) *Introspector {
	return &Introspector{db: db, d: d}
}

// Describe returns the table's columns in ordinal order. The order is fixed for
// the whole copy: it drives CREATE TABLE, placeholder binding and page scans.
func (n *Introspector) Describe(ctx context.Context, table string) ([]Column, error) {
	rows, err := n.db.QueryContext(ctx, n.d.ColumnsQuery(), table)
	if err != nil {
		return nil, &MetadataError{Table: table, Err: fmt.Errorf("failed to query columns: %w", err)}
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var name, dType, isNull, cKey, cDefault sql.NullString
		if err := rows.Scan(&name, &dType, &isNull, &cKey, &cDefault); err != nil {
			return nil, &MetadataError{Table: table, Err: fmt.Errorf("failed to scan column: %w", err)}
		}
		if !name.Valid {
			continue
		}
		col := Column{
			Name:     name.String,
			DataType: n.d.NormalizeType(dType.String),
			// MySQL/MSSQL report YES/NO, Oracle reports Y/N
			Nullable: strings.HasPrefix(strings.ToUpper(isNull.String), "Y"),
			IsPK:     strings.Contains(cKey.String, "PRI"),
		}
		if cDefault.Valid {
			def := strings.TrimSpace(cDefault.String)
			col.Default = &def
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, &MetadataError{Table: table, Err: fmt.Errorf("error iterating columns: %w", err)}
	}
	if len(cols) == 0 {
		return nil, &MetadataError{Table: table, Err: fmt.Errorf("table not found or has no columns")}
	}
	return cols, nil
}

// CountRows returns the exact source row count.
func (n *Introspector) CountRows(ctx context.Context, table string) (uint64, error) {
	var count uint64
	if err := n.db.QueryRowContext(ctx, n.d.RowCountQuery(table)).Scan(&count); err != nil {
		return 0, &MetadataError{Table: table, Err: fmt.Errorf("failed to count rows: %w", err)}
	}
	return count, nil
}

// EstimateSizeMB returns the table's approximate on-disk size. Size is advisory
// only, so any failure yields 0 instead of an error.
func (n *Introspector) EstimateSizeMB(ctx context.Context, table string) float64 {
	var size sql.NullFloat64
	if err := n.db.QueryRowContext(ctx, n.d.TableSizeQuery(), table).Scan(&size); err != nil {
		return 0
	}
	return size.Float64
}
