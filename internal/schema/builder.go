package schema

import (
	"context"
	"database/sql"
	"db-copy/internal/dialect"
	"fmt"
	"strings"
)

// Builder creates the target table from mapped columns.
//
// CreateTable is destructive: it unconditionally drops any existing table of
// the same name before recreating it. Confirmation is the caller's job, not
// this component's.
type Builder struct {
	db *sql.DB
	d  dialect.TargetDialect
}

func NewBuilder(db *sql.DB, d dialect.TargetDialect) *Builder {
	return &Builder{db: db, d: d}
}

// BuildDDL renders the CREATE TABLE statement for the given columns, in the
// given order. A primary-key column is not marked NOT NULL redundantly; the
// PRIMARY KEY clause already implies it.
func (b *Builder) BuildDDL(table string, cols []TargetColumn) string {
	defs := make([]string, 0, len(cols)+1)
	var pkCols []string
	for _, c := range cols {
		def := fmt.Sprintf("%s %s", b.d.QuoteIdentifier(c.Name), c.DataType)
		if !c.Nullable && !c.IsPK {
			def += " NOT NULL"
		}
		if c.Default != nil {
			def += " DEFAULT " + *c.Default
		}
		defs = append(defs, def)
		if c.IsPK {
			pkCols = append(pkCols, b.d.QuoteIdentifier(c.Name))
		}
	}
	if len(pkCols) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pkCols, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)",
		b.d.QuoteIdentifier(table), strings.Join(defs, ",\n  "))
}

// CreateTable drops any existing target table and creates it fresh.
func (b *Builder) CreateTable(ctx context.Context, table string, cols []TargetColumn) error {
	if _, err := b.db.ExecContext(ctx, b.d.DropTableQuery(table)); err != nil {
		return &CreationError{Table: table, Err: fmt.Errorf("failed to drop existing table: %w", err)}
	}
	if _, err := b.db.ExecContext(ctx, b.BuildDDL(table, cols)); err != nil {
		return &CreationError{Table: table, Err: fmt.Errorf("failed to create table: %w", err)}
	}
	return nil
}
