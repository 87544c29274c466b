package dialect

import (
	"fmt"
	"strings"
)

type PostgresDialect struct{}

func (d *PostgresDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", d.QuoteIdentifier(table))
}

// InsertQuery builds a multi-row insert binding every value positionally:
// INSERT INTO "t" ("a", "b") VALUES ($1, $2), ($3, $4), ...
func (d *PostgresDialect) InsertQuery(table string, cols []string, rowCount int) string {
	quoted := QuoteIdentifiers(cols, d.QuoteIdentifier)
	tuples := make([]string, rowCount)
	for r := 0; r < rowCount; r++ {
		base := r * len(cols)
		tuples[r] = "(" + GeneratePlaceholders(len(cols), func(i int) string {
			return d.Placeholder(base + i)
		}) + ")"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		d.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
}

func (d *PostgresDialect) RowCountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdentifier(table))
}

func (d *PostgresDialect) LimitQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

func (d *PostgresDialect) CurrentTimestampExpr() string {
	return "CURRENT_TIMESTAMP"
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index+1)
}

func (d *PostgresDialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}
