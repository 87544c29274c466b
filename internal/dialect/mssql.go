package dialect

import (
	"fmt"
	"strings"
)

// MSSQLDialect reads from SQL Server. The driver (go-mssqldb) prefers @p1, @p2
// named parameters over ? for Exec/Query.
type MSSQLDialect struct{}

func (d *MSSQLDialect) ColumnsQuery() string {
	// Compose the parameterized type in SQL so the mapper sees varchar(120) style
	// strings, matching what MySQL's COLUMN_TYPE provides natively.
	// -1 CHARACTER_MAXIMUM_LENGTH means (n)varchar(max).
	return `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE +
				CASE
					WHEN c.CHARACTER_MAXIMUM_LENGTH IS NULL THEN ''
					WHEN c.CHARACTER_MAXIMUM_LENGTH = -1 THEN '(max)'
					ELSE '(' + CAST(c.CHARACTER_MAXIMUM_LENGTH AS VARCHAR(10)) + ')'
				END,
			c.IS_NULLABLE,
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 'PRI' ELSE '' END,
			c.COLUMN_DEFAULT
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_SCHEMA, kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
				ON tc.CONSTRAINT_SCHEMA = kcu.CONSTRAINT_SCHEMA
				AND tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		) pk ON c.TABLE_SCHEMA = pk.TABLE_SCHEMA
			AND c.TABLE_NAME = pk.TABLE_NAME
			AND c.COLUMN_NAME = pk.COLUMN_NAME
		WHERE c.TABLE_SCHEMA = SCHEMA_NAME() AND c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION
	`
}

func (d *MSSQLDialect) RowCountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdentifier(table))
}

func (d *MSSQLDialect) TableSizeQuery() string {
	return `
		SELECT CAST(SUM(a.total_pages) * 8.0 / 1024 AS FLOAT)
		FROM sys.tables t
		JOIN sys.partitions p ON t.object_id = p.object_id
		JOIN sys.allocation_units a ON p.partition_id = a.container_id
		WHERE t.name = @p1
	`
}

func (d *MSSQLDialect) PageQuery(cols []string, table string, offset, limit uint64) string {
	quoted := QuoteIdentifiers(cols, d.QuoteIdentifier)
	// OFFSET/FETCH requires an ORDER BY clause; (SELECT NULL) satisfies the parser
	// without imposing an ordering.
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY (SELECT NULL) OFFSET %d ROWS FETCH NEXT %d ROWS ONLY",
		strings.Join(quoted, ", "), d.QuoteIdentifier(table), offset, limit)
}

func (d *MSSQLDialect) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index+1)
}

func (d *MSSQLDialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *MSSQLDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MSSQLDialect) DriverName() string {
	return "sqlserver"
}
