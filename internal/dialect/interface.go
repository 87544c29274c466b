package dialect

// SourceDialect abstracts the engine a table is read from.
type SourceDialect interface {
	// Metadata Queries (Single-Table Introspection)
	// ColumnsQuery binds the table name and must return, in ordinal order:
	// column name, raw type, nullable marker, key marker, default expression.
	ColumnsQuery() string
	RowCountQuery(table string) string
	TableSizeQuery() string // binds the table name; size in MB, best effort

	// Row Extraction
	PageQuery(cols []string, table string, offset, limit uint64) string

	// Helpers
	Placeholder(index int) string // Returns ?, @p1, :1, etc.
	QuoteIdentifier(name string) string
	NormalizeType(sqlType string) string
	DriverName() string
}

// TargetDialect abstracts the engine a table is written to.
type TargetDialect interface {
	// Query Generation
	DropTableQuery(table string) string
	InsertQuery(table string, cols []string, rowCount int) string
	RowCountQuery(table string) string
	LimitQuery(query string, limit int) string
	CurrentTimestampExpr() string

	// Helpers
	Placeholder(index int) string
	QuoteIdentifier(name string) string
	DriverName() string
}
