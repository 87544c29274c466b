package dialect

// GetSourceDialect returns the appropriate SourceDialect implementation based on driver name.
func GetSourceDialect(driver string) SourceDialect {
	switch driver {
	case "sqlserver", "mssql":
		return &MSSQLDialect{}
	case "oracle":
		return &OracleDialect{}
	default: // mysql
		return &MysqlDialect{}
	}
}

// GetTargetDialect returns the appropriate TargetDialect implementation based on driver name.
// Postgres is the only supported target.
func GetTargetDialect(driver string) TargetDialect {
	return &PostgresDialect{}
}

// Ensure interface implementation
var _ SourceDialect = (*MysqlDialect)(nil)
var _ SourceDialect = (*MSSQLDialect)(nil)
var _ SourceDialect = (*OracleDialect)(nil)
var _ TargetDialect = (*PostgresDialect)(nil)
