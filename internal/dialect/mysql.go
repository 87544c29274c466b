package dialect

import (
	"fmt"
	"strings"
)

type MysqlDialect struct{}

func (d *MysqlDialect) ColumnsQuery() string {
	// COLUMN_TYPE carries the parameterized form (varchar(120), tinyint(1), decimal(10,2))
	// which DATA_TYPE strips. The mapper needs the parameters.
	return `SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_KEY, COLUMN_DEFAULT FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`
}

func (d *MysqlDialect) RowCountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdentifier(table))
}

func (d *MysqlDialect) TableSizeQuery() string {
	return `SELECT ROUND((DATA_LENGTH + INDEX_LENGTH) / 1024 / 1024, 2) FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`
}

func (d *MysqlDialect) PageQuery(cols []string, table string, offset, limit uint64) string {
	quoted := QuoteIdentifiers(cols, d.QuoteIdentifier)
	// No ORDER BY: row order across pages is whatever the engine returns (documented limitation).
	return fmt.Sprintf("SELECT %s FROM %s LIMIT %d OFFSET %d",
		strings.Join(quoted, ", "), d.QuoteIdentifier(table), limit, offset)
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) DriverName() string {
	return "mysql"
}
