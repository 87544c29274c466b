package dialect

import (
	"fmt"
	"strings"
)

type OracleDialect struct{}

func (d *OracleDialect) ColumnsQuery() string {
	// USER_TAB_COLUMNS lists columns of tables owned by the current user.
	// The parameterized type is composed in SQL (VARCHAR2(120) style) so the
	// mapper can extract lengths the same way as for other sources.
	return `
SELECT
    t.COLUMN_NAME,
    t.DATA_TYPE ||
        CASE
            WHEN t.DATA_TYPE IN ('VARCHAR2', 'NVARCHAR2', 'CHAR', 'NCHAR', 'RAW')
                THEN '(' || t.DATA_LENGTH || ')'
            WHEN t.DATA_TYPE = 'NUMBER' AND t.DATA_PRECISION IS NOT NULL
                THEN '(' || t.DATA_PRECISION || ',' || COALESCE(t.DATA_SCALE, 0) || ')'
            ELSE ''
        END,
    t.NULLABLE,
    CASE WHEN p.CONSTRAINT_NAME IS NOT NULL THEN 'PRI' ELSE '' END,
    t.DATA_DEFAULT
FROM USER_TAB_COLUMNS t
LEFT JOIN (
    SELECT cc.TABLE_NAME, cc.COLUMN_NAME, cc.CONSTRAINT_NAME
    FROM USER_CONS_COLUMNS cc
    JOIN USER_CONSTRAINTS uc ON cc.CONSTRAINT_NAME = uc.CONSTRAINT_NAME
    WHERE uc.CONSTRAINT_TYPE = 'P'
) p ON t.TABLE_NAME = p.TABLE_NAME AND t.COLUMN_NAME = p.COLUMN_NAME
WHERE t.TABLE_NAME = UPPER(:1)
ORDER BY t.COLUMN_ID`
}

func (d *OracleDialect) RowCountQuery(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdentifier(table))
}

func (d *OracleDialect) TableSizeQuery() string {
	return `SELECT BYTES / 1024 / 1024 FROM USER_SEGMENTS WHERE SEGMENT_NAME = UPPER(:1) AND SEGMENT_TYPE = 'TABLE'`
}

func (d *OracleDialect) PageQuery(cols []string, table string, offset, limit uint64) string {
	quoted := QuoteIdentifiers(cols, d.QuoteIdentifier)
	// 12c+ row limiting clause.
	return fmt.Sprintf("SELECT %s FROM %s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY",
		strings.Join(quoted, ", "), d.QuoteIdentifier(table), offset, limit)
}

func (d *OracleDialect) Placeholder(index int) string {
	return fmt.Sprintf(":%d", index+1)
}

// Oracle folds unquoted identifiers to uppercase; quoting would force exact-case
// matching, so identifiers are passed through as-is.
func (d *OracleDialect) QuoteIdentifier(name string) string {
	return name
}

func (d *OracleDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *OracleDialect) DriverName() string {
	return "oracle"
}
