package schema

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// The mapper is a fixed table matched by substring on the lowercased source
// type, in priority order: tinyint(1) must win over tinyint, datetime over
// date and time, varchar over char, bigint over int, and so on. Unmapped
// types fall back to TEXT rather than erroring; the raw value still round-trips
// as text, at the cost of type fidelity.

var (
	lengthArg    = regexp.MustCompile(`\((\d+)\s*\)`)
	precisionArg = regexp.MustCompile(`\((\d+)\s*,\s*(\d+)\s*\)`)
)

type typeRule struct {
	pattern string
	mapFn   func(src string) string
}

func fixed(target string) func(string) string {
	return func(string) string { return target }
}

// sized preserves a single declared length, e.g. varchar(120) -> VARCHAR(120).
// When no length can be extracted it substitutes the given safe default.
func sized(target, fallback string) func(string) string {
	return func(src string) string {
		if m := lengthArg.FindStringSubmatch(src); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return fmt.Sprintf("%s(%d)", target, n)
			}
		}
		return fallback
	}
}

// precise preserves precision and scale, e.g. decimal(10,2) -> NUMERIC(10,2).
func precise(target, fallback string) func(string) string {
	return func(src string) string {
		if m := precisionArg.FindStringSubmatch(src); m != nil {
			return fmt.Sprintf("%s(%s,%s)", target, m[1], m[2])
		}
		if m := lengthArg.FindStringSubmatch(src); m != nil {
			return fmt.Sprintf("%s(%s)", target, m[1])
		}
		return fallback
	}
}

var typeRules = []typeRule{
	{"tinyint(1)", fixed("BOOLEAN")},
	{"boolean", fixed("BOOLEAN")},
	{"bool", fixed("BOOLEAN")},
	{"bigint", fixed("BIGINT")},
	{"smallint", fixed("SMALLINT")},
	{"mediumint", fixed("INTEGER")},
	{"tinyint", fixed("SMALLINT")},
	{"int", fixed("INTEGER")},
	{"decimal", precise("NUMERIC", "NUMERIC")},
	{"numeric", precise("NUMERIC", "NUMERIC")},
	{"number", precise("NUMERIC", "NUMERIC")},
	{"money", fixed("NUMERIC(19,4)")},
	{"double", fixed("DOUBLE PRECISION")},
	{"float", fixed("DOUBLE PRECISION")},
	{"real", fixed("REAL")},
	{"varchar(max)", fixed("TEXT")},
	{"nvarchar(max)", fixed("TEXT")},
	{"varchar", sized("VARCHAR", "TEXT")},
	{"text", fixed("TEXT")},
	{"clob", fixed("TEXT")},
	{"char", sized("CHAR", "CHAR(1)")},
	{"enum", fixed("TEXT")},
	{"set", fixed("TEXT")},
	{"smalldatetime", fixed("TIMESTAMP")},
	{"datetime", fixed("TIMESTAMP")},
	{"timestamp", fixed("TIMESTAMP")},
	{"date", fixed("DATE")},
	{"time", fixed("TIME")},
	{"year", fixed("SMALLINT")},
	{"blob", fixed("BYTEA")},
	{"binary", fixed("BYTEA")},
	{"raw", fixed("BYTEA")},
	{"image", fixed("BYTEA")},
	{"bytea", fixed("BYTEA")},
	{"bit", fixed("BOOLEAN")},
	{"json", fixed("JSONB")},
	{"uuid", fixed("UUID")},
}

// MapType converts a source column type to its Postgres counterpart.
// Total and deterministic: unknown types map to TEXT.
func MapType(sourceType string) string {
	src := strings.ToLower(strings.TrimSpace(sourceType))
	for _, rule := range typeRules {
		if strings.Contains(src, rule.pattern) {
			return rule.mapFn(src)
		}
	}
	return "TEXT"
}

// currentTimeFuncs are source-side "now" defaults that become the target's
// current-timestamp literal.
var currentTimeFuncs = []string{
	"current_timestamp", "now(", "getdate", "sysdate", "systimestamp",
	"localtimestamp", "curdate", "curtime",
}

// MapDefault converts a raw source default into a target DEFAULT expression.
// Absent stays absent; current-time functions map to CURRENT_TIMESTAMP; numeric
// literals pass through unquoted; everything else is wrapped in single quotes.
// Embedded quotes are not escaped beyond the wrap (documented limitation).
func MapDefault(raw *string, sourceType string) *string {
	if raw == nil {
		return nil
	}
	expr := strings.TrimSpace(*raw)
	// SQL Server wraps defaults in parens, sometimes twice: ((0)), (getdate()).
	for strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}
	if expr == "" || strings.EqualFold(expr, "null") {
		return nil
	}
	// MySQL bit literals (b'1') and SQL Server unicode literals (N'...') put a
	// one-letter prefix on the quoted body; drop it so the value compares like
	// a plain literal.
	if len(expr) >= 3 && expr[1] == '\'' && strings.HasSuffix(expr, "'") {
		switch expr[0] {
		case 'b', 'B', 'n', 'N':
			expr = expr[1:]
		}
	}
	lower := strings.ToLower(expr)
	for _, fn := range currentTimeFuncs {
		if strings.Contains(lower, fn) {
			out := "CURRENT_TIMESTAMP"
			return &out
		}
	}
	if MapType(sourceType) == "BOOLEAN" {
		switch strings.Trim(expr, "'") {
		case "1", "true", "TRUE":
			out := "TRUE"
			return &out
		case "0", "false", "FALSE":
			out := "FALSE"
			return &out
		}
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		out := expr
		return &out
	}
	// Already quoted literals (Oracle DATA_DEFAULT style) pass through.
	if strings.HasPrefix(expr, "'") && strings.HasSuffix(expr, "'") && len(expr) >= 2 {
		out := expr
		return &out
	}
	out := "'" + expr + "'"
	return &out
}

// MapColumns maps every source column to its target definition, preserving order.
// Fallbacks to TEXT are logged once per distinct source type so operators can
// see where type fidelity is lost.
func MapColumns(cols []Column) []TargetColumn {
	mapped := make([]TargetColumn, len(cols))
	warned := make(map[string]bool)
	for i, c := range cols {
		target := MapType(c.DataType)
		if target == "TEXT" && !knownTextType(c.DataType) && !warned[c.DataType] {
			warned[c.DataType] = true
			log.Printf("Warning: no mapping for source type %q (column %s), storing as TEXT", c.DataType, c.Name)
		}
		mapped[i] = TargetColumn{
			Name:     c.Name,
			DataType: target,
			Nullable: c.Nullable,
			IsPK:     c.IsPK,
			Default:  MapDefault(c.Default, c.DataType),
		}
	}
	return mapped
}

func knownTextType(sourceType string) bool {
	src := strings.ToLower(sourceType)
	for _, p := range []string{"varchar", "text", "clob", "enum", "set", "char"} {
		if strings.Contains(src, p) {
			return true
		}
	}
	return false
}
