package schema

import (
	"db-copy/internal/dialect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDDL(t *testing.T) {
	b := NewBuilder(nil, &dialect.PostgresDialect{})
	mapped := []TargetColumn{
		{Name: "id", DataType: "INTEGER", IsPK: true},
		{Name: "name", DataType: "VARCHAR(120)", Nullable: false},
		{Name: "note", DataType: "TEXT", Nullable: true},
		{Name: "active", DataType: "BOOLEAN", Nullable: false, Default: strPtr("TRUE")},
	}

	ddl := b.BuildDDL("users", mapped)

	assert.Contains(t, ddl, `CREATE TABLE "users"`)
	// PK columns are never marked NOT NULL redundantly
	assert.Contains(t, ddl, `"id" INTEGER,`)
	assert.NotContains(t, ddl, `"id" INTEGER NOT NULL`)
	assert.Contains(t, ddl, `"name" VARCHAR(120) NOT NULL`)
	assert.Contains(t, ddl, `"note" TEXT,`)
	assert.NotContains(t, ddl, `"note" TEXT NOT NULL`)
	assert.Contains(t, ddl, `"active" BOOLEAN NOT NULL DEFAULT TRUE`)
	assert.Contains(t, ddl, `PRIMARY KEY ("id")`)
}

func TestBuildDDL_CompositeKeyKeepsColumnOrder(t *testing.T) {
	b := NewBuilder(nil, &dialect.PostgresDialect{})
	mapped := []TargetColumn{
		{Name: "order_id", DataType: "INTEGER", IsPK: true},
		{Name: "item_no", DataType: "SMALLINT", IsPK: true},
		{Name: "qty", DataType: "INTEGER", Nullable: false},
	}

	ddl := b.BuildDDL("order_items", mapped)

	assert.Contains(t, ddl, `PRIMARY KEY ("order_id", "item_no")`)
}

// Drop-and-recreate means the rendered DDL is identical however often the
// table is rebuilt.
func TestBuildDDL_Deterministic(t *testing.T) {
	b := NewBuilder(nil, &dialect.PostgresDialect{})
	mapped := MapColumns([]Column{
		{Name: "id", DataType: "bigint(20)", IsPK: true},
		{Name: "label", DataType: "varchar(40)"},
	})

	assert.Equal(t, b.BuildDDL("tags", mapped), b.BuildDDL("tags", mapped))
}
