package engine

import (
	"context"
	"database/sql"
	"db-copy/internal/dialect"
	"db-copy/internal/schema"
	"fmt"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// Seeder fills a source table with generated rows so a copy can be rehearsed
// against realistic data volumes.
type Seeder struct {
	db *sql.DB
	d  dialect.SourceDialect
}

func NewSeeder(db *sql.DB, d dialect.SourceDialect) *Seeder {
	return &Seeder{db: db, d: d}
}

// Seed inserts count generated rows, committing every batchSize rows.
// Returns the number of rows actually inserted.
func (s *Seeder) Seed(ctx context.Context, table string, cols []schema.Column, count, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	colNames := make([]string, len(cols))
	for i, c := range cols {
		colNames[i] = s.d.QuoteIdentifier(c.Name)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.d.QuoteIdentifier(table),
		strings.Join(colNames, ", "),
		dialect.GeneratePlaceholders(len(cols), s.d.Placeholder))

	inserted := 0
	for inserted < count {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return inserted, fmt.Errorf("failed to begin batch: %w", err)
		}
		chunk := batchSize
		if remaining := count - inserted; remaining < chunk {
			chunk = remaining
		}
		for i := 0; i < chunk; i++ {
			values := make([]interface{}, len(cols))
			for j, c := range cols {
				values[j] = generateValue(c, inserted+i+1)
			}
			if _, err := tx.ExecContext(ctx, query, values...); err != nil {
				tx.Rollback()
				return inserted, fmt.Errorf("failed to insert seed row: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return inserted, fmt.Errorf("failed to commit batch: %w", err)
		}
		inserted += chunk
	}
	return inserted, nil
}

// generateValue produces a value matching the column's mapped kind. Integer
// primary keys get the sequential row number to stay unique.
func generateValue(c schema.Column, seq int) interface{} {
	switch target := schema.MapType(c.DataType); target {
	case "BOOLEAN":
		return gofakeit.Bool()
	case "SMALLINT":
		if c.IsPK {
			return seq
		}
		return gofakeit.Number(0, 32000)
	case "INTEGER", "BIGINT":
		if c.IsPK {
			return seq
		}
		return gofakeit.Number(1, 1_000_000)
	case "REAL", "DOUBLE PRECISION":
		return gofakeit.Float64Range(0, 10000)
	case "DATE":
		return gofakeit.Date().Format("2006-01-02")
	case "TIMESTAMP":
		return gofakeit.Date().Format("2006-01-02 15:04:05")
	case "TIME":
		return gofakeit.Date().Format("15:04:05")
	case "BYTEA":
		return []byte(gofakeit.UUID())
	case "JSONB":
		return fmt.Sprintf(`{"note": %q}`, gofakeit.Word())
	case "UUID":
		return gofakeit.UUID()
	default:
		if strings.HasPrefix(target, "NUMERIC") {
			return gofakeit.Price(0, 10000)
		}
		text := gofakeit.Sentence(4)
		if c.IsPK {
			text = gofakeit.UUID()
		}
		if n := declaredLength(target); n > 0 && len(text) > n {
			text = text[:n]
		}
		return text
	}
}

func declaredLength(target string) int {
	open := strings.IndexByte(target, '(')
	end := strings.IndexByte(target, ')')
	if open < 0 || end <= open {
		return 0
	}
	n, err := strconv.Atoi(target[open+1 : end])
	if err != nil {
		return 0
	}
	return n
}
