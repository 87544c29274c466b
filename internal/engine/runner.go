package engine

import (
	"context"
	"database/sql"
	"db-copy/internal/dialect"
	"db-copy/internal/schema"
	"log"
	"sync"
	"time"
)

// Runner sequences one full table copy: introspect, create target schema,
// transfer, verify. Phases run strictly sequentially; the independent
// introspection queries run concurrently since they are mutually read-only.
//
// Running two copies of the same table concurrently is not coordinated here;
// callers that need that must hold an external advisory lock.
type Runner struct {
	Source        *sql.DB
	Target        *sql.DB
	SourceDialect dialect.SourceDialect
	TargetDialect dialect.TargetDialect
	Config        Config
	OnProgress    func(Snapshot)
}

// Run executes the pipeline and always returns a report; the error is non-nil
// only for a hard failure (a fatal phase aborted before or during the copy).
func (r *Runner) Run(ctx context.Context, table string) (*schema.CopyReport, error) {
	report := &schema.CopyReport{Table: table, Status: schema.StatusFailed}
	started := time.Now()
	defer func() {
		report.Phases.Total = time.Since(started)
	}()

	// Phase 1: introspection. The three analyses have no ordering dependency.
	intro := schema.NewIntrospector(r.Source, r.SourceDialect)
	phase := time.Now()
	var (
		cols        []schema.Column
		total       uint64
		describeErr error
		countErr    error
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		cols, describeErr = intro.Describe(ctx, table)
	}()
	go func() {
		defer wg.Done()
		total, countErr = intro.CountRows(ctx, table)
	}()
	go func() {
		defer wg.Done()
		report.SizeMB = intro.EstimateSizeMB(ctx, table)
	}()
	wg.Wait()
	report.Phases.Introspect = time.Since(phase)
	if describeErr != nil {
		return report, describeErr
	}
	if countErr != nil {
		return report, countErr
	}
	report.TotalRows = total
	log.Printf("Table %s: %d columns, %d rows, ~%.1f MB", table, len(cols), total, report.SizeMB)

	// Phase 2: schema creation (drop-and-recreate, destructive).
	phase = time.Now()
	mapped := schema.MapColumns(cols)
	builder := schema.NewBuilder(r.Target, r.TargetDialect)
	if err := builder.CreateTable(ctx, table, mapped); err != nil {
		report.Phases.Schema = time.Since(phase)
		return report, err
	}
	report.Phases.Schema = time.Since(phase)

	// Phase 3: transfer, the dominant cost.
	phase = time.Now()
	copier := NewCopier(
		&SQLPageReader{DB: r.Source, Dialect: r.SourceDialect},
		&SQLBatchWriter{DB: r.Target, Dialect: r.TargetDialect},
		r.Config,
		r.OnProgress,
	)
	copied, err := copier.Copy(ctx, table, total, cols)
	stats := copier.Stats()
	report.RowsCopied = copied
	report.BatchesAttempted = stats.BatchesAttempted
	report.BatchesFailed = stats.BatchesFailed
	report.Phases.Transfer = time.Since(phase)
	if report.Phases.Transfer > 0 {
		report.RowsPerSec = float64(copied) / report.Phases.Transfer.Seconds()
	}
	if err != nil {
		return report, err
	}

	// Phase 4: verification, read-only.
	phase = time.Now()
	verifier := NewVerifier(r.Source, r.Target, r.SourceDialect, r.TargetDialect)
	result, verr := verifier.Counts(ctx, table)
	report.Phases.Verify = time.Since(phase)
	if verr != nil {
		// The copy itself finished; a failed count check degrades to a
		// reported mismatch rather than aborting.
		log.Printf("Warning: verification failed: %v", verr)
	}
	report.Verify = result

	if copied == total && result.Matched {
		report.Status = schema.StatusComplete
	} else {
		report.Status = schema.StatusPartial
	}
	return report, nil
}
