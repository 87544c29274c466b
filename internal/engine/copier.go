package engine

import (
	"context"
	"db-copy/internal/schema"
	"fmt"
	"log"
	"time"
)

// PageReader fetches a window of source rows. Each row is ordered per the
// fixed column order. Row order across pages is unspecified unless the source
// guarantees a stable sort.
type PageReader interface {
	FetchPage(ctx context.Context, table string, cols []string, offset, limit uint64) ([][]interface{}, error)
}

// BatchWriter inserts one batch of rows into the target in a single statement.
// Each call is its own atomic unit; there is no multi-batch transaction.
type BatchWriter interface {
	InsertBatch(ctx context.Context, table string, cols []string, rows [][]interface{}) error
}

// Config holds the transfer tunables. All fields are required; the engine has
// no implicit defaults.
type Config struct {
	BatchSize          int           // rows per insert statement
	PageSize           int           // rows fetched per source read, >= BatchSize
	MaxRetries         int           // attempts per batch before it is abandoned
	CheckpointInterval uint64        // rows between checkpoint log lines
	ProgressInterval   time.Duration // minimum gap between progress emissions
	RetryBaseDelay     time.Duration // backoff unit: delay = attempt * base
	MemCheckEvery      int           // batches between memory samples, 0 disables
	MemSoftMB          uint64
	MemHardMB          uint64
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.PageSize < c.BatchSize {
		return fmt.Errorf("page size %d must be >= batch size %d", c.PageSize, c.BatchSize)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	return nil
}

// Copier streams one table from source to target in bounded batches.
type Copier struct {
	reader     PageReader
	writer     BatchWriter
	cfg        Config
	onProgress func(Snapshot)
	sleep      func(time.Duration)
	progress   Progress
}

func NewCopier(reader PageReader, writer BatchWriter, cfg Config, onProgress func(Snapshot)) *Copier {
	return &Copier{
		reader:     reader,
		writer:     writer,
		cfg:        cfg,
		onProgress: onProgress,
		sleep:      time.Sleep,
	}
}

// Copy paginates the source table and inserts each page as consecutive batches.
// It returns the number of rows successfully copied, which may be less than
// totalRows when batches were abandoned; that is a valid outcome the caller
// must check, not an error. An error is returned only for cancellation or a
// failed page fetch.
func (c *Copier) Copy(ctx context.Context, table string, totalRows uint64, cols []schema.Column) (uint64, error) {
	if err := c.cfg.Validate(); err != nil {
		return 0, err
	}
	colNames := make([]string, len(cols))
	for i, col := range cols {
		colNames[i] = col.Name
	}
	c.progress = Progress{TotalRows: totalRows, StartTime: time.Now()}
	mem := &memWatch{every: c.cfg.MemCheckEvery, softMB: c.cfg.MemSoftMB, hardMB: c.cfg.MemHardMB}

	for offset := uint64(0); offset < totalRows; {
		if err := ctx.Err(); err != nil {
			return c.progress.RowsCopied, err
		}
		page, err := c.reader.FetchPage(ctx, table, colNames, offset, uint64(c.cfg.PageSize))
		if err != nil {
			return c.progress.RowsCopied, fmt.Errorf("failed to fetch page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			// Source shrank or the count was stale: end of data, not an error.
			log.Printf("Empty page at offset %d with %d rows expected, stopping", offset, totalRows)
			break
		}
		for start := 0; start < len(page); start += c.cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				return c.progress.RowsCopied, err
			}
			end := start + c.cfg.BatchSize
			if end > len(page) {
				end = len(page)
			}
			batch := page[start:end]
			for _, row := range batch {
				canonicalizeRow(row)
			}
			c.progress.BatchesAttempted++
			if c.insertWithRetry(ctx, table, colNames, batch) {
				c.advance(uint64(len(batch)))
			} else {
				c.progress.BatchesFailed++
			}
			mem.tick()
			c.emitProgress(false)
		}
		offset += uint64(len(page))
	}
	c.emitProgress(true)
	return c.progress.RowsCopied, nil
}

// Stats returns the transfer counters accumulated by the last Copy call.
func (c *Copier) Stats() Progress {
	return c.progress
}

// insertWithRetry attempts one batch up to MaxRetries times with linearly
// increasing backoff. After exhaustion the batch is abandoned for good: its
// rows are not copied and the loop moves on.
func (c *Copier) insertWithRetry(ctx context.Context, table string, cols []string, rows [][]interface{}) bool {
	var err error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err = c.writer.InsertBatch(ctx, table, cols, rows); err == nil {
			return true
		}
		log.Printf("Warning: batch insert failed (attempt %d/%d): %v", attempt, c.cfg.MaxRetries, err)
		if attempt < c.cfg.MaxRetries {
			c.sleep(time.Duration(attempt) * c.cfg.RetryBaseDelay)
		}
	}
	log.Printf("Abandoning batch of %d rows after %d attempts: %v", len(rows), c.cfg.MaxRetries, err)
	return false
}

func (c *Copier) advance(n uint64) {
	before := c.progress.RowsCopied
	c.progress.RowsCopied += n
	if interval := c.cfg.CheckpointInterval; interval > 0 && before/interval != c.progress.RowsCopied/interval {
		s := c.progress.snapshot(time.Now())
		log.Printf("Checkpoint: %d/%d rows copied (%.1f%%, %.0f rows/sec)",
			c.progress.RowsCopied, c.progress.TotalRows, s.Pct, s.RowsPerSec)
	}
}

func (c *Copier) emitProgress(force bool) {
	if c.onProgress == nil {
		return
	}
	now := time.Now()
	if !force && now.Sub(c.progress.lastEmit) < c.cfg.ProgressInterval {
		return
	}
	c.progress.lastEmit = now
	c.onProgress(c.progress.snapshot(now))
}

// canonicalizeRow rewrites values that do not bind portably across engines.
// Date/time values become a canonical textual form in place.
func canonicalizeRow(row []interface{}) {
	for i, v := range row {
		if t, ok := v.(time.Time); ok {
			row[i] = t.Format("2006-01-02 15:04:05.999999")
		}
	}
}
