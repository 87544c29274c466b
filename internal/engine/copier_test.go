package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"db-copy/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	offset, limit uint64
}

type fakeReader struct {
	rows    [][]interface{}
	fetches []fetchCall
	err     error
}

func (r *fakeReader) FetchPage(ctx context.Context, table string, cols []string, offset, limit uint64) ([][]interface{}, error) {
	r.fetches = append(r.fetches, fetchCall{offset, limit})
	if r.err != nil {
		return nil, r.err
	}
	if offset >= uint64(len(r.rows)) {
		return nil, nil
	}
	end := offset + limit
	if end > uint64(len(r.rows)) {
		end = uint64(len(r.rows))
	}
	return r.rows[offset:end], nil
}

type fakeWriter struct {
	batches [][][]interface{} // successfully inserted batches
	calls   int
	fail    func(call int) error // nil means always succeed
	onOK    func()
}

func (w *fakeWriter) InsertBatch(ctx context.Context, table string, cols []string, rows [][]interface{}) error {
	call := w.calls
	w.calls++
	if w.fail != nil {
		if err := w.fail(call); err != nil {
			return err
		}
	}
	w.batches = append(w.batches, rows)
	if w.onOK != nil {
		w.onOK()
	}
	return nil
}

func makeRows(n int) [][]interface{} {
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = []interface{}{i + 1, fmt.Sprintf("row-%d", i+1)}
	}
	return rows
}

func testCols() []schema.Column {
	return []schema.Column{
		{Name: "id", DataType: "int(11)", IsPK: true},
		{Name: "val", DataType: "varchar(20)"},
	}
}

func testConfig() Config {
	return Config{
		BatchSize:          5,
		PageSize:           10,
		MaxRetries:         3,
		CheckpointInterval: 1000,
		RetryBaseDelay:     time.Millisecond,
	}
}

func TestCopy_PagesAndBatches(t *testing.T) {
	reader := &fakeReader{rows: makeRows(12)}
	writer := &fakeWriter{}
	c := NewCopier(reader, writer, testConfig(), nil)

	copied, err := c.Copy(context.Background(), "t1", 12, testCols())
	require.NoError(t, err)

	assert.Equal(t, uint64(12), copied)

	// two page fetches: 10 rows then the 2-row remainder
	require.Len(t, reader.fetches, 2)
	assert.Equal(t, fetchCall{0, 10}, reader.fetches[0])
	assert.Equal(t, fetchCall{10, 10}, reader.fetches[1])

	// three batches of sizes 5, 5, 2
	require.Len(t, writer.batches, 3)
	assert.Len(t, writer.batches[0], 5)
	assert.Len(t, writer.batches[1], 5)
	assert.Len(t, writer.batches[2], 2)

	stats := c.Stats()
	assert.Equal(t, uint64(3), stats.BatchesAttempted)
	assert.Equal(t, uint64(0), stats.BatchesFailed)
	assert.Equal(t, uint64(12), stats.RowsCopied)
}

func TestCopy_AllBatchesFailReturnsZeroWithoutError(t *testing.T) {
	reader := &fakeReader{rows: makeRows(12)}
	writer := &fakeWriter{fail: func(int) error { return errors.New("insert refused") }}
	cfg := testConfig()
	cfg.MaxRetries = 2

	c := NewCopier(reader, writer, cfg, nil)
	var delays []time.Duration
	c.sleep = func(d time.Duration) { delays = append(delays, d) }

	copied, err := c.Copy(context.Background(), "t1", 12, testCols())
	require.NoError(t, err)

	assert.Equal(t, uint64(0), copied)
	stats := c.Stats()
	assert.Equal(t, uint64(3), stats.BatchesAttempted)
	assert.Equal(t, uint64(3), stats.BatchesFailed)
	// every batch was tried MaxRetries times
	assert.Equal(t, 6, writer.calls)
	// one backoff per batch, after the first failed attempt only
	assert.Equal(t, []time.Duration{
		1 * cfg.RetryBaseDelay,
		1 * cfg.RetryBaseDelay,
		1 * cfg.RetryBaseDelay,
	}, delays)
}

func TestCopy_RetryThenSucceed(t *testing.T) {
	reader := &fakeReader{rows: makeRows(5)}
	writer := &fakeWriter{fail: func(call int) error {
		if call < 2 {
			return errors.New("deadlock")
		}
		return nil
	}}

	c := NewCopier(reader, writer, testConfig(), nil)
	var delays []time.Duration
	c.sleep = func(d time.Duration) { delays = append(delays, d) }

	copied, err := c.Copy(context.Background(), "t1", 5, testCols())
	require.NoError(t, err)

	assert.Equal(t, uint64(5), copied)
	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.BatchesAttempted)
	assert.Equal(t, uint64(0), stats.BatchesFailed)
	assert.Equal(t, 3, writer.calls)
	// linear backoff: exactly two delays, 1x then 2x the base
	assert.Equal(t, []time.Duration{
		1 * time.Millisecond,
		2 * time.Millisecond,
	}, delays)
}

func TestCopy_EmptyPageEndsEarly(t *testing.T) {
	// the advertised count is stale: only 7 rows actually exist
	reader := &fakeReader{rows: makeRows(7)}
	writer := &fakeWriter{}
	c := NewCopier(reader, writer, testConfig(), nil)

	copied, err := c.Copy(context.Background(), "t1", 100, testCols())
	require.NoError(t, err)

	assert.Equal(t, uint64(7), copied)
	// the second fetch came back empty and terminated the loop
	require.Len(t, reader.fetches, 2)
	assert.Equal(t, fetchCall{7, 10}, reader.fetches[1])
}

func TestCopy_CancelBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &fakeReader{rows: makeRows(12)}
	writer := &fakeWriter{onOK: cancel} // stop after the first committed batch

	c := NewCopier(reader, writer, testConfig(), nil)
	copied, err := c.Copy(ctx, "t1", 12, testCols())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(5), copied)
	require.Len(t, writer.batches, 1)
}

func TestCopy_FetchErrorAborts(t *testing.T) {
	reader := &fakeReader{err: errors.New("connection reset")}
	writer := &fakeWriter{}
	c := NewCopier(reader, writer, testConfig(), nil)

	copied, err := c.Copy(context.Background(), "t1", 12, testCols())

	assert.Error(t, err)
	assert.Equal(t, uint64(0), copied)
	assert.Zero(t, writer.calls)
}

func TestCopy_CanonicalizesTimestamps(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	reader := &fakeReader{rows: [][]interface{}{{1, ts}}}
	writer := &fakeWriter{}
	cfg := testConfig()
	cfg.BatchSize, cfg.PageSize = 1, 1

	c := NewCopier(reader, writer, cfg, nil)
	copied, err := c.Copy(context.Background(), "t1", 1, testCols())
	require.NoError(t, err)
	require.Equal(t, uint64(1), copied)

	require.Len(t, writer.batches, 1)
	assert.Equal(t, "2021-03-04 05:06:07", writer.batches[0][0][1])
}

func TestCopy_CheckpointLogOnIntervalCrossing(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	reader := &fakeReader{rows: makeRows(12)}
	writer := &fakeWriter{}
	cfg := testConfig()
	cfg.CheckpointInterval = 4

	c := NewCopier(reader, writer, cfg, nil)
	copied, err := c.Copy(context.Background(), "t1", 12, testCols())
	require.NoError(t, err)
	require.Equal(t, uint64(12), copied)

	// 5-row batches land at 5, 10 and 12 copied rows; each lands past a new
	// multiple of 4, so each logs exactly one checkpoint line
	assert.Equal(t, 3, strings.Count(buf.String(), "Checkpoint:"))
	assert.Contains(t, buf.String(), "12/12 rows copied")
}

func TestCopy_CheckpointSingleLineWhenBatchSpansBoundaries(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	reader := &fakeReader{rows: makeRows(5)}
	writer := &fakeWriter{}
	cfg := testConfig()
	cfg.CheckpointInterval = 2

	c := NewCopier(reader, writer, cfg, nil)
	_, err := c.Copy(context.Background(), "t1", 5, testCols())
	require.NoError(t, err)

	// one 5-row batch crosses the 2 and 4 marks at once: one line, not two
	assert.Equal(t, 1, strings.Count(buf.String(), "Checkpoint:"))
}

func TestCopy_CheckpointSilentBelowInterval(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	reader := &fakeReader{rows: makeRows(12)}
	writer := &fakeWriter{}
	c := NewCopier(reader, writer, testConfig(), nil) // interval 1000

	_, err := c.Copy(context.Background(), "t1", 12, testCols())
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "Checkpoint:")
}

func TestCopy_ProgressThrottled(t *testing.T) {
	var snaps []Snapshot
	reader := &fakeReader{rows: makeRows(12)}
	writer := &fakeWriter{}
	cfg := testConfig()
	cfg.ProgressInterval = time.Hour

	c := NewCopier(reader, writer, cfg, func(s Snapshot) { snaps = append(snaps, s) })
	_, err := c.Copy(context.Background(), "t1", 12, testCols())
	require.NoError(t, err)

	// the first batch emits immediately, the huge interval then swallows the
	// rest, and completion forces one last snapshot regardless
	require.Len(t, snaps, 2)
	assert.Equal(t, uint64(5), snaps[0].RowsCopied)
	assert.Equal(t, uint64(12), snaps[1].RowsCopied)
	assert.Equal(t, float64(100), snaps[1].Pct)
}

func TestCopy_ProgressEveryBatchWithZeroInterval(t *testing.T) {
	var snaps []Snapshot
	reader := &fakeReader{rows: makeRows(12)}
	writer := &fakeWriter{}
	cfg := testConfig()
	cfg.ProgressInterval = 0

	c := NewCopier(reader, writer, cfg, func(s Snapshot) { snaps = append(snaps, s) })
	_, err := c.Copy(context.Background(), "t1", 12, testCols())
	require.NoError(t, err)

	// three per-batch emissions plus the forced final one
	require.Len(t, snaps, 4)
	assert.Equal(t, uint64(12), snaps[3].RowsCopied)
}

func TestConfig_Validate(t *testing.T) {
	valid := testConfig()
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.BatchSize = 0
	assert.Error(t, bad.Validate())

	bad = valid
	bad.PageSize = valid.BatchSize - 1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.MaxRetries = 0
	assert.Error(t, bad.Validate())
}
