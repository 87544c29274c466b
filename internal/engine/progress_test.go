package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Throughput(t *testing.T) {
	now := time.Now()
	p := Progress{TotalRows: 100, RowsCopied: 50, StartTime: now.Add(-2 * time.Second)}

	s := p.snapshot(now)

	assert.InDelta(t, 50.0, s.Pct, 0.01)
	assert.InDelta(t, 25.0, s.RowsPerSec, 0.5)
	// 50 rows left at 25 rows/sec
	assert.InDelta(t, 2.0, s.ETA.Seconds(), 0.1)
}

func TestSnapshot_ZeroThroughputYieldsZeroETA(t *testing.T) {
	now := time.Now()
	p := Progress{TotalRows: 100, RowsCopied: 0, StartTime: now.Add(-time.Second)}

	s := p.snapshot(now)

	assert.Zero(t, s.RowsPerSec)
	assert.Zero(t, s.ETA)
	assert.Zero(t, s.Pct)
}

func TestSnapshot_CompleteHasNoETA(t *testing.T) {
	now := time.Now()
	p := Progress{TotalRows: 10, RowsCopied: 10, StartTime: now.Add(-time.Second)}

	s := p.snapshot(now)

	assert.InDelta(t, 100.0, s.Pct, 0.01)
	assert.Zero(t, s.ETA)
}
