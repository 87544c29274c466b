package engine

import "time"

// Progress tracks one transfer. It is owned exclusively by the Copier for the
// duration of a Copy call.
type Progress struct {
	TotalRows        uint64
	RowsCopied       uint64
	BatchesAttempted uint64
	BatchesFailed    uint64
	StartTime        time.Time

	lastEmit time.Time
}

// Snapshot is a point-in-time view handed to the progress callback.
type Snapshot struct {
	TotalRows  uint64
	RowsCopied uint64
	Pct        float64
	Elapsed    time.Duration
	RowsPerSec float64
	ETA        time.Duration
}

func (p *Progress) snapshot(now time.Time) Snapshot {
	s := Snapshot{
		TotalRows:  p.TotalRows,
		RowsCopied: p.RowsCopied,
		Elapsed:    now.Sub(p.StartTime),
	}
	if p.TotalRows > 0 {
		s.Pct = 100 * float64(p.RowsCopied) / float64(p.TotalRows)
	}
	if s.Elapsed > 0 {
		s.RowsPerSec = float64(p.RowsCopied) / s.Elapsed.Seconds()
	}
	// Zero or unknown throughput yields a zero ETA by convention.
	if s.RowsPerSec > 0 && p.TotalRows > p.RowsCopied {
		remaining := float64(p.TotalRows - p.RowsCopied)
		s.ETA = time.Duration(remaining / s.RowsPerSec * float64(time.Second))
	}
	return s
}
