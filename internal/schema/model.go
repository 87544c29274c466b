package schema

import "time"

// Column describes one source column. Instances are immutable once read; the
// slice order matches the source ordinal order and drives DDL column order,
// insert placeholder binding and page scanning alike.
type Column struct {
	Name     string
	DataType string // raw source type, e.g. varchar(120), tinyint(1)
	Nullable bool
	IsPK     bool
	Default  *string // nil when the column has no default
}

// TargetColumn is the mapped counterpart of a Column, one-to-one.
type TargetColumn struct {
	Name     string
	DataType string
	Nullable bool
	IsPK     bool
	Default  *string // target-side expression, ready for a DEFAULT clause
}

// Status classifies the outcome of a copy run.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusFailed   Status = "failed"
)

// PhaseTimings records per-phase wall clock durations.
type PhaseTimings struct {
	Introspect time.Duration
	Schema     time.Duration
	Transfer   time.Duration
	Verify     time.Duration
	Total      time.Duration
}

// VerifyResult is the outcome of the post-copy count comparison.
type VerifyResult struct {
	SourceCount uint64
	TargetCount uint64
	Matched     bool
}

// CopyReport is the final, machine-consumable record of one table copy.
type CopyReport struct {
	Table            string
	SizeMB           float64
	TotalRows        uint64
	RowsCopied       uint64
	BatchesAttempted uint64
	BatchesFailed    uint64
	Verify           VerifyResult
	Phases           PhaseTimings
	RowsPerSec       float64
	Status           Status
}
