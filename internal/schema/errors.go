package schema

import "fmt"

// MetadataError is fatal: a copy cannot start without valid column metadata.
type MetadataError struct {
	Table string
	Err   error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata for table %s: %v", e.Table, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// CreationError is fatal: there is no safe fallback when DDL fails.
type CreationError struct {
	Table string
	Err   error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("create table %s: %v", e.Table, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }
