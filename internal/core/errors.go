package core

import "fmt"

// MalformedItemError indicates an item that cannot be scored because it is
// missing required fields. The item is skipped and counted in diagnostics,
// never silently coerced.
type MalformedItemError struct {
	ItemID string
	Reason string
}

func (e *MalformedItemError) Error() string {
	return fmt.Sprintf("malformed item %q: %s", e.ItemID, e.Reason)
}

// SourceUnavailableError indicates a source adapter that failed to fetch or
// parse. The source contributes zero items and the run continues.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// OracleFailureError indicates a failed or empty oracle response for one
// narrative slot. The slot is marked incomplete and the run continues.
type OracleFailureError struct {
	Slot string
	Err  error
}

func (e *OracleFailureError) Error() string {
	return fmt.Sprintf("oracle failed for slot %s: %v", e.Slot, e.Err)
}

func (e *OracleFailureError) Unwrap() error { return e.Err }

// HistoryStoreError indicates the run history could not be read or written.
// The engine degrades to treating every cluster as having no history rather
// than aborting.
type HistoryStoreError struct {
	Op  string
	Err error
}

func (e *HistoryStoreError) Error() string {
	return fmt.Sprintf("history store %s: %v", e.Op, e.Err)
}

func (e *HistoryStoreError) Unwrap() error { return e.Err }
