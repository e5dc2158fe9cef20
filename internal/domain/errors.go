package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels for errors.Is checks. The typed errors below wrap these so
// callers can branch on the kind without unpacking details.
var (
	// ErrValidation indicates a malformed or incomplete record.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates an assignment blocked by an absence or a
	// cross-project overlap.
	ErrConflict = errors.New("scheduling conflict")

	// ErrNotFound indicates a referenced project, site, resource or record
	// is missing.
	ErrNotFound = errors.New("not found")

	// ErrStore indicates an underlying persistence failure.
	ErrStore = errors.New("store failure")
)

// ValidationError reports a bad field on an incoming record. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports why an assignment was blocked, carrying the first
// conflicting day and record so callers can show the operator what is in the
// way.
type ConflictError struct {
	ResourceID    string
	Day           time.Time
	ConflictingID string
	Reason        string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: resource %s on %s: %s",
		e.ResourceID, e.Day.Format("2006-01-02"), e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StoreError wraps a persistence failure. Consolidation passes interrupted by
// one may leave partial state behind; re-running the pass is safe.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return ErrStore }
