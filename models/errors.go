package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError reports malformed input. It is raised before any store
// call is issued, so the caller's state is guaranteed unchanged.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// ConflictError reports a duplicate attendance record for a (student, date)
// pair. The store enforces one record per student per day.
type ConflictError struct {
	StudentID string
	Date      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("attendance record already exists for student %s on %s", e.StudentID, e.Date)
}

// NotFoundError reports an unknown record id or student.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// BusyError reports a re-entrant save attempt on a draft that already has a
// save in flight.
type BusyError struct {
	DraftID string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("save already in progress for draft %s", e.DraftID)
}

// StoreError wraps an opaque transport/database failure. The wrapped cause
// is kept for logging; callers only branch on the type.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

// IsUniqueViolation checks whether err is a PostgreSQL unique constraint
// violation on the given constraint/index name (SQLSTATE 23505).
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraint))
	}
	return false
}
