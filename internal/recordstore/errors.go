// Package recordstore holds the failure taxonomy shared by every record store
// implementation: transport failures and per-record rejections.
package recordstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable marks a transport or backend failure. Callers surface it and
// do not retry.
var ErrUnavailable = errors.New("record store unavailable")

// RecordFailure describes one rejected record of a batch.
type RecordFailure struct {
	Index   int
	Message string
}

// BatchFailure is returned when the store accepted the request but rejected
// one or more of its records.
type BatchFailure struct {
	Op       string
	Failures []RecordFailure
}

func (e *BatchFailure) Error() string {
	if len(e.Failures) == 0 || e.Failures[0].Message == "" {
		return fmt.Sprintf("failed to %s record", e.Op)
	}

	return e.Failures[0].Message
}

// Rejected builds a single-record BatchFailure.
func Rejected(op, message string) *BatchFailure {
	return &BatchFailure{Op: op, Failures: []RecordFailure{{Message: message}}}
}

// Unavailable wraps err so that it matches ErrUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// Classify maps a database error onto the taxonomy. Errors raised by the
// server about the record itself (constraint and data violations) become a
// BatchFailure; anything else is treated as the store being unavailable.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && isRecordError(pgErr.Code) {
		msg := pgErr.Message
		if pgErr.Detail != "" {
			msg += ": " + pgErr.Detail
		}

		return Rejected(op, msg)
	}

	return Unavailable(op, err)
}

// isRecordError reports whether the SQLSTATE belongs to class 22 (data
// exception) or 23 (integrity constraint violation).
func isRecordError(code string) bool {
	return strings.HasPrefix(code, "22") || strings.HasPrefix(code, "23")
}
