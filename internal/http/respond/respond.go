// Package respond writes JSON bodies and maps domain errors onto HTTP status
// codes for every handler.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/budget/autosave"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/recordstore"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status is the HTTP status code for err.
func Status(err error) int {
	var batch *recordstore.BatchFailure

	switch {
	case errors.Is(err, budget.ErrCategoryNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, budget.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, autosave.ErrFormNotFound):
		return http.StatusNotFound
	case errors.Is(err, budget.ErrInvalid),
		errors.Is(err, budget.ErrInvalidLimit),
		errors.Is(err, budget.ErrYearMismatch),
		errors.Is(err, category.ErrInvalid),
		errors.Is(err, transaction.ErrInvalid),
		errors.Is(err, period.ErrInvalid),
		errors.Is(err, importer.ErrUnknownFormat),
		errors.Is(err, importer.ErrMalformed):
		return http.StatusBadRequest
	case errors.As(err, &batch):
		return http.StatusConflict
	case errors.Is(err, recordstore.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as plain text. Unclassified errors are logged and hidden
// from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", status)

		return
	}

	if status == http.StatusServiceUnavailable {
		slog.WarnContext(r.Context(), "record store unavailable", "path", r.URL.Path, "error", err)
	}

	http.Error(w, err.Error(), status)
}
