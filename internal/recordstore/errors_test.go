package recordstore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/recordstore"
)

func TestClassify(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, recordstore.Classify("create", nil))
	})

	t.Run("ConstraintViolation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23514", Message: "violates check constraint", Detail: "monthly_limit"}
		err := recordstore.Classify("create", fmt.Errorf("inserting: %w", pgErr))

		var batch *recordstore.BatchFailure
		require.ErrorAs(t, err, &batch)
		assert.Equal(t, "create", batch.Op)
		assert.Equal(t, "violates check constraint: monthly_limit", err.Error())
		assert.NotErrorIs(t, err, recordstore.ErrUnavailable)
	})

	t.Run("ServerErrorOutsideRecordClasses", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "57P01", Message: "terminating connection"}
		err := recordstore.Classify("update", pgErr)

		assert.ErrorIs(t, err, recordstore.ErrUnavailable)
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("Transport", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := recordstore.Classify("list", cause)

		assert.ErrorIs(t, err, recordstore.ErrUnavailable)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "list")
	})
}

func TestBatchFailure_Error(t *testing.T) {
	empty := &recordstore.BatchFailure{Op: "update"}
	assert.Equal(t, "failed to update record", empty.Error())

	multi := &recordstore.BatchFailure{Op: "create", Failures: []recordstore.RecordFailure{
		{Index: 0, Message: "first"},
		{Index: 1, Message: "second"},
	}}
	assert.Equal(t, "first", multi.Error())
}
