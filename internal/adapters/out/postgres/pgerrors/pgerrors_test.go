package pgerrors_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/adapters/out/postgres/pgerrors"
	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify_RetryableCodes(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		t.Run("pgx "+code, func(t *testing.T) {
			err := pgerrors.Classify(&pgconn.PgError{Code: code})

			assert.ErrorIs(t, err, errs.ErrTransactionFailed)
			assert.True(t, errs.IsRetryableTransactionError(err))
		})

		t.Run("pq "+code, func(t *testing.T) {
			err := pgerrors.Classify(&pq.Error{Code: pq.ErrorCode(code)})

			assert.ErrorIs(t, err, errs.ErrTransactionFailed)
			assert.True(t, errs.IsRetryableTransactionError(err))
		})
	}
}

func TestClassify_OtherDriverErrorsAreNotRetryable(t *testing.T) {
	t.Run("pgx unique violation", func(t *testing.T) {
		err := pgerrors.Classify(&pgconn.PgError{Code: "23505"})

		assert.ErrorIs(t, err, errs.ErrTransactionFailed)
		assert.False(t, errs.IsRetryableTransactionError(err))
	})

	t.Run("pq unique violation", func(t *testing.T) {
		err := pgerrors.Classify(&pq.Error{Code: "23505"})

		assert.ErrorIs(t, err, errs.ErrTransactionFailed)
		assert.False(t, errs.IsRetryableTransactionError(err))
	})
}

func TestClassify_WrappedDriverError(t *testing.T) {
	t.Run("pgx", func(t *testing.T) {
		wrapped := fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"})

		assert.True(t, errs.IsRetryableTransactionError(pgerrors.Classify(wrapped)))
	})

	t.Run("pq", func(t *testing.T) {
		wrapped := fmt.Errorf("commit: %w", &pq.Error{Code: "40P01"})

		assert.True(t, errs.IsRetryableTransactionError(pgerrors.Classify(wrapped)))
	})
}

func TestClassify_PassesThroughDomainErrors(t *testing.T) {
	original := errs.NewObjectNotFoundError("orderID", int64(42))

	classified := pgerrors.Classify(original)

	assert.ErrorIs(t, classified, errs.ErrObjectNotFound)
	assert.NotErrorIs(t, classified, errs.ErrTransactionFailed)
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, pgerrors.Classify(nil))
}

func TestClassify_PlainError(t *testing.T) {
	plain := errors.New("boom")

	assert.Equal(t, plain, pgerrors.Classify(plain))
}
