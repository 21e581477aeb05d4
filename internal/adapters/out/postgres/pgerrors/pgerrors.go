// Package pgerrors classifies postgres driver errors for the
// transactional retry policy.
package pgerrors

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes that indicate the transaction lost a race and can be
// retried from the top: serialization failure, deadlock detected, and
// lock not available.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// Classify wraps a driver error into a TransactionFailedError, marking
// deadlock-class SQLSTATEs as retryable. Non-driver errors pass through
// untouched so domain errors keep their identity.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	code, ok := sqlState(err)
	if !ok {
		return err
	}

	switch code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return errs.NewTransactionFailedError(true, err)
	default:
		return errs.NewTransactionFailedError(false, err)
	}
}

// sqlState extracts the SQLSTATE code from either driver's error type.
// The gorm postgres driver connects through pgx, so production errors are
// *pgconn.PgError; lib/pq errors are recognized as well for connections
// opened through database/sql with the pq driver.
func sqlState(err error) (string, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	return "", false
}
