package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order/inventory error taxonomy.
var (
	ErrDataCorruption         = errors.New("data corruption")
	ErrMissingBatchID         = errors.New("missing batch reference")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInsufficientInventory  = errors.New("insufficient inventory")
	ErrOptimisticLockConflict = errors.New("optimistic lock conflict")
	ErrTransactionFailed      = errors.New("transaction failed")
)

// DataCorruptionError indicates that an order's stored line-item payload
// could not be deserialized. The error always names the order so the
// payload can be repaired; corrupted payloads are never silently replaced
// with an empty item list.
type DataCorruptionError struct {
	OrderID int64
	Cause   error
}

// NewDataCorruptionError creates a DataCorruptionError for the given order.
func NewDataCorruptionError(orderID int64, cause error) *DataCorruptionError {
	return &DataCorruptionError{OrderID: orderID, Cause: cause}
}

func (e *DataCorruptionError) Error() string {
	msg := fmt.Sprintf("%s: order %d has an unreadable line-item payload; "+
		"repair the stored items column before retrying", ErrDataCorruption, e.OrderID)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *DataCorruptionError) Unwrap() error {
	return ErrDataCorruption
}

// MissingBatchIDError indicates that a non-sample line item lacks a
// resolvable batch reference.
type MissingBatchIDError struct {
	OrderID  int64
	ItemName string
}

// NewMissingBatchIDError creates a MissingBatchIDError naming the item.
func NewMissingBatchIDError(orderID int64, itemName string) *MissingBatchIDError {
	return &MissingBatchIDError{OrderID: orderID, ItemName: itemName}
}

func (e *MissingBatchIDError) Error() string {
	return fmt.Sprintf("%s: order %d item %q has no batch reference",
		ErrMissingBatchID, e.OrderID, e.ItemName)
}

func (e *MissingBatchIDError) Unwrap() error {
	return ErrMissingBatchID
}

// InvalidTransitionError indicates that a requested status change is not
// permitted from the current state. Detail carries the human-readable
// explanation produced by the transition table.
type InvalidTransitionError struct {
	Kind   string
	From   string
	To     string
	Detail string
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(kind, from, to, detail string) *InvalidTransitionError {
	return &InvalidTransitionError{Kind: kind, From: from, To: to, Detail: detail}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s %s -> %s: %s", ErrInvalidTransition, e.Kind, e.From, e.To, e.Detail)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InsufficientInventoryError indicates that a batch does not hold enough
// on-hand quantity to satisfy a shipment.
type InsufficientInventoryError struct {
	BatchID   int64
	Requested string
	OnHand    string
}

// NewInsufficientInventoryError creates an InsufficientInventoryError
// naming the short batch.
func NewInsufficientInventoryError(batchID int64, requested, onHand string) *InsufficientInventoryError {
	return &InsufficientInventoryError{BatchID: batchID, Requested: requested, OnHand: onHand}
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("%s: batch %d has %s on hand, %s requested",
		ErrInsufficientInventory, e.BatchID, e.OnHand, e.Requested)
}

func (e *InsufficientInventoryError) Unwrap() error {
	return ErrInsufficientInventory
}

// OptimisticLockConflictError indicates that the caller-supplied order
// version does not match the stored version.
type OptimisticLockConflictError struct {
	OrderID  int64
	Expected int64
	Actual   int64
}

// NewOptimisticLockConflictError creates an OptimisticLockConflictError.
func NewOptimisticLockConflictError(orderID, expected, actual int64) *OptimisticLockConflictError {
	return &OptimisticLockConflictError{OrderID: orderID, Expected: expected, Actual: actual}
}

func (e *OptimisticLockConflictError) Error() string {
	return fmt.Sprintf("%s: order %d version is %d, caller expected %d",
		ErrOptimisticLockConflict, e.OrderID, e.Actual, e.Expected)
}

func (e *OptimisticLockConflictError) Unwrap() error {
	return ErrOptimisticLockConflict
}

// TransactionFailedError indicates that the underlying database
// transaction could not complete. Retryable marks transient lock
// conditions (deadlock, serialization failure, lock wait timeout) that a
// caller may retry with backoff.
type TransactionFailedError struct {
	Retryable bool
	Cause     error
}

// NewTransactionFailedError creates a TransactionFailedError.
func NewTransactionFailedError(retryable bool, cause error) *TransactionFailedError {
	return &TransactionFailedError{Retryable: retryable, Cause: cause}
}

func (e *TransactionFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", ErrTransactionFailed, e.Cause)
	}
	return ErrTransactionFailed.Error()
}

func (e *TransactionFailedError) Unwrap() error {
	return ErrTransactionFailed
}

// IsRetryableTransactionError reports whether err is a transient
// transaction failure eligible for a bounded retry.
func IsRetryableTransactionError(err error) bool {
	var txErr *TransactionFailedError
	return errors.As(err, &txErr) && txErr.Retryable
}
