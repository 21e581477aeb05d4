package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each
// request/command. This ensures proper isolation between concurrent
// operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and hands out repositories bound to
// the current transaction. Client code must explicitly manage the
// transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current
	// transaction.
	OrderRepository() OrderRepository

	// BatchRepository returns a BatchRepository bound to the current
	// transaction.
	BatchRepository() BatchRepository

	// StatusHistoryRepository returns a StatusHistoryRepository bound
	// to the current transaction.
	StatusHistoryRepository() StatusHistoryRepository

	// MovementRepository returns a MovementRepository bound to the
	// current transaction.
	MovementRepository() MovementRepository

	// AccountingGateway returns an AccountingGateway bound to the
	// current transaction.
	AccountingGateway() AccountingGateway

	// PayablesGateway returns a PayablesGateway bound to the current
	// transaction.
	PayablesGateway() PayablesGateway
}
