// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. These abstractions ensure data consistency across aggregate
// boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderUoW manages transactions for operations touching only the
	// order aggregate and its financial collaborators. Used by payment
	// recording and overdue marking.
	OrderUoW interface {
		TxManager
		OrderRepository() ports.OrderRepository
		StatusHistoryRepository() ports.StatusHistoryRepository
		AccountingGateway() ports.AccountingGateway
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// FulfillmentUoW manages transactions that move inventory alongside
	// the order: creation, status transitions, and restock.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   batchRepo := uow.BatchRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	FulfillmentUoW interface {
		TxManager
		OrderRepository() ports.OrderRepository
		BatchRepository() ports.BatchRepository
		StatusHistoryRepository() ports.StatusHistoryRepository
		MovementRepository() ports.MovementRepository
		AccountingGateway() ports.AccountingGateway
		PayablesGateway() ports.PayablesGateway
	}

	// FulfillmentUoWFactory creates new unit of work instances for
	// inventory-touching operations.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}
)
