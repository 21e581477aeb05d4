// Package order provides domain entities and business logic for the unified
// quote/sale order in the fulfillment system. It implements the Order
// aggregate root with lifecycle management and state transitions.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, totals, and lifecycle
//   - LineItem: The typed shape of the order's serialized item payload
//   - Three independent state machines (quote, sale, fulfillment) as adjacency maps
//
// Key business rules:
//   - Status transitions are validated against per-machine transition tables
//   - The fulfillment machine allows idempotent same-status transitions; the
//     sale and quote machines reject them
//   - A corrupted item payload fails loudly and is never replaced with an
//     empty item list
//   - Every successful mutation increments the order version for the
//     optimistic concurrency check
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
