// Package services contains domain services that implement business logic
// spanning multiple aggregates.
//
// The package includes:
//   - CogsCalculator: pure cost-of-goods and margin derivation per line item
//   - ReservationEngine: batch counter deltas driven by fulfillment transitions
//
// Services in this package are stateless and side-effect free with respect
// to persistence: they mutate in-memory aggregates that a caller has already
// loaded under row locks, and report the movements to record. Transaction
// management stays in the application layer.
package services
