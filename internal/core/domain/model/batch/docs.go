// Package batch provides the inventory batch aggregate and its lifecycle
// state machine.
//
// The batch owns six quantity counters stored as decimal strings in the
// batches table. reserved, quarantine, and hold are sub-buckets within
// onHand; sample and defective sit outside it. The derived quantities are:
//
//	available = max(0, onHand − reserved − quarantine − hold)
//	total     = onHand + sample + defective
//
// All counter mutations go through the aggregate's mutator methods and
// must run inside a transaction holding a row lock on the batch.
package batch
