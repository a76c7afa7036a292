// Package domain holds the gateway's core data types.
package domain

import "time"

// SwapReceipt records one confirmed (or rejected) swap submission for
// observability. The ledger record itself lives on the network; receipts are
// the gateway's own journal.
type SwapReceipt struct {
	ID          int64
	Signature   string // transaction signature, unique
	AmountIn    uint32 // source amount from the instruction
	AmountOut   uint32 // destination amount after pricing
	Counter     uint32 // state counter read back after confirmation
	Slot        int64  // slot the confirmation reported, 0 if unknown
	SubmittedAt time.Time
	CreatedAt   time.Time
}
