// Package storage defines the journal store interfaces.
package storage

import (
	"context"

	"solana-swap-gateway/internal/domain"
)

// ReceiptStore persists swap receipts.
type ReceiptStore interface {
	// Insert adds a receipt. Returns ErrDuplicateKey if the signature exists.
	Insert(ctx context.Context, receipt *domain.SwapReceipt) error

	// GetBySignature retrieves a receipt by transaction signature.
	// Returns ErrNotFound if absent.
	GetBySignature(ctx context.Context, signature string) (*domain.SwapReceipt, error)

	// List retrieves up to limit receipts, newest first.
	List(ctx context.Context, limit int) ([]*domain.SwapReceipt, error)
}
