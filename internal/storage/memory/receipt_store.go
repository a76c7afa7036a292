// Package memory implements the receipt journal in memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-swap-gateway/internal/domain"
	"solana-swap-gateway/internal/storage"
)

// ReceiptStore implements storage.ReceiptStore with an in-memory map.
// Safe for concurrent use.
type ReceiptStore struct {
	mu       sync.RWMutex
	receipts map[string]*domain.SwapReceipt
	nextID   int64
}

// NewReceiptStore creates a new in-memory ReceiptStore.
func NewReceiptStore() *ReceiptStore {
	return &ReceiptStore{receipts: make(map[string]*domain.SwapReceipt)}
}

// Compile-time interface check.
var _ storage.ReceiptStore = (*ReceiptStore)(nil)

// Insert adds a receipt. Returns storage.ErrDuplicateKey if the signature exists.
func (s *ReceiptStore) Insert(_ context.Context, receipt *domain.SwapReceipt) error {
	if receipt.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.receipts[receipt.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextID++
	stored := *receipt
	stored.ID = s.nextID
	s.receipts[receipt.Signature] = &stored
	return nil
}

// GetBySignature retrieves a receipt by transaction signature.
func (s *ReceiptStore) GetBySignature(_ context.Context, signature string) (*domain.SwapReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipt, ok := s.receipts[signature]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *receipt
	return &copied, nil
}

// List retrieves up to limit receipts, newest first.
func (s *ReceiptStore) List(_ context.Context, limit int) ([]*domain.SwapReceipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipts := make([]*domain.SwapReceipt, 0, len(s.receipts))
	for _, receipt := range s.receipts {
		copied := *receipt
		receipts = append(receipts, &copied)
	}

	sort.Slice(receipts, func(i, j int) bool {
		if receipts[i].SubmittedAt.Equal(receipts[j].SubmittedAt) {
			return receipts[i].ID > receipts[j].ID
		}
		return receipts[i].SubmittedAt.After(receipts[j].SubmittedAt)
	})

	if limit > 0 && len(receipts) > limit {
		receipts = receipts[:limit]
	}
	return receipts, nil
}
