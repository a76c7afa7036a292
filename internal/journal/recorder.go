// Package journal records swap receipts for observability. Recording is
// best-effort: a journal failure never fails the swap that produced it.
package journal

import (
	"context"
	"errors"
	"log"
	"time"

	"solana-swap-gateway/internal/domain"
	"solana-swap-gateway/internal/observability"
	"solana-swap-gateway/internal/storage"
)

// Recorder fans receipts out to every configured store.
type Recorder struct {
	stores  []storage.ReceiptStore
	logger  *log.Logger
	timeout time.Duration
}

// NewRecorder creates a Recorder over the given stores.
func NewRecorder(logger *log.Logger, stores ...storage.ReceiptStore) *Recorder {
	return &Recorder{
		stores:  stores,
		logger:  logger,
		timeout: 10 * time.Second,
	}
}

// Record inserts the receipt into every store, logging failures.
// Duplicate signatures are ignored: a resubmitted transaction keeps its
// first journal entry.
func (r *Recorder) Record(ctx context.Context, receipt *domain.SwapReceipt) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for _, store := range r.stores {
		err := store.Insert(ctx, receipt)
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			observability.RecordJournalError()
			r.logger.Printf("journal insert failed for %s: %v", receipt.Signature, err)
		}
	}
}
