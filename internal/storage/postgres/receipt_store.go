package postgres

import (
	"context"
	"fmt"

	"solana-swap-gateway/internal/domain"
	"solana-swap-gateway/internal/storage"
)

// ReceiptStore implements storage.ReceiptStore using PostgreSQL.
type ReceiptStore struct {
	pool *Pool
}

// NewReceiptStore creates a new ReceiptStore.
func NewReceiptStore(pool *Pool) *ReceiptStore {
	return &ReceiptStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ReceiptStore = (*ReceiptStore)(nil)

// Insert adds a receipt. Returns storage.ErrDuplicateKey if the signature exists.
func (s *ReceiptStore) Insert(ctx context.Context, receipt *domain.SwapReceipt) error {
	if receipt.Signature == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO swap_receipts (
			signature, amount_in, amount_out, counter, slot, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		receipt.Signature,
		int64(receipt.AmountIn),
		int64(receipt.AmountOut),
		int64(receipt.Counter),
		receipt.Slot,
		receipt.SubmittedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// GetBySignature retrieves a receipt by transaction signature.
func (s *ReceiptStore) GetBySignature(ctx context.Context, signature string) (*domain.SwapReceipt, error) {
	query := `
		SELECT id, signature, amount_in, amount_out, counter, slot, submitted_at, created_at
		FROM swap_receipts
		WHERE signature = $1
	`

	receipt, err := scanReceipt(s.pool.QueryRow(ctx, query, signature))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get receipt by signature: %w", err)
	}
	return receipt, nil
}

// List retrieves up to limit receipts, newest first.
func (s *ReceiptStore) List(ctx context.Context, limit int) ([]*domain.SwapReceipt, error) {
	query := `
		SELECT id, signature, amount_in, amount_out, counter, slot, submitted_at, created_at
		FROM swap_receipts
		ORDER BY submitted_at DESC, id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*domain.SwapReceipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}
	return receipts, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*domain.SwapReceipt, error) {
	var (
		receipt   domain.SwapReceipt
		amountIn  int64
		amountOut int64
		counter   int64
	)
	err := row.Scan(
		&receipt.ID,
		&receipt.Signature,
		&amountIn,
		&amountOut,
		&counter,
		&receipt.Slot,
		&receipt.SubmittedAt,
		&receipt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	receipt.AmountIn = uint32(amountIn)
	receipt.AmountOut = uint32(amountOut)
	receipt.Counter = uint32(counter)
	return &receipt, nil
}
