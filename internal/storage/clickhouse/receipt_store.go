package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"solana-swap-gateway/internal/domain"
	"solana-swap-gateway/internal/storage"
)

// ReceiptStore implements storage.ReceiptStore using ClickHouse.
// MergeTree does not enforce uniqueness at insert time; duplicates are
// screened with an explicit existence check and collapsed by
// ReplacingMergeTree on merge.
type ReceiptStore struct {
	conn *Conn
}

// NewReceiptStore creates a new ReceiptStore.
func NewReceiptStore(conn *Conn) *ReceiptStore {
	return &ReceiptStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ReceiptStore = (*ReceiptStore)(nil)

// Insert adds a receipt. Returns storage.ErrDuplicateKey if the signature exists.
func (s *ReceiptStore) Insert(ctx context.Context, receipt *domain.SwapReceipt) error {
	if receipt.Signature == "" {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, receipt.Signature)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO swap_receipts (
			signature, amount_in, amount_out, counter, slot, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	err = s.conn.Exec(ctx, query,
		receipt.Signature,
		receipt.AmountIn,
		receipt.AmountOut,
		receipt.Counter,
		receipt.Slot,
		receipt.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// GetBySignature retrieves a receipt by transaction signature.
func (s *ReceiptStore) GetBySignature(ctx context.Context, signature string) (*domain.SwapReceipt, error) {
	query := `
		SELECT signature, amount_in, amount_out, counter, slot, submitted_at
		FROM swap_receipts FINAL
		WHERE signature = ?
	`

	var (
		receipt     domain.SwapReceipt
		submittedAt time.Time
	)
	row := s.conn.QueryRow(ctx, query, signature)
	err := row.Scan(
		&receipt.Signature,
		&receipt.AmountIn,
		&receipt.AmountOut,
		&receipt.Counter,
		&receipt.Slot,
		&submittedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get receipt by signature: %w", err)
	}
	receipt.SubmittedAt = submittedAt
	return &receipt, nil
}

// List retrieves up to limit receipts, newest first.
func (s *ReceiptStore) List(ctx context.Context, limit int) ([]*domain.SwapReceipt, error) {
	query := `
		SELECT signature, amount_in, amount_out, counter, slot, submitted_at
		FROM swap_receipts FINAL
		ORDER BY submitted_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*domain.SwapReceipt
	for rows.Next() {
		var (
			receipt     domain.SwapReceipt
			submittedAt time.Time
		)
		err := rows.Scan(
			&receipt.Signature,
			&receipt.AmountIn,
			&receipt.AmountOut,
			&receipt.Counter,
			&receipt.Slot,
			&submittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipt.SubmittedAt = submittedAt
		receipts = append(receipts, &receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}
	return receipts, nil
}

// exists checks whether a signature is already journaled.
func (s *ReceiptStore) exists(ctx context.Context, signature string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx,
		`SELECT count() FROM swap_receipts WHERE signature = ?`, signature)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// isNoRows checks for the driver's no-rows condition.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
