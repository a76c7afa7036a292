package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface the gateway consumes.
type RPCClient interface {
	// GetVersion retrieves the solana-core version of the connected node.
	GetVersion(ctx context.Context) (string, error)

	// GetBalance retrieves the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// RequestAirdrop requests test-cluster funding and returns the
	// funding transaction signature.
	RequestAirdrop(ctx context.Context, pubkey string, lamports uint64) (string, error)

	// GetMinimumBalanceForRentExemption retrieves the rent-exempt minimum
	// for an account of the given data size.
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)

	// GetLatestBlockhash retrieves a recent blockhash for transaction building.
	GetLatestBlockhash(ctx context.Context) (Blockhash, error)

	// SendTransaction submits a signed wire transaction and returns its signature.
	SendTransaction(ctx context.Context, wireTx []byte) (string, error)

	// GetSignatureStatuses retrieves confirmation status for signatures.
	// Entries are nil for unknown signatures.
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)

	// GetAccountInfo retrieves account info by public key. Returns nil
	// if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)
}
