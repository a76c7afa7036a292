// Package stub provides in-memory doubles for the solana interfaces.
package stub

import (
	"context"
	"fmt"
	"sync"

	"solana-swap-gateway/internal/solana"
)

// RPCClient implements solana.RPCClient for testing. All fields are guarded
// by one mutex so tests can drive it from handler goroutines.
type RPCClient struct {
	mu sync.Mutex

	Version   string
	Balances  map[string]uint64
	Accounts  map[string]*solana.AccountInfo
	RentRates map[uint64]uint64 // size -> lamports

	// Statuses holds the status returned for any known signature.
	Statuses map[string]*solana.SignatureStatus

	// Airdrops records (pubkey, lamports) funding requests.
	Airdrops []Airdrop

	// SentTransactions records raw wire transactions passed to SendTransaction.
	SentTransactions [][]byte

	// Errors to inject per method; nil means success.
	BalanceErr error
	AirdropErr error
	SendErr    error
	StatusErr  error
	AccountErr error

	// OnSend, when set, runs for each SendTransaction call and produces
	// the returned signature. Lets tests wire a simulator behind sends.
	OnSend func(wireTx []byte) (string, error)

	nextSig int
}

// Airdrop is a recorded funding request.
type Airdrop struct {
	Pubkey   string
	Lamports uint64
}

// NewRPCClient creates a stub with empty tables.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Version:   "2.1.0",
		Balances:  make(map[string]uint64),
		Accounts:  make(map[string]*solana.AccountInfo),
		RentRates: make(map[uint64]uint64),
		Statuses:  make(map[string]*solana.SignatureStatus),
	}
}

var _ solana.RPCClient = (*RPCClient)(nil)

func (c *RPCClient) GetVersion(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Version, nil
}

func (c *RPCClient) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.BalanceErr != nil {
		return 0, c.BalanceErr
	}
	return c.Balances[pubkey], nil
}

func (c *RPCClient) RequestAirdrop(_ context.Context, pubkey string, lamports uint64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AirdropErr != nil {
		return "", c.AirdropErr
	}
	c.Airdrops = append(c.Airdrops, Airdrop{Pubkey: pubkey, Lamports: lamports})
	c.Balances[pubkey] += lamports

	sig := c.newSignature("airdrop")
	c.Statuses[sig] = &solana.SignatureStatus{ConfirmationStatus: "finalized"}
	return sig, nil
}

func (c *RPCClient) GetMinimumBalanceForRentExemption(_ context.Context, size uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rate, ok := c.RentRates[size]; ok {
		return rate, nil
	}
	// Mirror of the on-chain formula's shape: flat cost per byte.
	return 890880 + size*6960, nil
}

func (c *RPCClient) GetLatestBlockhash(context.Context) (solana.Blockhash, error) {
	return solana.Blockhash{
		// 32 bytes of 0x01 in base58.
		Blockhash:            "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi",
		LastValidBlockHeight: 1000,
	}, nil
}

func (c *RPCClient) SendTransaction(_ context.Context, wireTx []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SendErr != nil {
		return "", c.SendErr
	}
	c.SentTransactions = append(c.SentTransactions, append([]byte(nil), wireTx...))

	if c.OnSend != nil {
		sig, err := c.OnSend(wireTx)
		if err != nil {
			return "", err
		}
		if c.Statuses[sig] == nil {
			c.Statuses[sig] = &solana.SignatureStatus{ConfirmationStatus: "confirmed"}
		}
		return sig, nil
	}

	sig := c.newSignature("tx")
	c.Statuses[sig] = &solana.SignatureStatus{ConfirmationStatus: "confirmed"}
	return sig, nil
}

func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures []string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.StatusErr != nil {
		return nil, c.StatusErr
	}
	statuses := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		statuses[i] = c.Statuses[sig]
	}
	return statuses, nil
}

func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AccountErr != nil {
		return nil, c.AccountErr
	}
	return c.Accounts[pubkey], nil
}

func (c *RPCClient) newSignature(prefix string) string {
	c.nextSig++
	return fmt.Sprintf("%s-signature-%d", prefix, c.nextSig)
}
