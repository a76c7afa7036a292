package swap

import (
	"context"
	"fmt"
	"log"
	"time"

	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana"
)

// feeAllowance is the lamport budget kept on the player account for
// transaction fees beyond the state account rent.
const feeAllowance = 100_000_000

// EnsureFunded tops the player account up to cover state account rent plus a
// fee allowance, requesting a test-cluster airdrop for the deficit.
func EnsureFunded(ctx context.Context, rpc solana.RPCClient, logger *log.Logger, address string) error {
	rent, err := rpc.GetMinimumBalanceForRentExemption(ctx, program.StateSize)
	if err != nil {
		return fmt.Errorf("get rent exemption: %w", err)
	}
	required := rent + feeAllowance

	balance, err := rpc.GetBalance(ctx, address)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}
	if balance >= required {
		return nil
	}

	deficit := required - balance
	logger.Printf("funding %s: balance %d below required %d, requesting %d lamports", address, balance, required, deficit)

	if _, err := rpc.RequestAirdrop(ctx, address, deficit); err != nil {
		return fmt.Errorf("%w: %v", ErrFundingRejected, err)
	}

	// Airdrops land asynchronously; poll until the balance reflects it.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		balance, err = rpc.GetBalance(ctx, address)
		if err != nil {
			return fmt.Errorf("get balance: %w", err)
		}
		if balance >= required {
			logger.Printf("funded %s: balance %d lamports", address, balance)
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: airdrop never credited", ErrFundingRejected)
		case <-ticker.C:
		}
	}
}
