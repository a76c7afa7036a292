package swap

import (
	"context"
	"fmt"
	"log"

	"solana-swap-gateway/internal/keys"
	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana"
)

// StateSeed is the seed string both client and program use to derive the
// state account address from the player key.
const StateSeed = "swap"

// DeriveStateAddress computes the deterministic state account address for a
// player and program.
func DeriveStateAddress(playerAddress, programID string) (string, error) {
	return solana.CreateWithSeed(playerAddress, StateSeed, programID)
}

// EnsureStateAccount makes sure the derived state account exists, creating it
// with createAccountWithSeed when absent. An account that already exists is
// left untouched regardless of its contents.
func EnsureStateAccount(ctx context.Context, rpc solana.RPCClient, confirmer Confirmer, logger *log.Logger, player *keys.Keypair, programID string) (string, error) {
	address, err := DeriveStateAddress(player.Address(), programID)
	if err != nil {
		return "", fmt.Errorf("derive state address: %w", err)
	}

	info, err := rpc.GetAccountInfo(ctx, address)
	if err != nil {
		return "", fmt.Errorf("get state account: %w", err)
	}
	if info != nil {
		logger.Printf("state account %s exists, owner %s", address, info.Owner)
		return address, nil
	}

	rent, err := rpc.GetMinimumBalanceForRentExemption(ctx, program.StateSize)
	if err != nil {
		return "", fmt.Errorf("get rent exemption: %w", err)
	}

	instruction, err := solana.NewCreateAccountWithSeedInstruction(
		player.Address(), player.Address(), address, programID, StateSeed, rent, program.StateSize)
	if err != nil {
		return "", fmt.Errorf("build create instruction: %w", err)
	}

	blockhash, err := rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("get blockhash: %w", err)
	}

	tx := solana.NewTransaction(player.Address(), blockhash.Blockhash, instruction)
	if _, err := tx.Sign(player); err != nil {
		return "", fmt.Errorf("sign create transaction: %w", err)
	}
	wire, err := tx.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize create transaction: %w", err)
	}

	signature, err := rpc.SendTransaction(ctx, wire)
	if err != nil {
		return "", fmt.Errorf("send create transaction: %w", err)
	}
	logger.Printf("creating state account %s, signature %s", address, signature)

	if _, err := confirmer.WaitConfirmed(ctx, signature); err != nil {
		return "", fmt.Errorf("confirm state account creation: %w", err)
	}
	return address, nil
}
