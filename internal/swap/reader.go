package swap

import (
	"context"
	"fmt"

	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana"
)

// ReadState fetches and decodes the swap state account.
func ReadState(ctx context.Context, rpc solana.RPCClient, stateAddress string) (program.SwapState, error) {
	info, err := rpc.GetAccountInfo(ctx, stateAddress)
	if err != nil {
		return program.SwapState{}, fmt.Errorf("get state account: %w", err)
	}
	if info == nil {
		return program.SwapState{}, fmt.Errorf("%w: %s", ErrStateNotFound, stateAddress)
	}

	raw, err := info.DataBytes()
	if err != nil {
		return program.SwapState{}, fmt.Errorf("%w: %v", ErrStateDecode, err)
	}
	state, err := program.DecodeSwapState(raw)
	if err != nil {
		return program.SwapState{}, fmt.Errorf("%w: %v", ErrStateDecode, err)
	}
	return state, nil
}
