package swap

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana/stub"
)

func TestEnsureFundedSkipsWhenFunded(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Balances["player"] = 10_000_000_000

	err := EnsureFunded(context.Background(), rpc, log.New(io.Discard, "", 0), "player")
	require.NoError(t, err)
	require.Empty(t, rpc.Airdrops)
}

func TestEnsureFundedAirdropsDeficit(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Balances["player"] = 1000

	err := EnsureFunded(context.Background(), rpc, log.New(io.Discard, "", 0), "player")
	require.NoError(t, err)

	rent, rentErr := rpc.GetMinimumBalanceForRentExemption(context.Background(), program.StateSize)
	require.NoError(t, rentErr)

	require.Len(t, rpc.Airdrops, 1)
	require.Equal(t, rent+feeAllowance-1000, rpc.Airdrops[0].Lamports)
}

func TestEnsureFundedAirdropRefused(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AirdropErr = context.DeadlineExceeded

	err := EnsureFunded(context.Background(), rpc, log.New(io.Discard, "", 0), "player")
	require.ErrorIs(t, err, ErrFundingRejected)
}
