package swap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solana-swap-gateway/internal/solana"
	"solana-swap-gateway/internal/solana/stub"
)

func TestPollingConfirmerConfirms(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Statuses["sig-ok"] = &solana.SignatureStatus{
		Slot:               123,
		ConfirmationStatus: "confirmed",
	}

	confirmer := NewPollingConfirmer(rpc, 10*time.Millisecond)
	slot, err := confirmer.WaitConfirmed(context.Background(), "sig-ok")
	require.NoError(t, err)
	require.Equal(t, int64(123), slot)
}

func TestPollingConfirmerTimeout(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Statuses["sig-slow"] = &solana.SignatureStatus{
		ConfirmationStatus: "processed",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	confirmer := NewPollingConfirmer(rpc, 10*time.Millisecond)
	_, err := confirmer.WaitConfirmed(ctx, "sig-slow")
	require.ErrorIs(t, err, ErrConfirmTimeout)
}

func TestPollingConfirmerOnChainFailure(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Statuses["sig-bad"] = &solana.SignatureStatus{
		Err:                map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
		ConfirmationStatus: "confirmed",
	}

	confirmer := NewPollingConfirmer(rpc, 10*time.Millisecond)
	_, err := confirmer.WaitConfirmed(context.Background(), "sig-bad")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed on chain")
}

type fakeWSClient struct {
	notifications chan solana.SignatureNotification
	subscribeErr  error
}

func (f *fakeWSClient) SubscribeSignature(context.Context, string) (<-chan solana.SignatureNotification, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	return f.notifications, nil
}

func (f *fakeWSClient) Close() error { return nil }

func TestWSConfirmerConfirms(t *testing.T) {
	notifications := make(chan solana.SignatureNotification, 1)
	notifications <- solana.SignatureNotification{Slot: 456}

	confirmer := NewWSConfirmer(&fakeWSClient{notifications: notifications})
	slot, err := confirmer.WaitConfirmed(context.Background(), "sig")
	require.NoError(t, err)
	require.Equal(t, int64(456), slot)
}

func TestWSConfirmerOnChainFailure(t *testing.T) {
	notifications := make(chan solana.SignatureNotification, 1)
	notifications <- solana.SignatureNotification{Slot: 456, Err: "InstructionError"}

	confirmer := NewWSConfirmer(&fakeWSClient{notifications: notifications})
	_, err := confirmer.WaitConfirmed(context.Background(), "sig")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed on chain")
}

func TestWSConfirmerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	confirmer := NewWSConfirmer(&fakeWSClient{notifications: make(chan solana.SignatureNotification)})
	_, err := confirmer.WaitConfirmed(ctx, "sig")
	require.ErrorIs(t, err, ErrConfirmTimeout)
}

func TestWSConfirmerSubscribeError(t *testing.T) {
	confirmer := NewWSConfirmer(&fakeWSClient{subscribeErr: errors.New("connection closed")})
	_, err := confirmer.WaitConfirmed(context.Background(), "sig")
	require.Error(t, err)
}
