package swap

import (
	"context"
	"fmt"
	"time"

	"solana-swap-gateway/internal/solana"
)

// Confirmer waits for a submitted transaction to reach confirmed commitment.
type Confirmer interface {
	// WaitConfirmed blocks until the signature confirms, fails on chain, or
	// ctx expires. Returns the slot the transaction landed in.
	WaitConfirmed(ctx context.Context, signature string) (int64, error)
}

// PollingConfirmer confirms signatures by polling getSignatureStatuses.
type PollingConfirmer struct {
	rpc      solana.RPCClient
	interval time.Duration
}

// NewPollingConfirmer creates a confirmer polling at the given interval.
// A non-positive interval defaults to one second.
func NewPollingConfirmer(rpc solana.RPCClient, interval time.Duration) *PollingConfirmer {
	if interval <= 0 {
		interval = time.Second
	}
	return &PollingConfirmer{rpc: rpc, interval: interval}
}

var _ Confirmer = (*PollingConfirmer)(nil)

func (c *PollingConfirmer) WaitConfirmed(ctx context.Context, signature string) (int64, error) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, []string{signature})
		if err != nil {
			return 0, fmt.Errorf("get signature status: %w", err)
		}
		if len(statuses) > 0 && statuses[0] != nil {
			status := statuses[0]
			if status.Err != nil {
				return 0, fmt.Errorf("transaction %s failed on chain: %v", signature, status.Err)
			}
			if status.Confirmed() {
				return status.Slot, nil
			}
		}

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("%w: %s", ErrConfirmTimeout, signature)
		case <-ticker.C:
		}
	}
}

// WSConfirmer confirms signatures over a signatureSubscribe WebSocket
// subscription instead of polling.
type WSConfirmer struct {
	ws solana.WSClient
}

// NewWSConfirmer creates a confirmer backed by a WebSocket client.
func NewWSConfirmer(ws solana.WSClient) *WSConfirmer {
	return &WSConfirmer{ws: ws}
}

var _ Confirmer = (*WSConfirmer)(nil)

func (c *WSConfirmer) WaitConfirmed(ctx context.Context, signature string) (int64, error) {
	notifications, err := c.ws.SubscribeSignature(ctx, signature)
	if err != nil {
		return 0, fmt.Errorf("subscribe signature: %w", err)
	}

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %s", ErrConfirmTimeout, signature)
	case notification, ok := <-notifications:
		if !ok {
			return 0, fmt.Errorf("%w: subscription closed for %s", ErrConfirmTimeout, signature)
		}
		if notification.Err != nil {
			return 0, fmt.Errorf("transaction %s failed on chain: %v", signature, notification.Err)
		}
		return notification.Slot, nil
	}
}
