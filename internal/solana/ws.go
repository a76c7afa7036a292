package solana

import "context"

// WSClient defines the Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeSignature subscribes to the confirmation of one signature.
	// The returned channel receives exactly one notification; the node
	// removes the subscription after delivering it.
	SubscribeSignature(ctx context.Context, signature string) (<-chan SignatureNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureNotification is a signatureSubscribe result message.
type SignatureNotification struct {
	Slot int64
	Err  interface{}
}
