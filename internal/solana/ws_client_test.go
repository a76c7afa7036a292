package solana

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newWSServer runs a websocket endpoint that confirms every subscription and
// then emits a signatureNotification for it.
func newWSServer(t *testing.T, notifErr interface{}) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if req.Method != "signatureSubscribe" {
				continue
			}

			subID := int64(req.ID) + 100
			err = conn.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  subID,
			})
			if err != nil {
				return
			}

			err = conn.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"method":  "signatureNotification",
				"params": map[string]interface{}{
					"subscription": subID,
					"result": map[string]interface{}{
						"context": map[string]interface{}{"slot": 42},
						"value":   map[string]interface{}{"err": notifErr},
					},
				},
			})
			if err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestSubscribeSignatureDeliversNotification(t *testing.T) {
	srv := newWSServer(t, nil)
	defer srv.Close()

	client, err := NewWSClient(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer client.Close()

	ch, err := client.SubscribeSignature(context.Background(), "some-signature")
	require.NoError(t, err)

	select {
	case notif := <-ch:
		require.Nil(t, notif.Err)
		require.Equal(t, int64(42), notif.Slot)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for signature notification")
	}
}

func TestSubscribeSignatureDeliversFailure(t *testing.T) {
	srv := newWSServer(t, map[string]interface{}{"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 4}}})
	defer srv.Close()

	client, err := NewWSClient(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	defer client.Close()

	ch, err := client.SubscribeSignature(context.Background(), "failed-signature")
	require.NoError(t, err)

	select {
	case notif := <-ch:
		require.NotNil(t, notif.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for signature notification")
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	srv := newWSServer(t, nil)
	defer srv.Close()

	client, err := NewWSClient(context.Background(), wsURL(srv), nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = client.SubscribeSignature(context.Background(), "some-signature")
	require.Error(t, err)
}
