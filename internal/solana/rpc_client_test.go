package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newRPCServer serves canned JSON-RPC results keyed by method name.
func newRPCServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, ok := results[req.Method]
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, result)
	}))
}

func TestGetVersion(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"getVersion": `{"solana-core":"2.1.0","feature-set":1234}`,
	})
	defer srv.Close()

	version, err := NewHTTPClient(srv.URL).GetVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2.1.0", version)
}

func TestGetBalance(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"getBalance": `{"context":{"slot":100},"value":5000000}`,
	})
	defer srv.Close()

	balance, err := NewHTTPClient(srv.URL).GetBalance(context.Background(), "SomePubkey")
	require.NoError(t, err)
	require.Equal(t, uint64(5000000), balance)
}

func TestRequestAirdrop(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"requestAirdrop": `"5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"`,
	})
	defer srv.Close()

	sig, err := NewHTTPClient(srv.URL).RequestAirdrop(context.Background(), "SomePubkey", 1000)
	require.NoError(t, err)
	require.NotEmpty(t, sig)
}

func TestGetMinimumBalanceForRentExemption(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"getMinimumBalanceForRentExemption": `918720`,
	})
	defer srv.Close()

	lamports, err := NewHTTPClient(srv.URL).GetMinimumBalanceForRentExemption(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, uint64(918720), lamports)
}

func TestGetLatestBlockhash(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"getLatestBlockhash": `{"context":{"slot":100},"value":{"blockhash":"4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi","lastValidBlockHeight":3090}}`,
	})
	defer srv.Close()

	bh, err := NewHTTPClient(srv.URL).GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	require.Equal(t, "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi", bh.Blockhash)
	require.Equal(t, uint64(3090), bh.LastValidBlockHeight)
}

func TestSendTransactionEncodesBase64(t *testing.T) {
	var gotParams []interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "sendTransaction", req.Method)
		gotParams = req.Params
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":"some-signature"}`, req.ID)
	}))
	defer srv.Close()

	wire := []byte{1, 2, 3, 4}
	sig, err := NewHTTPClient(srv.URL).SendTransaction(context.Background(), wire)
	require.NoError(t, err)
	require.Equal(t, "some-signature", sig)

	require.Len(t, gotParams, 2)
	require.Equal(t, base64.StdEncoding.EncodeToString(wire), gotParams[0])
}

func TestSendTransactionRejectionNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32002,"message":"Transaction simulation failed: custom program error: 0x4"}}`, req.ID)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).SendTransaction(context.Background(), []byte{1})
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	require.Equal(t, -32002, rpcErr.Code)
	require.Equal(t, 1, calls, "RPC-level rejections must not be retried")
}

func TestGetSignatureStatuses(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"getSignatureStatuses": `{"context":{"slot":100},"value":[{"slot":98,"confirmations":3,"err":null,"confirmationStatus":"confirmed"},null]}`,
	})
	defer srv.Close()

	statuses, err := NewHTTPClient(srv.URL).GetSignatureStatuses(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.True(t, statuses[0].Confirmed())
	require.Nil(t, statuses[1])
	require.False(t, statuses[1].Confirmed())
}

func TestGetAccountInfoMissing(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"getAccountInfo": `{"context":{"slot":100},"value":null}`,
	})
	defer srv.Close()

	info, err := NewHTTPClient(srv.URL).GetAccountInfo(context.Background(), "SomePubkey")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestGetAccountInfoDataBytes(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte{42, 0, 0, 0})
	srv := newRPCServer(t, map[string]string{
		"getAccountInfo": fmt.Sprintf(`{"context":{"slot":100},"value":{"lamports":918720,"owner":"ProgOwner","data":["%s","base64"],"executable":false,"rentEpoch":0}}`, data),
	})
	defer srv.Close()

	info, err := NewHTTPClient(srv.URL).GetAccountInfo(context.Background(), "SomePubkey")
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "ProgOwner", info.Owner)

	raw, err := info.DataBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{42, 0, 0, 0}, raw)
}

func TestCallRetriesTransportErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":100}`, req.ID)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, WithMaxRetries(2))
	client.retryDelay = 0

	lamports, err := client.GetMinimumBalanceForRentExemption(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, uint64(100), lamports)
	require.Equal(t, 2, calls)
}
