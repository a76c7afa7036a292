package swap

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana"
)

// Swap pipeline errors.
var (
	// ErrNetworkUnavailable is returned when the RPC node cannot be reached
	// during bootstrap.
	ErrNetworkUnavailable = errors.New("solana network unavailable")

	// ErrFundingRejected is returned when the cluster refuses an airdrop or
	// the funded balance never becomes visible.
	ErrFundingRejected = errors.New("funding rejected")

	// ErrConfirmTimeout is returned when a transaction does not reach
	// confirmed commitment within the confirmation window.
	ErrConfirmTimeout = errors.New("confirmation timed out")

	// ErrStateNotFound is returned when the state account does not exist on
	// the cluster.
	ErrStateNotFound = errors.New("state account not found")

	// ErrStateDecode is returned when the state account holds data the
	// program layout cannot decode.
	ErrStateDecode = errors.New("state account data undecodable")
)

// RejectedError is a swap the on-chain program refused. Unwrap exposes the
// program-level sentinel so callers can match specific rejection causes.
type RejectedError struct {
	Code  uint32
	cause error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("swap rejected by program: %v (code 0x%x)", e.cause, e.Code)
}

func (e *RejectedError) Unwrap() error {
	return e.cause
}

// customErrorPattern matches the program error code the node embeds in
// preflight failure messages.
var customErrorPattern = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// classifySendError maps a sendTransaction failure to a RejectedError when
// the node reports a custom program error. Other failures pass through.
func classifySendError(err error) error {
	var rpcErr *solana.RPCError
	if !errors.As(err, &rpcErr) {
		return err
	}

	match := customErrorPattern.FindStringSubmatch(rpcErr.Message)
	if match == nil {
		match = customErrorPattern.FindStringSubmatch(string(rpcErr.Data))
	}
	if match == nil {
		return err
	}

	code, parseErr := strconv.ParseUint(match[1], 16, 32)
	if parseErr != nil {
		return err
	}
	return &RejectedError{Code: uint32(code), cause: program.FromCode(uint32(code))}
}
