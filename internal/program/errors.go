package program

import "fmt"

// TransitionError is a state-transition failure with a stable numeric code.
// The code is what a rejected on-network transaction reports back
// ("custom program error: 0xN"), so client-side mapping stays exact.
type TransitionError struct {
	Code    uint32
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition error %#x: %s", e.Code, e.Message)
}

// Transition failures, in the order the checks run.
var (
	// ErrMissingAccount: the instruction carried no state account.
	ErrMissingAccount = &TransitionError{Code: 0x1, Message: "missing state account"}

	// ErrUnauthorized: the state account is not owned by this program.
	ErrUnauthorized = &TransitionError{Code: 0x2, Message: "account not owned by program"}

	// ErrMalformedInstruction: the instruction bytes did not decode.
	ErrMalformedInstruction = &TransitionError{Code: 0x3, Message: "malformed swap instruction"}

	// ErrZeroAmount: a zero operand is a degenerate trade, not a zero-value one.
	ErrZeroAmount = &TransitionError{Code: 0x4, Message: "zero swap amount"}

	// ErrArithmeticOverflow: amount * price exceeds the counter width.
	ErrArithmeticOverflow = &TransitionError{Code: 0x5, Message: "swap amount overflow"}

	// ErrCorruptState: the stored state record did not decode.
	ErrCorruptState = &TransitionError{Code: 0x6, Message: "corrupt state record"}

	// ErrBufferTooSmall: the account buffer cannot hold the re-encoded record.
	ErrBufferTooSmall = &TransitionError{Code: 0x7, Message: "state buffer too small"}
)

var byCode = map[uint32]*TransitionError{
	ErrMissingAccount.Code:       ErrMissingAccount,
	ErrUnauthorized.Code:         ErrUnauthorized,
	ErrMalformedInstruction.Code: ErrMalformedInstruction,
	ErrZeroAmount.Code:           ErrZeroAmount,
	ErrArithmeticOverflow.Code:   ErrArithmeticOverflow,
	ErrCorruptState.Code:         ErrCorruptState,
	ErrBufferTooSmall.Code:       ErrBufferTooSmall,
}

// FromCode maps a custom program error code back to its TransitionError.
// Unknown codes yield a generic TransitionError carrying the code.
func FromCode(code uint32) *TransitionError {
	if err, ok := byCode[code]; ok {
		return err
	}
	return &TransitionError{Code: code, Message: "unknown program error"}
}
