// Package program implements the on-ledger swap state-transition function:
// a pure function over a program-owned state account and a borsh-encoded
// swap instruction. The same codecs are used by the gateway client when it
// reads the record back, keeping both sides schema-compatible.
package program

import (
	"encoding/binary"
	"fmt"
)

// StateSize is the encoded byte length of SwapState. State accounts are
// allocated to exactly this size at creation and never grow.
const StateSize = 4

// InstructionSize is the encoded byte length of SwapInstruction.
const InstructionSize = 4

// SwapState is the record stored at the derived state account. Counter holds
// the destination amount of the most recent swap, not a running total.
type SwapState struct {
	Counter uint32
}

// Encode serializes the state as borsh (little-endian u32).
func (s SwapState) Encode() []byte {
	buf := make([]byte, StateSize)
	binary.LittleEndian.PutUint32(buf, s.Counter)
	return buf
}

// DecodeSwapState deserializes a state record.
func DecodeSwapState(data []byte) (SwapState, error) {
	if len(data) < StateSize {
		return SwapState{}, fmt.Errorf("state record too short: %d bytes", len(data))
	}
	return SwapState{Counter: binary.LittleEndian.Uint32(data)}, nil
}

// SwapInstruction carries the source-token quantity to exchange.
type SwapInstruction struct {
	Amount uint32 `json:"amount"`
}

// Encode serializes the instruction as borsh (little-endian u32).
func (i SwapInstruction) Encode() []byte {
	buf := make([]byte, InstructionSize)
	binary.LittleEndian.PutUint32(buf, i.Amount)
	return buf
}

// DecodeSwapInstruction deserializes instruction bytes.
func DecodeSwapInstruction(data []byte) (SwapInstruction, error) {
	if len(data) != InstructionSize {
		return SwapInstruction{}, fmt.Errorf("instruction must be %d bytes, got %d", InstructionSize, len(data))
	}
	return SwapInstruction{Amount: binary.LittleEndian.Uint32(data)}, nil
}
