package solana

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// SystemProgramID is the address of the Solana system program.
const SystemProgramID = "11111111111111111111111111111111"

// systemCreateAccountWithSeed is the system program instruction index.
const systemCreateAccountWithSeed = 3

// Signer signs transaction messages. keys.Keypair satisfies it.
type Signer interface {
	Public() ed25519.PublicKey
	Sign(message []byte) []byte
}

// AccountMeta describes how an instruction touches an account.
type AccountMeta struct {
	Pubkey     string
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single program invocation within a transaction.
type Instruction struct {
	ProgramID string
	Accounts  []AccountMeta
	Data      []byte
}

// NewProgramInstruction builds an instruction invoking programID against a
// single writable state account.
func NewProgramInstruction(programID, stateAccount string, data []byte) Instruction {
	return Instruction{
		ProgramID: programID,
		Accounts: []AccountMeta{
			{Pubkey: stateAccount, IsWritable: true},
		},
		Data: data,
	}
}

// NewCreateAccountWithSeedInstruction builds the system-program instruction
// creating an account at the address derived from (base, seed, owner). The
// funder pays lamports; base must sign.
func NewCreateAccountWithSeedInstruction(funder, base, created, owner, seed string, lamports, space uint64) (Instruction, error) {
	baseBytes, err := base58.Decode(base)
	if err != nil {
		return Instruction{}, fmt.Errorf("decode base pubkey: %w", err)
	}
	ownerBytes, err := base58.Decode(owner)
	if err != nil {
		return Instruction{}, fmt.Errorf("decode owner pubkey: %w", err)
	}

	// bincode layout: u32 index | base | seed (u64 len + bytes) | lamports | space | owner
	data := make([]byte, 0, 4+32+8+len(seed)+8+8+32)
	data = binary.LittleEndian.AppendUint32(data, systemCreateAccountWithSeed)
	data = append(data, baseBytes...)
	data = binary.LittleEndian.AppendUint64(data, uint64(len(seed)))
	data = append(data, seed...)
	data = binary.LittleEndian.AppendUint64(data, lamports)
	data = binary.LittleEndian.AppendUint64(data, space)
	data = append(data, ownerBytes...)

	metas := []AccountMeta{
		{Pubkey: funder, IsSigner: true, IsWritable: true},
		{Pubkey: created, IsWritable: true},
	}
	if base != funder {
		metas = append(metas, AccountMeta{Pubkey: base, IsSigner: true})
	}

	return Instruction{
		ProgramID: SystemProgramID,
		Accounts:  metas,
		Data:      data,
	}, nil
}

// CreateWithSeed derives the deterministic address sha256(base ‖ seed ‖ owner),
// matching the system program's createAccountWithSeed derivation. Both client
// and program agree on this address without any out-of-band directory.
func CreateWithSeed(base, seed, owner string) (string, error) {
	baseBytes, err := base58.Decode(base)
	if err != nil {
		return "", fmt.Errorf("decode base pubkey: %w", err)
	}
	ownerBytes, err := base58.Decode(owner)
	if err != nil {
		return "", fmt.Errorf("decode owner pubkey: %w", err)
	}

	h := sha256.New()
	h.Write(baseBytes)
	h.Write([]byte(seed))
	h.Write(ownerBytes)
	return base58.Encode(h.Sum(nil)), nil
}

// Transaction is a legacy-format Solana transaction under construction.
type Transaction struct {
	feePayer        string
	recentBlockhash string
	instructions    []Instruction

	accountKeys   []string // ordered per message header rules
	numRequired   int
	numROSigned   int
	numROUnsigned int
	signatures    [][]byte
}

// NewTransaction builds an unsigned transaction. Account keys are ordered as
// the message header requires: writable signers (fee payer first), readonly
// signers, writable non-signers, readonly non-signers.
func NewTransaction(feePayer, recentBlockhash string, instructions ...Instruction) *Transaction {
	type accountClass struct {
		signer   bool
		writable bool
	}

	classes := map[string]*accountClass{
		feePayer: {signer: true, writable: true},
	}
	order := []string{feePayer}

	note := func(key string, signer, writable bool) {
		class, ok := classes[key]
		if !ok {
			class = &accountClass{}
			classes[key] = class
			order = append(order, key)
		}
		class.signer = class.signer || signer
		class.writable = class.writable || writable
	}

	for _, instr := range instructions {
		for _, meta := range instr.Accounts {
			note(meta.Pubkey, meta.IsSigner, meta.IsWritable)
		}
		note(instr.ProgramID, false, false)
	}

	var writableSigners, readonlySigners, writableOthers, readonlyOthers []string
	for _, key := range order {
		class := classes[key]
		switch {
		case class.signer && class.writable:
			writableSigners = append(writableSigners, key)
		case class.signer:
			readonlySigners = append(readonlySigners, key)
		case class.writable:
			writableOthers = append(writableOthers, key)
		default:
			readonlyOthers = append(readonlyOthers, key)
		}
	}

	keys := make([]string, 0, len(order))
	keys = append(keys, writableSigners...)
	keys = append(keys, readonlySigners...)
	keys = append(keys, writableOthers...)
	keys = append(keys, readonlyOthers...)

	return &Transaction{
		feePayer:        feePayer,
		recentBlockhash: recentBlockhash,
		instructions:    instructions,
		accountKeys:     keys,
		numRequired:     len(writableSigners) + len(readonlySigners),
		numROSigned:     len(readonlySigners),
		numROUnsigned:   len(readonlyOthers),
	}
}

// Message serializes the transaction message (the signed payload).
func (t *Transaction) Message() ([]byte, error) {
	buf := make([]byte, 0, 128)
	buf = append(buf, byte(t.numRequired), byte(t.numROSigned), byte(t.numROUnsigned))

	buf = appendCompactU16(buf, len(t.accountKeys))
	index := make(map[string]int, len(t.accountKeys))
	for i, key := range t.accountKeys {
		raw, err := base58.Decode(key)
		if err != nil {
			return nil, fmt.Errorf("decode account key %s: %w", key, err)
		}
		if len(raw) != 32 {
			return nil, fmt.Errorf("account key %s is %d bytes", key, len(raw))
		}
		buf = append(buf, raw...)
		index[key] = i
	}

	blockhash, err := base58.Decode(t.recentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("decode blockhash: %w", err)
	}
	if len(blockhash) != 32 {
		return nil, fmt.Errorf("blockhash is %d bytes", len(blockhash))
	}
	buf = append(buf, blockhash...)

	buf = appendCompactU16(buf, len(t.instructions))
	for _, instr := range t.instructions {
		buf = append(buf, byte(index[instr.ProgramID]))
		buf = appendCompactU16(buf, len(instr.Accounts))
		for _, meta := range instr.Accounts {
			buf = append(buf, byte(index[meta.Pubkey]))
		}
		buf = appendCompactU16(buf, len(instr.Data))
		buf = append(buf, instr.Data...)
	}

	return buf, nil
}

// Sign signs the message with every required signer, in account-key order.
// The first signature doubles as the transaction id.
func (t *Transaction) Sign(signers ...Signer) (string, error) {
	message, err := t.Message()
	if err != nil {
		return "", err
	}

	byAddress := make(map[string]Signer, len(signers))
	for _, s := range signers {
		byAddress[base58.Encode(s.Public())] = s
	}

	t.signatures = make([][]byte, t.numRequired)
	for i := 0; i < t.numRequired; i++ {
		signer, ok := byAddress[t.accountKeys[i]]
		if !ok {
			return "", fmt.Errorf("missing signer for %s", t.accountKeys[i])
		}
		t.signatures[i] = signer.Sign(message)
	}

	return base58.Encode(t.signatures[0]), nil
}

// Serialize produces the wire transaction: compact signature list + message.
func (t *Transaction) Serialize() ([]byte, error) {
	if len(t.signatures) != t.numRequired {
		return nil, fmt.Errorf("transaction not fully signed: %d of %d", len(t.signatures), t.numRequired)
	}
	message, err := t.Message()
	if err != nil {
		return nil, err
	}

	buf := appendCompactU16(nil, len(t.signatures))
	for _, sig := range t.signatures {
		buf = append(buf, sig...)
	}
	buf = append(buf, message...)
	return buf, nil
}

// appendCompactU16 appends n in Solana's compact-u16 (shortvec) encoding.
func appendCompactU16(buf []byte, n int) []byte {
	for {
		if n < 0x80 {
			return append(buf, byte(n))
		}
		buf = append(buf, byte(n&0x7f)|0x80)
		n >>= 7
	}
}
