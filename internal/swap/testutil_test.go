package swap

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"solana-swap-gateway/internal/keys"
	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana"
	"solana-swap-gateway/internal/solana/stub"
)

// testCluster couples the stub RPC client with a program simulator so that
// transactions submitted over RPC actually execute the state transition.
type testCluster struct {
	rpc       *stub.RPCClient
	sim       *program.Simulator
	programID string
	paths     struct {
		program string
		player  string
	}
}

func newTestCluster(t *testing.T, price uint32) *testCluster {
	t.Helper()

	dir := t.TempDir()
	programKP, err := keys.Generate()
	require.NoError(t, err)
	programPath := filepath.Join(dir, "program.json")
	require.NoError(t, programKP.Save(programPath))

	cluster := &testCluster{
		rpc:       stub.NewRPCClient(),
		sim:       program.NewSimulator(program.NewProcessor(price)),
		programID: programKP.Address(),
	}
	cluster.paths.program = programPath
	cluster.paths.player = filepath.Join(dir, "player.json")

	cluster.rpc.Accounts[cluster.programID] = &solana.AccountInfo{
		Owner:      "BPFLoaderUpgradeab1e11111111111111111111111",
		Executable: true,
	}
	cluster.rpc.OnSend = cluster.handleTransaction
	return cluster
}

// installStateAccount places a pre-existing state account on the cluster.
func (c *testCluster) installStateAccount(t *testing.T, address string, counter uint32) {
	t.Helper()
	data := program.SwapState{Counter: counter}.Encode()
	c.sim.SetAccount(&program.Account{
		Key:   address,
		Owner: c.programID,
		Data:  append([]byte(nil), data...),
	})
	c.rpc.Accounts[address] = &solana.AccountInfo{
		Lamports: 1_000_000,
		Owner:    c.programID,
		Data:     base64.StdEncoding.EncodeToString(data),
	}
}

// handleTransaction executes a submitted wire transaction against the
// simulator. Runs under the stub's lock, so it touches stub maps directly
// instead of calling back through RPC methods.
func (c *testCluster) handleTransaction(wireTx []byte) (string, error) {
	signature, instructions, err := decodeWireTransaction(wireTx)
	if err != nil {
		return "", err
	}

	for _, instr := range instructions {
		switch instr.programID {
		case solana.SystemProgramID:
			if err := c.applyCreateAccountWithSeed(instr); err != nil {
				return "", err
			}
		case c.programID:
			if err := c.sim.Execute(instr.programID, instr.accounts, instr.data); err != nil {
				var transition *program.TransitionError
				if errors.As(err, &transition) {
					return "", &solana.RPCError{
						Code:    -32002,
						Message: fmt.Sprintf("Transaction simulation failed: Error processing Instruction 0: custom program error: 0x%x", transition.Code),
					}
				}
				return "", err
			}
			for _, key := range instr.accounts {
				if account := c.sim.Account(key); account != nil {
					c.rpc.Accounts[key] = &solana.AccountInfo{
						Lamports: account.Lamports,
						Owner:    account.Owner,
						Data:     base64.StdEncoding.EncodeToString(account.Data),
					}
				}
			}
		default:
			return "", fmt.Errorf("unexpected program %s", instr.programID)
		}
	}
	return signature, nil
}

func (c *testCluster) applyCreateAccountWithSeed(instr decodedInstruction) error {
	data := instr.data
	if len(data) < 4+32+8 {
		return fmt.Errorf("short system instruction: %d bytes", len(data))
	}
	if idx := binary.LittleEndian.Uint32(data[:4]); idx != 3 {
		return fmt.Errorf("unexpected system instruction %d", idx)
	}
	pos := 4 + 32
	seedLen := binary.LittleEndian.Uint64(data[pos : pos+8])
	pos += 8 + int(seedLen)
	lamports := binary.LittleEndian.Uint64(data[pos : pos+8])
	pos += 8
	space := binary.LittleEndian.Uint64(data[pos : pos+8])
	pos += 8
	owner := base58.Encode(data[pos : pos+32])

	created := instr.accounts[1]
	zeroed := make([]byte, space)
	c.sim.SetAccount(&program.Account{
		Key:      created,
		Owner:    owner,
		Lamports: lamports,
		Data:     zeroed,
	})
	c.rpc.Accounts[created] = &solana.AccountInfo{
		Lamports: lamports,
		Owner:    owner,
		Data:     base64.StdEncoding.EncodeToString(zeroed),
	}
	return nil
}

type decodedInstruction struct {
	programID string
	accounts  []string
	data      []byte
}

// decodeWireTransaction parses a serialized legacy transaction far enough to
// recover the first signature and the instruction list.
func decodeWireTransaction(wire []byte) (string, []decodedInstruction, error) {
	numSigs, pos := readCompactU16(wire, 0)
	if numSigs < 1 {
		return "", nil, errors.New("transaction carries no signatures")
	}
	signature := base58.Encode(wire[pos : pos+64])
	pos += numSigs * 64

	pos += 3 // message header

	numKeys, pos := readCompactU16(wire, pos)
	accountKeys := make([]string, numKeys)
	for i := range accountKeys {
		accountKeys[i] = base58.Encode(wire[pos : pos+32])
		pos += 32
	}

	pos += 32 // recent blockhash

	numInstr, pos := readCompactU16(wire, pos)
	instructions := make([]decodedInstruction, 0, numInstr)
	for i := 0; i < numInstr; i++ {
		programIdx := int(wire[pos])
		pos++

		var numAccounts int
		numAccounts, pos = readCompactU16(wire, pos)
		accounts := make([]string, numAccounts)
		for j := range accounts {
			accounts[j] = accountKeys[wire[pos]]
			pos++
		}

		var dataLen int
		dataLen, pos = readCompactU16(wire, pos)
		instructions = append(instructions, decodedInstruction{
			programID: accountKeys[programIdx],
			accounts:  accounts,
			data:      append([]byte(nil), wire[pos:pos+dataLen]...),
		})
		pos += dataLen
	}
	return signature, instructions, nil
}

func readCompactU16(buf []byte, pos int) (int, int) {
	value, shift := 0, 0
	for {
		b := buf[pos]
		pos++
		value |= int(b&0x7f) << shift
		if b < 0x80 {
			return value, pos
		}
		shift += 7
	}
}
