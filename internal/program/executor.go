package program

import (
	"fmt"
	"sync"
)

// Executor runs the state-transition function against a set of accounts.
// Production execution happens on the ledger network; the Simulator below
// backs tests with the same contract.
type Executor interface {
	Execute(programID string, accountKeys []string, instructionBytes []byte) error
}

// Simulator hosts a Processor over an in-memory account table. Execution is
// atomic: on failure every touched account keeps its pre-call bytes, matching
// the network's abort-on-error guarantee.
type Simulator struct {
	processor *Processor

	mu       sync.Mutex
	accounts map[string]*Account
}

// NewSimulator creates a Simulator around the given processor.
func NewSimulator(processor *Processor) *Simulator {
	return &Simulator{
		processor: processor,
		accounts:  make(map[string]*Account),
	}
}

// SetAccount installs or replaces an account in the simulated ledger.
func (s *Simulator) SetAccount(account *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.Key] = account
}

// Account returns the account at key, or nil.
func (s *Simulator) Account(key string) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[key]
}

var _ Executor = (*Simulator)(nil)

// Execute resolves accountKeys against the simulated ledger and invokes the
// processor, rolling back account data on failure.
func (s *Simulator) Execute(programID string, accountKeys []string, instructionBytes []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*Account, 0, len(accountKeys))
	snapshots := make([][]byte, 0, len(accountKeys))
	for _, key := range accountKeys {
		account, ok := s.accounts[key]
		if !ok {
			return fmt.Errorf("unknown account %s", key)
		}
		accounts = append(accounts, account)
		snapshots = append(snapshots, append([]byte(nil), account.Data...))
	}

	if err := s.processor.Process(programID, accounts, instructionBytes); err != nil {
		for i, account := range accounts {
			account.Data = snapshots[i]
		}
		return err
	}
	return nil
}
