package swap

import (
	"context"
	"fmt"
	"log"

	"solana-swap-gateway/internal/keys"
	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana"
)

// Submitter builds, signs and submits swap transactions against the program's
// state account, then waits for confirmation.
type Submitter struct {
	rpc       solana.RPCClient
	confirmer Confirmer
	player    *keys.Keypair
	programID string
	stateAddr string
	logger    *log.Logger
}

// NewSubmitter creates a Submitter for one player and state account.
func NewSubmitter(rpc solana.RPCClient, confirmer Confirmer, player *keys.Keypair, programID, stateAddr string, logger *log.Logger) *Submitter {
	return &Submitter{
		rpc:       rpc,
		confirmer: confirmer,
		player:    player,
		programID: programID,
		stateAddr: stateAddr,
		logger:    logger,
	}
}

// Submit sends one swap instruction and blocks until confirmation. Returns
// the transaction signature and the slot it landed in. Program rejections
// surface as *RejectedError.
func (s *Submitter) Submit(ctx context.Context, amount uint32) (string, int64, error) {
	instruction := solana.NewProgramInstruction(
		s.programID, s.stateAddr, program.SwapInstruction{Amount: amount}.Encode())

	blockhash, err := s.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("get blockhash: %w", err)
	}

	tx := solana.NewTransaction(s.player.Address(), blockhash.Blockhash, instruction)
	if _, err := tx.Sign(s.player); err != nil {
		return "", 0, fmt.Errorf("sign transaction: %w", err)
	}
	wire, err := tx.Serialize()
	if err != nil {
		return "", 0, fmt.Errorf("serialize transaction: %w", err)
	}

	signature, err := s.rpc.SendTransaction(ctx, wire)
	if err != nil {
		return "", 0, classifySendError(err)
	}
	s.logger.Printf("submitted swap amount=%d signature=%s", amount, signature)

	slot, err := s.confirmer.WaitConfirmed(ctx, signature)
	if err != nil {
		return signature, 0, err
	}
	return signature, slot, nil
}
