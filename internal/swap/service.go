package swap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-swap-gateway/internal/domain"
	"solana-swap-gateway/internal/journal"
	"solana-swap-gateway/internal/keys"
	"solana-swap-gateway/internal/observability"
	"solana-swap-gateway/internal/program"
	"solana-swap-gateway/internal/solana"
)

// Config holds the service's tunables.
type Config struct {
	// ProgramKeypairPath locates the deployed program's keypair file.
	ProgramKeypairPath string

	// PlayerKeypairPath locates the fee payer's keypair file. Generated on
	// first run when absent.
	PlayerKeypairPath string

	// TokenPrice is the per-token lamport multiplier the program applies.
	// Zero selects the program default.
	TokenPrice uint32

	// ConfirmTimeout bounds each submit-to-confirmation wait.
	ConfirmTimeout time.Duration
}

// Service coordinates the swap pipeline: funding, state account provisioning,
// transaction submission, confirmation and state readback.
type Service struct {
	rpc       solana.RPCClient
	confirmer Confirmer
	recorder  *journal.Recorder
	logger    *log.Logger

	player    *keys.Keypair
	programID string
	stateAddr string
	price     uint32

	confirmTimeout time.Duration
}

// NewService assembles a Service. Call Bootstrap before serving swaps.
func NewService(cfg Config, rpc solana.RPCClient, confirmer Confirmer, recorder *journal.Recorder, logger *log.Logger) (*Service, error) {
	programID, err := LoadProgramID(cfg.ProgramKeypairPath)
	if err != nil {
		return nil, err
	}
	player, err := keys.LoadOrGenerate(cfg.PlayerKeypairPath)
	if err != nil {
		return nil, fmt.Errorf("load player keypair: %w", err)
	}

	price := cfg.TokenPrice
	if price == 0 {
		price = program.DefaultTokenPrice
	}
	confirmTimeout := cfg.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = 60 * time.Second
	}

	return &Service{
		rpc:            rpc,
		confirmer:      confirmer,
		recorder:       recorder,
		logger:         logger,
		player:         player,
		programID:      programID,
		price:          price,
		confirmTimeout: confirmTimeout,
	}, nil
}

// Bootstrap prepares the service for traffic: verifies the cluster is
// reachable and the program deployed, funds the player and provisions the
// state account. Order matters; each step depends on the previous one.
func (s *Service) Bootstrap(ctx context.Context) error {
	version, err := s.rpc.GetVersion(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	s.logger.Printf("connected to solana node, version %s", version)

	if err := CheckProgramDeployed(ctx, s.rpc, s.programID); err != nil {
		return err
	}
	if err := EnsureFunded(ctx, s.rpc, s.logger, s.player.Address()); err != nil {
		return err
	}

	stateAddr, err := EnsureStateAccount(ctx, s.rpc, s.confirmer, s.logger, s.player, s.programID)
	if err != nil {
		return err
	}
	s.stateAddr = stateAddr
	s.logger.Printf("ready: player=%s program=%s state=%s", s.player.Address(), s.programID, stateAddr)
	return nil
}

// StateAddress returns the provisioned state account address. Empty before
// Bootstrap.
func (s *Service) StateAddress() string {
	return s.stateAddr
}

// ProgramID returns the program's base58 address.
func (s *Service) ProgramID() string {
	return s.programID
}

// ExecuteSwap runs one swap end to end: submit, confirm, read the resulting
// state back, and journal a receipt. Returns the receipt on success.
func (s *Service) ExecuteSwap(ctx context.Context, amount uint32) (*domain.SwapReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	submitter := NewSubmitter(s.rpc, s.confirmer, s.player, s.programID, s.stateAddr, s.logger)
	submittedAt := time.Now()

	signature, slot, err := submitter.Submit(ctx, amount)
	if err != nil {
		observability.RecordSwapRejected(rejectionReason(err))
		return nil, err
	}
	observability.RecordSwapSubmitted()

	state, err := ReadState(ctx, s.rpc, s.stateAddr)
	if err != nil {
		observability.RecordSwapRejected(rejectionReason(err))
		return nil, err
	}

	// A confirmed swap means the program multiplied without overflow.
	receipt := &domain.SwapReceipt{
		Signature:   signature,
		AmountIn:    amount,
		AmountOut:   amount * s.price,
		Counter:     state.Counter,
		Slot:        slot,
		SubmittedAt: submittedAt,
	}
	s.recorder.Record(ctx, receipt)

	observability.RecordSwapConfirmed(time.Since(submittedAt).Seconds(), state.Counter)
	s.logger.Printf("swap confirmed: signature=%s amount=%d counter=%d slot=%d", signature, amount, state.Counter, slot)
	return receipt, nil
}

// ReadState fetches the current swap state account contents.
func (s *Service) ReadState(ctx context.Context) (program.SwapState, error) {
	return ReadState(ctx, s.rpc, s.stateAddr)
}

// rejectionReason labels a swap failure for metrics.
func rejectionReason(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		switch {
		case errors.Is(err, program.ErrZeroAmount):
			return "zero_amount"
		case errors.Is(err, program.ErrArithmeticOverflow):
			return "overflow"
		case errors.Is(err, program.ErrUnauthorized):
			return "unauthorized"
		default:
			return fmt.Sprintf("program_0x%x", rejected.Code)
		}
	}
	switch {
	case errors.Is(err, ErrConfirmTimeout):
		return "confirm_timeout"
	case errors.Is(err, ErrStateNotFound), errors.Is(err, ErrStateDecode):
		return "state_unreadable"
	default:
		return "submit_failed"
	}
}
