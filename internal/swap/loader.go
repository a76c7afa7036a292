package swap

import (
	"context"
	"errors"
	"fmt"

	"solana-swap-gateway/internal/keys"
	"solana-swap-gateway/internal/solana"
)

// Program deployment errors.
var (
	// ErrProgramNotDeployed is returned when the program account does not
	// exist on the cluster.
	ErrProgramNotDeployed = errors.New("program not deployed")

	// ErrProgramNotExecutable is returned when the program account exists
	// but holds no executable code.
	ErrProgramNotExecutable = errors.New("program account not executable")
)

// LoadProgramID reads the deployed program's keypair file and returns its
// base58 address. Deployment writes this file next to the compiled program.
func LoadProgramID(path string) (string, error) {
	kp, err := keys.Load(path)
	if err != nil {
		return "", fmt.Errorf("load program keypair: %w", err)
	}
	return kp.Address(), nil
}

// CheckProgramDeployed verifies the program account exists and is executable.
func CheckProgramDeployed(ctx context.Context, rpc solana.RPCClient, programID string) error {
	info, err := rpc.GetAccountInfo(ctx, programID)
	if err != nil {
		return fmt.Errorf("get program account: %w", err)
	}
	if info == nil {
		return fmt.Errorf("%w: %s", ErrProgramNotDeployed, programID)
	}
	if !info.Executable {
		return fmt.Errorf("%w: %s", ErrProgramNotExecutable, programID)
	}
	return nil
}
