// Package keys manages ed25519 keypairs in the Solana CLI id.json layout:
// a JSON array of 64 bytes, the 32-byte seed followed by the 32-byte public key.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Load/decode errors.
var (
	// ErrNotFound is returned when the keypair file does not exist.
	ErrNotFound = errors.New("keypair file not found")

	// ErrMalformed is returned when the keypair file cannot be decoded
	// or its embedded public key does not match the seed.
	ErrMalformed = errors.New("malformed keypair file")
)

// Keypair is an ed25519 identity. Immutable once created.
type Keypair struct {
	priv ed25519.PrivateKey
}

// Generate creates a new random keypair.
func Generate() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{priv: priv}, nil
}

// Load reads a keypair from an id.json file.
func Load(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read keypair: %w", err)
	}

	// json.Unmarshal treats []byte as base64, while id.json is an array
	// of numbers, so decode through []int.
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(nums) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformed, ed25519.PrivateKeySize, len(nums))
	}
	raw := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("%w: byte out of range at index %d", ErrMalformed, i)
		}
		raw[i] = byte(n)
	}

	priv := ed25519.PrivateKey(raw)
	derived := priv.Public().(ed25519.PublicKey)
	stored := raw[ed25519.SeedSize:]
	for i := range derived {
		if derived[i] != stored[i] {
			return nil, fmt.Errorf("%w: public key does not match seed", ErrMalformed)
		}
	}
	if !isOnCurve(derived) {
		return nil, fmt.Errorf("%w: public key not on curve", ErrMalformed)
	}

	return &Keypair{priv: priv}, nil
}

// LoadOrGenerate loads the keypair at path, generating and persisting a new one
// if the file does not exist.
func LoadOrGenerate(path string) (*Keypair, error) {
	kp, err := Load(path)
	if err == nil {
		return kp, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	kp, err = Generate()
	if err != nil {
		return nil, err
	}
	if err := kp.Save(path); err != nil {
		return nil, err
	}
	return kp, nil
}

// Save writes the keypair to path in id.json format with 0600 permissions.
func (k *Keypair) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create keypair dir: %w", err)
	}
	nums := make([]int, len(k.priv))
	for i, b := range k.priv {
		nums[i] = int(b)
	}
	data, err := json.Marshal(nums)
	if err != nil {
		return fmt.Errorf("encode keypair: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write keypair: %w", err)
	}
	return nil
}

// Public returns the raw 32-byte public key.
func (k *Keypair) Public() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}

// Address returns the base58-encoded public key.
func (k *Keypair) Address() string {
	return base58.Encode(k.Public())
}

// Sign signs message with the private key.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

// isOnCurve reports whether a 32-byte point decodes on the ed25519 curve.
func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
