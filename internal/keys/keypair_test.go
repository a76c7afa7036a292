package keys

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "id.json")

	kp, err := Generate()
	require.NoError(t, err)
	require.NoError(t, kp.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, kp.Public(), loaded.Public())
	require.Equal(t, kp.Address(), loaded.Address())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"not json":     "hello",
		"wrong length": "[1,2,3]",
		"out of range": malformedOutOfRange(t),
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			_, err := Load(path)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestLoadMismatchedPublicKey(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	nums := make([]int, len(kp.priv))
	for i, b := range kp.priv {
		nums[i] = int(b)
	}
	// Corrupt a public key byte; the file decodes but fails validation.
	nums[40] ^= 0xff

	data, err := json.Marshal(nums)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = Load(path)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestLoadOrGenerateCreatesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "id.json")

	first, err := LoadOrGenerate(path)
	require.NoError(t, err)

	second, err := LoadOrGenerate(path)
	require.NoError(t, err)
	require.Equal(t, first.Address(), second.Address())
}

func TestSignVerifiable(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	msg := []byte("swap instruction payload")
	sig := kp.Sign(msg)
	require.Len(t, sig, 64)
	require.True(t, isOnCurve(kp.Public()))
}

func malformedOutOfRange(t *testing.T) string {
	t.Helper()
	nums := make([]int, 64)
	nums[0] = 300
	data, err := json.Marshal(nums)
	require.NoError(t, err)
	return string(data)
}
