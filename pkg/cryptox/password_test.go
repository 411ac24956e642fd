package cryptox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupPepper(t *testing.T) {
	t.Helper()
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
}

func TestHashAndVerifyPassword(t *testing.T) {
	setupPepper(t)

	hash, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$v=19$")

	require.NoError(t, VerifyPassword("Sup3rSecret!", hash))
	require.ErrorIs(t, VerifyPassword("wrong-password", hash), ErrPasswordMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	setupPepper(t)

	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)

	require.NoError(t, VerifyPassword("same-input", h1))
	require.NoError(t, VerifyPassword("same-input", h2))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	setupPepper(t)

	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=19456,t=2,p=1$onlyfourparts",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
	} {
		require.Error(t, VerifyPassword("pw", bad))
	}
}

func TestPepperChangesInvalidateHashes(t *testing.T) {
	dir := t.TempDir()

	SetPepperPath(filepath.Join(dir, "pepper-a"))
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, VerifyPassword("pw", hash))

	SetPepperPath(filepath.Join(dir, "pepper-b"))
	require.ErrorIs(t, VerifyPassword("pw", hash), ErrPasswordMismatch)
}
