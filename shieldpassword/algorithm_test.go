package shieldpassword_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.inout.gg/foundations/must"

	"go.inout.gg/shield/shieldpassword"
)

func TestDetectAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hashed string
		alg    shieldpassword.Algorithm
		ok     bool
	}{
		{"$2a$10$abc", shieldpassword.AlgorithmBcrypt, true},
		{"$2b$10$abc", shieldpassword.AlgorithmBcrypt, true},
		{"$2y$10$abc", shieldpassword.AlgorithmBcrypt, true},
		{"$argon2id$v=19$m=1,t=1,p=1$a$b", shieldpassword.AlgorithmArgon2id, true},
		{"$argon2i$v=19$m=1,t=1,p=1$a$b", "", false},
		{"$1$salt$hash", "", false},
		{"plaintext", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		alg, ok := shieldpassword.DetectAlgorithm(tt.hashed)
		assert.Equal(t, tt.ok, ok, tt.hashed)
		assert.Equal(t, tt.alg, alg, tt.hashed)
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	t.Run("bcrypt cost is reported", func(t *testing.T) {
		t.Parallel()

		info, err := shieldpassword.Inspect(must.Must(shieldpassword.HashPassword("secret", 5)))
		require.NoError(t, err)
		assert.Equal(t, shieldpassword.AlgorithmBcrypt, info.Algorithm)
		assert.Equal(t, 5, info.Cost)
		assert.Nil(t, info.Argon2id)
	})

	t.Run("argon2id parameters are reported", func(t *testing.T) {
		t.Parallel()

		h := must.Must(shieldpassword.NewArgon2idPasswordHasher(testArgon2idParams))

		info, err := shieldpassword.Inspect(must.Must(h.Hash("secret")))
		require.NoError(t, err)
		assert.Equal(t, shieldpassword.AlgorithmArgon2id, info.Algorithm)
		require.NotNil(t, info.Argon2id)
		assert.Equal(t, testArgon2idParams, *info.Argon2id)
	})

	t.Run("malformed credential is an error", func(t *testing.T) {
		t.Parallel()

		valid := must.Must(shieldpassword.HashPassword("secret", 4))

		for _, hashed := range []string{"not-a-valid-credential", "$2a$10$short", "$argon2id$bad", valid + "x"} {
			_, err := shieldpassword.Inspect(hashed)
			require.ErrorIs(t, err, shieldpassword.ErrMalformedCredential, hashed)
		}
	})
}
