package shieldpassword_test

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.inout.gg/foundations/must"

	"go.inout.gg/shield/shieldpassword"
)

var bcryptFormat = regexp.MustCompile(`^\$2[aby]\$(\d{2})\$[./A-Za-z0-9]{53}$`)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("credential round-trips", func(t *testing.T) {
		t.Parallel()

		for _, password := range []string{"", "a", "hunter2", "пароль-🔑", strings.Repeat("x", 72)} {
			hashed, err := shieldpassword.HashPassword(password, shieldpassword.BcryptMinCost)
			require.NoError(t, err)

			ok, err := shieldpassword.VerifyPassword(hashed, password)
			require.NoError(t, err)
			assert.True(t, ok, "password %q should match", password)
		}
	})

	t.Run("different password does not match", func(t *testing.T) {
		t.Parallel()

		hashed := must.Must(shieldpassword.HashPassword("first", shieldpassword.BcryptMinCost))

		ok, err := shieldpassword.VerifyPassword(hashed, "second")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		t.Parallel()

		first := must.Must(shieldpassword.HashPassword("same", shieldpassword.BcryptMinCost))
		second := must.Must(shieldpassword.HashPassword("same", shieldpassword.BcryptMinCost))

		assert.NotEqual(t, first, second)
		assert.NotEqual(t, first[7:29], second[7:29], "salts should differ")
	})

	t.Run("cost is embedded in the credential", func(t *testing.T) {
		t.Parallel()

		hashed := must.Must(shieldpassword.HashPassword("secret", 5))

		m := bcryptFormat.FindStringSubmatch(hashed)
		require.NotNil(t, m)
		assert.Equal(t, "05", m[1])
	})

	t.Run("out of range cost is rejected", func(t *testing.T) {
		t.Parallel()

		for _, cost := range []int{-1, 0, 3, 32, 999} {
			_, err := shieldpassword.HashPassword("secret", cost)
			require.ErrorIs(t, err, shieldpassword.ErrInvalidWorkFactor, "cost %d", cost)
		}
	})

	t.Run("password longer than 72 bytes is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := shieldpassword.HashPassword(strings.Repeat("x", 73), shieldpassword.BcryptMinCost)
		require.ErrorIs(t, err, shieldpassword.ErrPasswordTooLong)
	})
}

func TestBcryptPasswordHasher(t *testing.T) {
	t.Parallel()

	t.Run("default cost is above the library default", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 12, shieldpassword.BcryptDefaultCost)
		assert.Equal(t, shieldpassword.BcryptDefaultCost, shieldpassword.DefaultPasswordHasher.Cost())
	})

	t.Run("verify does not need external parameters", func(t *testing.T) {
		t.Parallel()

		hashed := must.Must(shieldpassword.NewBcryptPasswordHasher(6).Hash("secret"))

		// A hasher configured with another cost still verifies it.
		ok, err := shieldpassword.NewBcryptPasswordHasher(4).Verify(hashed, "secret")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("malformed credential is an error", func(t *testing.T) {
		t.Parallel()

		h := shieldpassword.NewBcryptPasswordHasher(shieldpassword.BcryptMinCost)
		valid := must.Must(h.Hash("secret"))

		for _, hashed := range []string{
			"",
			"not-a-valid-credential",
			valid[:len(valid)-10],
			"$9z" + valid[3:],
			"$2a$99" + valid[6:],
			valid[:len(valid)-1],
			valid + "x",
			valid + "$extra",
			valid[:len(valid)-1] + "!",
			valid[:10] + "*" + valid[11:],
		} {
			ok, err := h.Verify(hashed, "secret")
			require.ErrorIs(t, err, shieldpassword.ErrMalformedCredential, "credential %q", hashed)
			assert.False(t, ok)
		}
	})

	t.Run("overlong password never matches", func(t *testing.T) {
		t.Parallel()

		h := shieldpassword.NewBcryptPasswordHasher(shieldpassword.BcryptMinCost)
		prefix := strings.Repeat("x", 72)
		hashed := must.Must(h.Hash(prefix))

		ok, err := h.Verify(hashed, prefix+"y")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("needs rehash when cost is lower", func(t *testing.T) {
		t.Parallel()

		hashed := must.Must(shieldpassword.HashPassword("secret", 4))

		assert.True(t, must.Must(shieldpassword.NewBcryptPasswordHasher(5).NeedsRehash(hashed)))
		assert.False(t, must.Must(shieldpassword.NewBcryptPasswordHasher(4).NeedsRehash(hashed)))

		_, err := shieldpassword.NewBcryptPasswordHasher(4).NeedsRehash("garbage")
		require.ErrorIs(t, err, shieldpassword.ErrMalformedCredential)

		_, err = shieldpassword.NewBcryptPasswordHasher(4).NeedsRehash(hashed + "x")
		require.ErrorIs(t, err, shieldpassword.ErrMalformedCredential)
	})
}

func TestBcryptEndToEnd(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("cost 14 is slow")
	}

	const password = "correct horse battery staple"

	hashed, err := shieldpassword.HashPassword(password, 14)
	require.NoError(t, err)
	assert.Regexp(t, bcryptFormat, hashed)
	assert.Contains(t, hashed, fmt.Sprintf("$%d$", 14))

	ok, err := shieldpassword.VerifyPassword(hashed, password)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = shieldpassword.VerifyPassword(hashed, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}
