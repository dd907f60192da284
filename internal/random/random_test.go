package random

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureBytes(t *testing.T) {
	t.Run("returns requested length", func(t *testing.T) {
		b, err := SecureBytes(16)
		require.NoError(t, err)
		assert.Len(t, b, 16)
	})

	t.Run("hex string has twice the length", func(t *testing.T) {
		s, err := SecureHexString(16)
		require.NoError(t, err)
		assert.Len(t, s, 32)
	})

	t.Run("reader failure is reported", func(t *testing.T) {
		errBroken := errors.New("broken")

		prev := Reader
		Reader = iotest.ErrReader(errBroken)
		t.Cleanup(func() { Reader = prev })

		_, err := SecureBytes(16)
		require.ErrorIs(t, err, errBroken)
	})
}
