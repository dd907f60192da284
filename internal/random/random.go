// Package random provides helpers around the system CSPRNG.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// Reader is the randomness source. Tests may replace it.
//
//nolint:gochecknoglobals
var Reader io.Reader = rand.Reader

// SecureBytes returns a securely random byte slice of length l.
func SecureBytes(l int) ([]byte, error) {
	bytes := make([]byte, l)

	if _, err := io.ReadFull(Reader, bytes); err != nil {
		return nil, fmt.Errorf(
			"shield: error reading random bytes: %w",
			err,
		)
	}

	return bytes, nil
}

// SecureHexString returns a securely random hex string of length 2*l.
func SecureHexString(l int) (string, error) {
	bytes, err := SecureBytes(l)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}
