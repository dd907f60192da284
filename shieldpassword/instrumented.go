package shieldpassword

import (
	"log/slog"
	"time"

	"go.inout.gg/foundations/debug"
)

// InstrumentedPasswordHasher logs the latency of every hash and verify
// operation of the wrapped hasher.
//
// Operations slower than the budget are logged at warn level, which makes
// drift from the intended cost visible as hardware or load changes.
// Passwords and credentials are never logged.
type InstrumentedPasswordHasher struct {
	hasher PasswordHasher
	logger *slog.Logger
	budget time.Duration
}

// NewInstrumentedPasswordHasher wraps hasher.
//
// A zero budget disables slow operation warnings.
func NewInstrumentedPasswordHasher(
	hasher PasswordHasher,
	logger *slog.Logger,
	budget time.Duration,
) *InstrumentedPasswordHasher {
	debug.Assert(hasher != nil, "hasher must be set")
	debug.Assert(logger != nil, "logger must be set")

	return &InstrumentedPasswordHasher{
		hasher: hasher,
		logger: logger,
		budget: budget,
	}
}

// Unwrap returns the wrapped hasher.
func (h *InstrumentedPasswordHasher) Unwrap() PasswordHasher { return h.hasher }

func (h *InstrumentedPasswordHasher) Hash(password string) (string, error) {
	start := time.Now()
	hashed, err := h.hasher.Hash(password)
	h.observe("hash", time.Since(start), err)

	return hashed, err
}

func (h *InstrumentedPasswordHasher) Verify(hashedPassword, password string) (bool, error) {
	start := time.Now()
	ok, err := h.hasher.Verify(hashedPassword, password)
	h.observe("verify", time.Since(start), err)

	return ok, err
}

// NeedsRehash delegates to the wrapped hasher. It reports false if the
// wrapped hasher cannot tell.
func (h *InstrumentedPasswordHasher) NeedsRehash(hashedPassword string) (bool, error) {
	r, ok := h.hasher.(Rehasher)
	if !ok {
		return false, nil
	}

	return r.NeedsRehash(hashedPassword)
}

func (h *InstrumentedPasswordHasher) observe(op string, elapsed time.Duration, err error) {
	attrs := []any{
		slog.String("op", op),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil:
		h.logger.Error(
			"shield/password: operation failed",
			append(attrs, slog.Any("error", err))...,
		)
	case h.budget > 0 && elapsed > h.budget:
		h.logger.Warn(
			"shield/password: operation exceeded latency budget",
			append(attrs, slog.Duration("budget", h.budget))...,
		)
	default:
		h.logger.Debug("shield/password: operation completed", attrs...)
	}
}
