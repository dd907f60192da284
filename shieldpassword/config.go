package shieldpassword

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"go.inout.gg/foundations/debug"

	"go.inout.gg/shield"
)

//nolint:gochecknoglobals
var (
	ConfigValidator = validator.New(validator.WithRequiredStructEnabled())
	ConfigModifier  = modifiers.New()
)

// DefaultLatencyBudget is the expected upper bound of a single hash or
// verify operation.
const DefaultLatencyBudget = 500 * time.Millisecond

// Config is the configuration of the password hasher built by New.
type Config struct {
	Logger *slog.Logger `mod:"-" validate:"-"`

	// Algorithm is used to hash new passwords (default: bcrypt).
	Algorithm Algorithm `mod:"trim,lcase" validate:"oneof=bcrypt argon2id"`

	// BcryptCost is the bcrypt work factor (default: BcryptDefaultCost).
	BcryptCost int `validate:"gte=4,lte=31"`

	// Argon2id holds the argon2id parameters (default: DefaultArgon2idParams).
	Argon2id Argon2idParams

	// LatencyBudget is the latency above which operations are logged as slow
	// (default: DefaultLatencyBudget). Negative disables the warning.
	LatencyBudget time.Duration
}

func (c *Config) defaults() {
	c.Logger = cmp.Or(c.Logger, shield.DefaultLogger)
	c.Algorithm = cmp.Or(c.Algorithm, AlgorithmBcrypt)
	c.BcryptCost = cmp.Or(c.BcryptCost, BcryptDefaultCost)
	c.Argon2id = cmp.Or(c.Argon2id, DefaultArgon2idParams)
	c.LatencyBudget = cmp.Or(c.LatencyBudget, DefaultLatencyBudget)
}

func (c *Config) assert() {
	debug.Assert(c.Logger != nil, "Logger must be set")
}

// NewConfig creates a new Config with defaults.
//
// opts modifiers can be used to optionally override the defaults.
func NewConfig(opts ...func(*Config)) *Config {
	//nolint:exhaustruct
	config := Config{}
	for _, opt := range opts {
		opt(&config)
	}

	config.defaults()
	config.assert()

	return &config
}

func WithLogger(logger *slog.Logger) func(*Config) {
	return func(cfg *Config) { cfg.Logger = logger }
}

func WithAlgorithm(alg Algorithm) func(*Config) {
	return func(cfg *Config) { cfg.Algorithm = alg }
}

func WithBcryptCost(cost int) func(*Config) {
	return func(cfg *Config) { cfg.BcryptCost = cost }
}

func WithArgon2idParams(params Argon2idParams) func(*Config) {
	return func(cfg *Config) { cfg.Argon2id = params }
}

func WithLatencyBudget(budget time.Duration) func(*Config) {
	return func(cfg *Config) { cfg.LatencyBudget = budget }
}

// Validate normalizes and validates c.
//
// Any invalid cost parameter is reported as ErrInvalidWorkFactor.
func (c *Config) Validate(ctx context.Context) error {
	if err := ConfigModifier.Struct(ctx, c); err != nil {
		return fmt.Errorf("shield/password: failed to normalize config: %w", err)
	}

	if err := ConfigValidator.StructCtx(ctx, c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWorkFactor, err)
	}

	return nil
}

// New builds the password hasher described by config.
//
// New hashes with config.Algorithm and verifies credentials of every
// supported algorithm. It returns ErrInvalidWorkFactor if config holds
// out-of-bounds cost parameters; call it at startup.
//
// If config is nil, the default config is used.
func New(ctx context.Context, config *Config) (*InstrumentedPasswordHasher, error) {
	if config == nil {
		config = NewConfig()
	}

	config.assert()

	if err := config.Validate(ctx); err != nil {
		return nil, err
	}

	bcryptHasher := NewBcryptPasswordHasher(config.BcryptCost)

	argon2idHasher, err := NewArgon2idPasswordHasher(config.Argon2id)
	if err != nil {
		return nil, err
	}

	var multi *MultiPasswordHasher
	if config.Algorithm == AlgorithmArgon2id {
		multi = NewMultiPasswordHasher(argon2idHasher, bcryptHasher)
	} else {
		multi = NewMultiPasswordHasher(bcryptHasher, argon2idHasher)
	}

	config.Logger.Debug(
		"shield/password: password hasher configured",
		slog.String("algorithm", config.Algorithm.String()),
		slog.Int("bcrypt_cost", config.BcryptCost),
	)

	return NewInstrumentedPasswordHasher(multi, config.Logger, max(config.LatencyBudget, 0)), nil
}
