package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"go.inout.gg/shield/shieldpassword"
)

const envPrefix = "SHIELD_PASSWORD_"

// config is read from SHIELD_PASSWORD_* environment variables.
type config struct {
	Algorithm           string        `env:"ALGORITHM"            envDefault:"bcrypt"`
	BcryptCost          int           `env:"BCRYPT_COST"          envDefault:"12"`
	Argon2idMemory      uint32        `env:"ARGON2ID_MEMORY"      envDefault:"65536"`
	Argon2idTime        uint32        `env:"ARGON2ID_TIME"        envDefault:"3"`
	Argon2idParallelism uint8         `env:"ARGON2ID_PARALLELISM" envDefault:"2"`
	LatencyBudget       time.Duration `env:"LATENCY_BUDGET"       envDefault:"500ms"`
	LogLevel            slog.Level    `env:"LOG_LEVEL"            envDefault:"info"`
}

// loadConfig parses environ, or the process environment if environ is nil.
func loadConfig(environ map[string]string) (*config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      envPrefix,
		Environment: environ,
	}); err != nil {
		return nil, fmt.Errorf("shield: failed to parse environment: %w", err)
	}

	return &cfg, nil
}

func (c *config) passwordConfig(logger *slog.Logger) *shieldpassword.Config {
	return shieldpassword.NewConfig(
		shieldpassword.WithLogger(logger),
		shieldpassword.WithAlgorithm(shieldpassword.Algorithm(c.Algorithm)),
		shieldpassword.WithBcryptCost(c.BcryptCost),
		shieldpassword.WithArgon2idParams(shieldpassword.Argon2idParams{
			Memory:      c.Argon2idMemory,
			Time:        c.Argon2idTime,
			Parallelism: c.Argon2idParallelism,
			SaltLength:  shieldpassword.DefaultArgon2idParams.SaltLength,
			KeyLength:   shieldpassword.DefaultArgon2idParams.KeyLength,
		}),
		shieldpassword.WithLatencyBudget(c.LatencyBudget),
	)
}
