package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"go.inout.gg/shield/internal/random"
	"go.inout.gg/shield/shieldpassword"
	"go.inout.gg/shield/shieldpasswordverifier"
)

const (
	exitCodeMismatch  = 1
	exitCodeMalformed = 2
	exitCodeFailure   = 3
)

const (
	defaultCalibrateTarget  = 250 * time.Millisecond
	defaultCalibrateMaxCost = 16
	calibrateSampleLength   = 16
)

type runner struct {
	stdin   io.Reader
	environ map[string]string

	config *config
	logger *slog.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer, environ map[string]string) *cli.App {
	r := &runner{stdin: stdin, environ: environ}

	return &cli.App{
		Name:      "shield",
		Usage:     "hash and verify password credentials",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are handled by main.
		ExitErrHandler: func(*cli.Context, error) {},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(r.environ)
			if err != nil {
				return cli.Exit(err, exitCodeFailure)
			}

			if err := shieldpassword.ValidateBcryptCost(cfg.BcryptCost); err != nil {
				return cli.Exit(err, exitCodeFailure)
			}

			r.config = cfg
			r.logger = slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
				Level: cfg.LogLevel,
			}))

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "hash",
				Usage: "read a password from stdin and print its credential",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "cost", Usage: "bcrypt cost, overrides SHIELD_PASSWORD_BCRYPT_COST"},
					&cli.StringFlag{Name: "algorithm", Usage: "bcrypt or argon2id"},
					&cli.BoolFlag{Name: "check-policy", Usage: "reject passwords failing the default strength policy"},
				},
				Action: r.hash,
			},
			{
				Name:  "verify",
				Usage: "read a password from stdin and verify it against a credential",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "credential", Aliases: []string{"c"}, Required: true},
				},
				Action: r.verify,
			},
			{
				Name:      "inspect",
				Usage:     "print the algorithm and parameters of a credential",
				ArgsUsage: "<credential>",
				Action:    r.inspect,
			},
			{
				Name:  "calibrate",
				Usage: "measure bcrypt latency per cost and suggest the highest cost within the target",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "target", Value: defaultCalibrateTarget},
					&cli.IntFlag{Name: "max-cost", Value: defaultCalibrateMaxCost},
				},
				Action: r.calibrate,
			},
		},
	}
}

func (r *runner) hasher(c *cli.Context) (*shieldpassword.InstrumentedPasswordHasher, error) {
	config := r.config.passwordConfig(r.logger)
	if c.IsSet("cost") {
		config.BcryptCost = c.Int("cost")
	}

	if c.IsSet("algorithm") {
		config.Algorithm = shieldpassword.Algorithm(c.String("algorithm"))
	}

	h, err := shieldpassword.New(c.Context, config)
	if err != nil {
		return nil, cli.Exit(err, exitCodeFailure)
	}

	return h, nil
}

func (r *runner) hash(c *cli.Context) error {
	password, err := readPassword(r.stdin)
	if err != nil {
		return cli.Exit(err, exitCodeFailure)
	}

	if c.Bool("check-policy") {
		verifier, err := shieldpasswordverifier.New(nil)
		if err != nil {
			return cli.Exit(err, exitCodeFailure)
		}

		if err := verifier.Verify(password); err != nil {
			return cli.Exit(err, exitCodeFailure)
		}
	}

	h, err := r.hasher(c)
	if err != nil {
		return err
	}

	hashed, err := h.Hash(password)
	if err != nil {
		return cli.Exit(err, exitCodeFailure)
	}

	fmt.Fprintln(c.App.Writer, hashed)

	return nil
}

func (r *runner) verify(c *cli.Context) error {
	password, err := readPassword(r.stdin)
	if err != nil {
		return cli.Exit(err, exitCodeFailure)
	}

	h, err := r.hasher(c)
	if err != nil {
		return err
	}

	credential := c.String("credential")

	ok, err := h.Verify(credential, password)
	if err != nil {
		if errors.Is(err, shieldpassword.ErrMalformedCredential) {
			return cli.Exit(err, exitCodeMalformed)
		}

		return cli.Exit(err, exitCodeFailure)
	}

	if !ok {
		return cli.Exit("shield: password does not match", exitCodeMismatch)
	}

	needsRehash, err := h.NeedsRehash(credential)
	if err != nil {
		return cli.Exit(err, exitCodeMalformed)
	}

	fmt.Fprintln(c.App.Writer, "ok")

	if needsRehash {
		fmt.Fprintln(c.App.Writer, "needs rehash")
	}

	return nil
}

func (r *runner) inspect(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("shield: inspect expects exactly one credential", exitCodeFailure)
	}

	info, err := shieldpassword.Inspect(c.Args().First())
	if err != nil {
		return cli.Exit(err, exitCodeMalformed)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "algorithm=%s\n", info.Algorithm)

	switch info.Algorithm {
	case shieldpassword.AlgorithmBcrypt:
		fmt.Fprintf(w, "cost=%d\n", info.Cost)
	case shieldpassword.AlgorithmArgon2id:
		p := info.Argon2id
		fmt.Fprintf(w, "memory=%d\ntime=%d\nparallelism=%d\nsalt_length=%d\nkey_length=%d\n",
			p.Memory, p.Time, p.Parallelism, p.SaltLength, p.KeyLength)
	}

	return nil
}

func (r *runner) calibrate(c *cli.Context) error {
	target := c.Duration("target")
	maxCost := min(c.Int("max-cost"), shieldpassword.BcryptMaxCost)

	sample, err := random.SecureHexString(calibrateSampleLength)
	if err != nil {
		return cli.Exit(err, exitCodeFailure)
	}

	best := 0

	for cost := shieldpassword.BcryptMinCost; cost <= maxCost; cost++ {
		if err := c.Context.Err(); err != nil {
			return cli.Exit(err, exitCodeFailure)
		}

		start := time.Now()
		if _, err := shieldpassword.HashPassword(sample, cost); err != nil {
			return cli.Exit(err, exitCodeFailure)
		}

		elapsed := time.Since(start)
		fmt.Fprintf(c.App.Writer, "cost=%d elapsed=%s\n", cost, elapsed.Round(time.Millisecond))

		if elapsed > target {
			break
		}

		best = cost
	}

	if best == 0 {
		r.logger.Warn(
			"shield: minimum bcrypt cost exceeds the latency target",
			slog.Duration("target", target),
		)

		best = shieldpassword.BcryptMinCost
	}

	fmt.Fprintf(c.App.Writer, "recommended=%d\n", best)

	return nil
}

// readPassword reads the first line of r without its line terminator.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("shield: failed to read password: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
