// Package shieldpasswordverifier checks password strength before a password
// is hashed.
//
// It is a policy layered on top of shieldpassword: the codec itself accepts
// any input, including an empty password.
package shieldpasswordverifier

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"

	"go.inout.gg/shield/shieldpassword"
)

var (
	_ PasswordVerifier = (*passwordVerifier)(nil)
	_ error            = (*PasswordVerificationError)(nil)
)

type Reason string

const (
	ReasonPasswordEmpty        Reason = "Password is empty"
	ReasonPasswordToShort      Reason = "Password is too short"
	ReasonPasswordTooLong      Reason = "Password is too long"
	ReasonMissingRequiredChars Reason = "Password is missing required characters"
)

const (
	DefaultMinLength = 8
	DefaultMaxBytes  = shieldpassword.BcryptMaxPasswordLength
)

type PasswordVerificationError struct {
	message string
	Reasons []Reason
}

func (e *PasswordVerificationError) Error() string {
	return e.message
}

type Config struct {
	// MinLength is the minimum length of the password in characters.
	MinLength int

	// MaxBytes is the maximum length of the password in bytes.
	MaxBytes int

	// RequiredChars is the list of required characters.
	RequiredChars PasswordRequiredChars
}

// NewConfig creates a new Config with defaults.
//
// cfgs modifiers can be used to optionally override the defaults.
func NewConfig(cfgs ...func(*Config)) *Config {
	config := &Config{}
	for _, f := range cfgs {
		f(config)
	}

	config.defaults()

	return config
}

// defaults set c config fields to default values.
func (c *Config) defaults() {
	if c.RequiredChars == nil {
		c.RequiredChars = DefaultPasswordRequiredChars
	}

	if c.MinLength == 0 {
		c.MinLength = DefaultMinLength
	}

	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
}

// PasswordVerifier verifies strongness of the password.
type PasswordVerifier interface {
	Verify(password string) error
}

type passwordVerifier struct {
	config *Config
}

// New creates a new PasswordVerifier.
//
// If config is nil, the default config is used.
func New(config *Config) (*passwordVerifier, error) {
	if config == nil {
		config = NewConfig()
	}

	return &passwordVerifier{
		config,
	}, nil
}

// Verify verifies the strongness password.
//
// Length is counted in characters of the NFKC normalized password, so
// composed and decomposed forms of the same text count the same. The byte
// limit applies to the password as given, since that is what gets hashed.
func (v *passwordVerifier) Verify(password string) error {
	if password == "" {
		return newVerificationError([]Reason{ReasonPasswordEmpty})
	}

	var reasons []Reason

	if utf8.RuneCountInString(norm.NFKC.String(password)) < v.config.MinLength {
		reasons = append(reasons, ReasonPasswordToShort)
	}

	if len(password) > v.config.MaxBytes {
		reasons = append(reasons, ReasonPasswordTooLong)
	}

	missing := lo.ContainsBy(v.config.RequiredChars, func(chars string) bool {
		return !strings.ContainsAny(password, chars)
	})
	if missing {
		reasons = append(reasons, ReasonMissingRequiredChars)
	}

	if len(reasons) > 0 {
		return newVerificationError(reasons)
	}

	return nil
}

func newVerificationError(reasons []Reason) *PasswordVerificationError {
	messages := lo.Map(reasons, func(r Reason, _ int) string { return string(r) })

	return &PasswordVerificationError{
		message: "shield/passwordverifier: " + strings.Join(messages, ", "),
		Reasons: reasons,
	}
}
