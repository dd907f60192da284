package shieldpassword

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"go.inout.gg/shield/internal/random"
)

const argon2idID = "argon2id"

// Upper bounds accepted when parsing a stored credential. They keep a
// hostile credential from requesting unbounded memory or time.
const (
	argon2idMaxMemory     = 4 * 1024 * 1024 // KiB
	argon2idMaxTime       = 64
	argon2idMaxKeyLength  = 1024
	argon2idMinSaltLength = 8
	argon2idMinKeyLength  = 16
)

// Argon2idParams are the argon2id cost parameters.
type Argon2idParams struct {
	// Memory is the memory cost in KiB.
	Memory      uint32 `validate:"gte=8192,lte=4194304"`
	Time        uint32 `validate:"gte=1,lte=64"`
	Parallelism uint8  `validate:"gte=1"`
	SaltLength  uint32 `validate:"gte=16,lte=1024"`
	KeyLength   uint32 `validate:"gte=16,lte=1024"`
}

// DefaultArgon2idParams follow the OWASP recommendation for argon2id.
//
//nolint:gochecknoglobals
var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Time:        3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2idPasswordHasher hashes passwords with argon2id and encodes them in
// the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
//
// Salt and hash are unpadded standard base64.
type Argon2idPasswordHasher struct {
	params Argon2idParams
}

// NewArgon2idPasswordHasher creates a new argon2id hasher.
//
// It returns ErrInvalidWorkFactor if params are out of bounds.
func NewArgon2idPasswordHasher(params Argon2idParams) (*Argon2idPasswordHasher, error) {
	if err := ConfigValidator.Struct(params); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkFactor, err)
	}

	return &Argon2idPasswordHasher{params: params}, nil
}

func (h *Argon2idPasswordHasher) Algorithm() Algorithm { return AlgorithmArgon2id }

// Params returns the configured parameters.
func (h *Argon2idPasswordHasher) Params() Argon2idParams { return h.params }

func (h *Argon2idPasswordHasher) Hash(password string) (string, error) {
	salt, err := random.SecureBytes(int(h.params.SaltLength))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Time,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idID,
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idPasswordHasher) Verify(hashedPassword, password string) (bool, error) {
	return verifyArgon2id(hashedPassword, password)
}

// NeedsRehash reports whether hashedPassword was derived with weaker
// parameters than h, or with a different key length.
func (h *Argon2idPasswordHasher) NeedsRehash(hashedPassword string) (bool, error) {
	cred, err := parseArgon2id(hashedPassword)
	if err != nil {
		return false, err
	}

	p := cred.params
	needs := p.Memory < h.params.Memory ||
		p.Time < h.params.Time ||
		p.Parallelism < h.params.Parallelism ||
		p.SaltLength < h.params.SaltLength ||
		p.KeyLength != h.params.KeyLength

	return needs, nil
}

type argon2idCredential struct {
	params Argon2idParams
	salt   []byte
	key    []byte
}

func verifyArgon2id(hashedPassword, password string) (bool, error) {
	cred, err := parseArgon2id(hashedPassword)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey(
		[]byte(password),
		cred.salt,
		cred.params.Time,
		cred.params.Memory,
		cred.params.Parallelism,
		cred.params.KeyLength,
	)

	return subtle.ConstantTimeCompare(key, cred.key) == 1, nil
}

func parseArgon2id(hashedPassword string) (*argon2idCredential, error) {
	parts := strings.Split(hashedPassword, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != argon2idID {
		return nil, malformed("invalid argon2id format")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, malformed("missing argon2id version")
	}

	if version != strconv.Itoa(argon2.Version) {
		return nil, malformed("unsupported argon2id version %q", version)
	}

	params, err := parseArgon2idParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < argon2idMinSaltLength {
		return nil, malformed("invalid argon2id salt")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) < argon2idMinKeyLength || len(key) > argon2idMaxKeyLength {
		return nil, malformed("invalid argon2id hash")
	}

	params.SaltLength = uint32(len(salt)) //nolint:gosec
	params.KeyLength = uint32(len(key))   //nolint:gosec

	return &argon2idCredential{params: *params, salt: salt, key: key}, nil
}

func parseArgon2idParams(s string) (*Argon2idParams, error) {
	var (
		params           Argon2idParams
		hasM, hasT, hasP bool
	)

	pairs := strings.Split(s, ",")
	if len(pairs) != 3 {
		return nil, malformed("invalid argon2id parameters %q", s)
	}

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, malformed("invalid argon2id parameter %q", pair)
		}

		switch name {
		case "m":
			v, err := parseDecimal(value, 32)
			if err != nil || v < 1 || v > argon2idMaxMemory {
				return nil, malformed("invalid argon2id memory %q", value)
			}

			params.Memory, hasM = uint32(v), true
		case "t":
			v, err := parseDecimal(value, 32)
			if err != nil || v < 1 || v > argon2idMaxTime {
				return nil, malformed("invalid argon2id time %q", value)
			}

			params.Time, hasT = uint32(v), true
		case "p":
			v, err := parseDecimal(value, 8)
			if err != nil || v < 1 {
				return nil, malformed("invalid argon2id parallelism %q", value)
			}

			params.Parallelism, hasP = uint8(v), true
		default:
			return nil, malformed("unknown argon2id parameter %q", name)
		}
	}

	if !hasM || !hasT || !hasP {
		return nil, malformed("missing argon2id parameters")
	}

	return &params, nil
}

// parseDecimal parses an unsigned decimal without sign or leading zeros.
func parseDecimal(s string, bitSize int) (uint64, error) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, strconv.ErrSyntax
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
	}

	return strconv.ParseUint(s, 10, bitSize)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedCredential}, args...)...)
}
