package shieldpassword

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptMinCost = bcrypt.MinCost
	BcryptMaxCost = bcrypt.MaxCost

	// BcryptDefaultCost is two steps above the bcrypt library default.
	//
	// Each step doubles the hashing time. Raise it as hardware gets faster;
	// use the calibrate command to measure.
	BcryptDefaultCost = bcrypt.DefaultCost + 2

	// BcryptMaxPasswordLength is the maximum number of password bytes bcrypt
	// consumes.
	BcryptMaxPasswordLength = 72
)

// bcryptCredential is the exact modular crypt layout: version, two-digit cost,
// then 22 salt and 31 digest characters of the bcrypt base64 alphabet.
var bcryptCredential = regexp.MustCompile(`^\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}$`)

// parseBcryptCost checks the layout of hashedPassword and returns its cost.
//
// The bcrypt package only checks a minimum length, so a truncated or padded
// credential would otherwise be compared as if it were intact.
func parseBcryptCost(hashedPassword string) (int, error) {
	if !bcryptCredential.MatchString(hashedPassword) {
		return 0, malformed("invalid bcrypt format")
	}

	cost, err := bcrypt.Cost([]byte(hashedPassword))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}

	return cost, nil
}

// BcryptPasswordHasher hashes passwords with bcrypt at a fixed cost.
type BcryptPasswordHasher struct {
	cost int
}

// NewBcryptPasswordHasher creates a new bcrypt hasher with the given cost.
//
// The cost is not validated here; Hash fails with ErrInvalidWorkFactor if it
// is out of bounds. Use ValidateBcryptCost to check it at startup.
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	return &BcryptPasswordHasher{cost: cost}
}

// ValidateBcryptCost checks that cost is within [BcryptMinCost, BcryptMaxCost].
func ValidateBcryptCost(cost int) error {
	if cost < BcryptMinCost || cost > BcryptMaxCost {
		return fmt.Errorf(
			"%w: bcrypt cost %d is out of range [%d, %d]",
			ErrInvalidWorkFactor,
			cost,
			BcryptMinCost,
			BcryptMaxCost,
		)
	}

	return nil
}

// HashPassword derives a bcrypt credential from password with the given cost.
//
// Each call uses a fresh random salt, so hashing the same password twice
// yields different credentials.
func HashPassword(password string, cost int) (string, error) {
	// bcrypt silently falls back to its default cost below MinCost.
	if err := ValidateBcryptCost(cost); err != nil {
		return "", err
	}

	if len(password) > BcryptMaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingFailure, err)
	}

	return string(hashed), nil
}

func (h *BcryptPasswordHasher) Algorithm() Algorithm { return AlgorithmBcrypt }

// Cost returns the configured bcrypt cost.
func (h *BcryptPasswordHasher) Cost() int { return h.cost }

func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	return HashPassword(password, h.cost)
}

// Verify reports whether password matches the bcrypt credential hashedPassword.
//
// Passwords longer than BcryptMaxPasswordLength never match: they could not
// have been hashed by this package and bcrypt would only look at their prefix.
func (h *BcryptPasswordHasher) Verify(hashedPassword, password string) (bool, error) {
	return verifyBcrypt(hashedPassword, password)
}

// NeedsRehash reports whether hashedPassword uses a lower cost than h.
func (h *BcryptPasswordHasher) NeedsRehash(hashedPassword string) (bool, error) {
	cost, err := parseBcryptCost(hashedPassword)
	if err != nil {
		return false, err
	}

	return cost < h.cost, nil
}

func verifyBcrypt(hashedPassword, password string) (bool, error) {
	if _, err := parseBcryptCost(hashedPassword); err != nil {
		return false, err
	}

	if len(password) > BcryptMaxPasswordLength {
		return false, nil
	}

	// CompareHashAndPassword compares digests in constant time.
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}
}
