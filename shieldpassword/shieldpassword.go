// Package shieldpassword implements password credential hashing and
// verification.
//
// A credential is a single printable string embedding the algorithm, its
// work factor, a random salt and the digest, so it can be verified without
// any out-of-band parameters. Two encodings are supported: the modular crypt
// format of bcrypt ($2a$, $2b$, $2y$) and the PHC string format of argon2id.
//
// Hashers are stateless and safe for concurrent use.
package shieldpassword

var (
	_ AlgorithmHasher = (*BcryptPasswordHasher)(nil)
	_ AlgorithmHasher = (*Argon2idPasswordHasher)(nil)
	_ Rehasher        = (*MultiPasswordHasher)(nil)
	_ Rehasher        = (*InstrumentedPasswordHasher)(nil)
)

// PasswordHasher is a hashing algorithm to hash password securely.
type PasswordHasher interface {
	// Hash derives a credential from password using a fresh random salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches hashedPassword.
	//
	// A mismatch is reported as (false, nil). An error means hashedPassword
	// is unusable, and wraps ErrMalformedCredential.
	Verify(hashedPassword string, password string) (bool, error)
}

// Rehasher reports whether a stored credential was derived with parameters
// weaker than the ones currently configured.
//
// Callers typically rehash the password after the next successful login.
type Rehasher interface {
	NeedsRehash(hashedPassword string) (bool, error)
}

// AlgorithmHasher is a PasswordHasher bound to a single Algorithm.
type AlgorithmHasher interface {
	PasswordHasher
	Rehasher
	Algorithm() Algorithm
}

// DefaultPasswordHasher is the default password hashing algorithm used across.
//
//nolint:gochecknoglobals
var DefaultPasswordHasher = NewBcryptPasswordHasher(BcryptDefaultCost)

// VerifyPassword verifies password against hashedPassword produced by any of
// the supported algorithms.
//
// All parameters are read from hashedPassword itself.
func VerifyPassword(hashedPassword, password string) (bool, error) {
	alg, ok := DetectAlgorithm(hashedPassword)
	if !ok {
		return false, ErrMalformedCredential
	}

	switch alg {
	case AlgorithmBcrypt:
		return verifyBcrypt(hashedPassword, password)
	case AlgorithmArgon2id:
		return verifyArgon2id(hashedPassword, password)
	}

	return false, ErrMalformedCredential
}
