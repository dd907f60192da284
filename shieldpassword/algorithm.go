package shieldpassword

import "strings"

// Algorithm identifies the hashing algorithm of a credential.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

func (a Algorithm) String() string { return string(a) }

// DetectAlgorithm inspects the prefix of hashedPassword and returns the
// algorithm that produced it.
//
// It does not check that the rest of the credential is well-formed.
func DetectAlgorithm(hashedPassword string) (Algorithm, bool) {
	switch {
	case strings.HasPrefix(hashedPassword, "$"+argon2idID+"$"):
		return AlgorithmArgon2id, true
	case strings.HasPrefix(hashedPassword, "$2a$"),
		strings.HasPrefix(hashedPassword, "$2b$"),
		strings.HasPrefix(hashedPassword, "$2y$"):
		return AlgorithmBcrypt, true
	default:
		return "", false
	}
}

// CredentialInfo describes the parameters embedded in a credential.
type CredentialInfo struct {
	Algorithm Algorithm

	// Cost is the bcrypt cost. Zero for other algorithms.
	Cost int

	// Argon2id holds the argon2id parameters. Nil for other algorithms.
	//
	// SaltLength and KeyLength are the decoded lengths found in the credential.
	Argon2id *Argon2idParams
}

// Inspect parses hashedPassword without verifying it.
func Inspect(hashedPassword string) (*CredentialInfo, error) {
	alg, ok := DetectAlgorithm(hashedPassword)
	if !ok {
		return nil, ErrMalformedCredential
	}

	switch alg {
	case AlgorithmBcrypt:
		cost, err := parseBcryptCost(hashedPassword)
		if err != nil {
			return nil, err
		}

		return &CredentialInfo{Algorithm: alg, Cost: cost}, nil

	case AlgorithmArgon2id:
		cred, err := parseArgon2id(hashedPassword)
		if err != nil {
			return nil, err
		}

		return &CredentialInfo{Algorithm: alg, Argon2id: &cred.params}, nil
	}

	return nil, ErrMalformedCredential
}
