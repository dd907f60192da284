package shieldpassword

import "go.inout.gg/foundations/debug"

// MultiPasswordHasher hashes new passwords with a primary algorithm and
// verifies credentials produced by any of its registered algorithms.
//
// It is used to migrate stored credentials from one algorithm to another:
// NeedsRehash reports true for every credential not produced by the primary.
type MultiPasswordHasher struct {
	primary AlgorithmHasher
	hashers map[Algorithm]AlgorithmHasher
}

// NewMultiPasswordHasher creates a new MultiPasswordHasher.
//
// A hasher in others with the same algorithm as primary is ignored.
func NewMultiPasswordHasher(primary AlgorithmHasher, others ...AlgorithmHasher) *MultiPasswordHasher {
	debug.Assert(primary != nil, "primary hasher must be set")

	hashers := make(map[Algorithm]AlgorithmHasher, len(others)+1)
	for _, h := range others {
		hashers[h.Algorithm()] = h
	}

	hashers[primary.Algorithm()] = primary

	return &MultiPasswordHasher{primary: primary, hashers: hashers}
}

// Primary returns the hasher used for new credentials.
func (m *MultiPasswordHasher) Primary() AlgorithmHasher { return m.primary }

func (m *MultiPasswordHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

// Verify verifies password with the hasher matching the algorithm of
// hashedPassword.
func (m *MultiPasswordHasher) Verify(hashedPassword, password string) (bool, error) {
	h, err := m.lookup(hashedPassword)
	if err != nil {
		return false, err
	}

	return h.Verify(hashedPassword, password)
}

func (m *MultiPasswordHasher) NeedsRehash(hashedPassword string) (bool, error) {
	h, err := m.lookup(hashedPassword)
	if err != nil {
		return false, err
	}

	if h.Algorithm() != m.primary.Algorithm() {
		return true, nil
	}

	return h.NeedsRehash(hashedPassword)
}

func (m *MultiPasswordHasher) lookup(hashedPassword string) (AlgorithmHasher, error) {
	alg, ok := DetectAlgorithm(hashedPassword)
	if !ok {
		return nil, malformed("unrecognized algorithm")
	}

	h, ok := m.hashers[alg]
	if !ok {
		return nil, malformed("algorithm %q is not accepted", alg)
	}

	return h, nil
}
