package shieldpassword

import "errors"

var (
	// ErrInvalidWorkFactor is returned when a hasher is configured with a
	// work factor outside the bounds its algorithm accepts.
	//
	// It is a configuration error and should surface at startup.
	ErrInvalidWorkFactor = errors.New("shield/password: invalid work factor")

	// ErrMalformedCredential is returned when a stored credential cannot be
	// parsed: unknown algorithm tag, bad parameters, truncated salt or digest.
	//
	// It signals corrupted or foreign data, not a wrong password.
	ErrMalformedCredential = errors.New("shield/password: malformed credential")

	// ErrEncodingFailure is returned on an unexpected internal failure while
	// deriving a credential, e.g. the system randomness source is unavailable.
	ErrEncodingFailure = errors.New("shield/password: encoding failure")

	// ErrPasswordTooLong is returned when the password exceeds the input limit
	// of the algorithm (72 bytes for bcrypt).
	ErrPasswordTooLong = errors.New("shield/password: password too long")
)
