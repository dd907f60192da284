// Package shield provides password credential primitives: hashing a
// plaintext password into a portable, self-describing credential and
// verifying a password against a stored credential.
//
// The codec itself lives in the shieldpassword package, password policy in
// shieldpasswordverifier.
package shield

import "log/slog"

// DefaultLogger is the logger used when a package config does not set one.
//
//nolint:gochecknoglobals
var DefaultLogger = slog.Default()
