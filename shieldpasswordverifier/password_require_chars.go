package shieldpasswordverifier

import (
	"strings"

	"github.com/samber/lo"
	"go.inout.gg/foundations/must"
)

//nolint:gochecknoglobals
var DefaultPasswordRequiredChars PasswordRequiredChars

//nolint:gochecknoinits
func init() {
	must.Must1(DefaultPasswordRequiredChars.Parse(""))
}

// PasswordRequiredChars represents a list of character groups. The password
// must contain at least one character of every group.
type PasswordRequiredChars []string

// Parse parses source of "::"-separated groups, e.g. "0123456789::!@#$%".
//
// Empty groups are ignored.
func (s *PasswordRequiredChars) Parse(source string) error {
	parts := lo.Filter(
		strings.Split(source, "::"),
		func(s string, _ int) bool { return len(s) > 0 },
	)

	*s = PasswordRequiredChars(parts)

	return nil
}
