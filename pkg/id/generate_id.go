// Package id generates the public identifiers used for applicants, loans and
// decisions.
package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var reID32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (v4) UUID as exactly 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s has the NewID32 shape.
func Valid(s string) bool { return reID32.MatchString(s) }
