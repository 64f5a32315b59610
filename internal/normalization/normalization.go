// Package normalization canonicalises user-supplied names so that
// uniqueness checks compare like with like.
package normalization

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims surrounding whitespace and decomposes s into Unicode
// Normalization Form D. Interior whitespace is left untouched.
func Normalize(s string) string {
	return norm.NFD.String(strings.TrimSpace(s))
}

// NormalizeOptional normalizes the pointed-to string, if any.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	n := Normalize(*s)
	return &n
}
