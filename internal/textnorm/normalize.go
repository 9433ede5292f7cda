// Package textnorm canonicalizes spreadsheet label text so that labels which
// differ only in accents, case or spacing compare equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize strips diacritics, lowercases, collapses whitespace runs to a
// single space and trims. It never fails; invalid input is returned as-is
// after the remaining steps.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// Equal reports whether a and b normalize to the same key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Set is a collection of normalized keys.
type Set map[string]struct{}

// NewSet normalizes every alias into a Set. Aliases that normalize to the
// empty string are dropped so blank cells never match.
func NewSet(aliases ...string) Set {
	s := make(Set, len(aliases))
	s.Add(aliases...)
	return s
}

// Add normalizes and inserts aliases.
func (s Set) Add(aliases ...string) {
	for _, alias := range aliases {
		if key := Normalize(alias); key != "" {
			s[key] = struct{}{}
		}
	}
}

// Contains reports whether text normalizes to a key in the set.
func (s Set) Contains(text string) bool {
	key := Normalize(text)
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

// HasPrefixOf reports whether the normalized text starts with any key.
func (s Set) HasPrefixOf(text string) bool {
	key := Normalize(text)
	if key == "" {
		return false
	}
	for prefix := range s {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
