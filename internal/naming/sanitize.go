// Package naming turns untrusted client filenames into safe storage names.
package naming

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SecureFilename reduces name to a single path component made of
// [A-Za-z0-9_.-]. The result never contains a separator or "..", never
// starts or ends with '.' or '_', and may be empty.
func SecureFilename(name string) string {
	// Decompose accents so "é" keeps its base letter, then drop non-ASCII.
	ascii, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isNonASCII))), name)
	if err != nil {
		ascii = strings.Map(func(r rune) rune {
			if isNonASCII(r) {
				return -1
			}
			return r
		}, name)
	}

	ascii = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")

	var b strings.Builder
	b.Grow(len(ascii))
	var prev rune
	for _, r := range ascii {
		if !isSafe(r) {
			continue
		}
		if r == '.' && prev == '.' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	safe := strings.Trim(b.String(), "._")
	if safe == "" {
		return ""
	}

	stem, _, _ := strings.Cut(safe, ".")
	if _, reserved := reservedNames[strings.ToUpper(stem)]; reserved {
		safe = "_" + safe
	}
	return safe
}

func isNonASCII(r rune) bool {
	return r >= utf8.RuneSelf
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	}
	return false
}
