// Package policy decides which file extensions may be uploaded.
package policy

import (
	"sort"
	"strings"
)

// Class is the outcome of classifying a filename's extension.
type Class int

const (
	Unrecognized Class = iota
	Allowed
	Dangerous
)

func (c Class) String() string {
	switch c {
	case Allowed:
		return "allowed"
	case Dangerous:
		return "dangerous"
	default:
		return "unrecognized"
	}
}

// DefaultAllowed is the allow-set used when none is configured.
var DefaultAllowed = []string{"png", "jpg", "jpeg", "gif", "pdf"}

// denied is fixed. It is consulted before the allow-set and cannot be configured.
var denied = map[string]struct{}{
	"exe": {}, "sh": {}, "bat": {}, "cmd": {}, "com": {},
	"pif": {}, "scr": {}, "vbs": {}, "js": {},
}

// Policy classifies filenames against a fixed deny-set and a configured allow-set.
type Policy struct {
	allowed map[string]struct{}
}

// New builds a Policy. Entries are trimmed, lower-cased and stripped of a leading dot.
func New(allowed []string) *Policy {
	p := &Policy{allowed: make(map[string]struct{}, len(allowed))}
	for _, ext := range allowed {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			p.allowed[ext] = struct{}{}
		}
	}
	return p
}

// Extension returns the lower-cased text after the last dot, and false when
// the filename has no dot at all.
func Extension(filename string) (string, bool) {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return "", false
	}
	return strings.ToLower(filename[idx+1:]), true
}

// Classify reports whether filename may be stored.
func (p *Policy) Classify(filename string) Class {
	ext, ok := Extension(filename)
	if !ok {
		return Unrecognized
	}
	if _, bad := denied[ext]; bad {
		return Dangerous
	}
	if _, good := p.allowed[ext]; good {
		return Allowed
	}
	return Unrecognized
}

// Allowed returns the allow-set, sorted.
func (p *Policy) Allowed() []string {
	return sortedKeys(p.allowed)
}

// Denied returns the deny-set, sorted.
func Denied() []string {
	return sortedKeys(denied)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
