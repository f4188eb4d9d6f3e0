// Package resolver maps client-supplied names onto paths that are proven to
// lie inside the storage root.
package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthanhphan/go-secure-file-storage/internal/naming"
)

// Resolver anchors every lookup at a canonical storage root.
type Resolver struct {
	root string
}

// New canonicalizes root once. The directory must already exist.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root %q: %w", root, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root %q: %w", root, err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to stat storage root %q: %w", canonical, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage root %q is not a directory", canonical)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical storage root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve sanitizes name as a single unit, joins it onto the root and
// canonicalizes the result. ok is false when the name carries traversal
// markers or the canonical path escapes the root.
func (r *Resolver) Resolve(name string) (string, bool) {
	if hasTraversal(name) {
		return "", false
	}

	candidate := filepath.Join(r.root, naming.SecureFilename(name))
	canonical, err := canonicalize(candidate)
	if err != nil {
		return "", false
	}
	if !Contains(r.root, canonical) {
		return "", false
	}
	return canonical, true
}

// Contains reports whether path is a proper descendant of root, comparing on
// path-segment boundaries: /data/uploads2 is not inside /data/uploads.
func Contains(root, path string) bool {
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return len(path) > len(prefix) && strings.HasPrefix(path, prefix)
}

func hasTraversal(name string) bool {
	if name == "" || strings.ContainsRune(name, 0) {
		return true
	}
	if name[0] == '/' || name[0] == '\\' {
		return true
	}
	if len(name) >= 2 && name[1] == ':' && isDriveLetter(name[0]) {
		return true
	}
	if strings.Contains(name, "../") || strings.Contains(name, `..\`) {
		return true
	}
	for _, seg := range strings.FieldsFunc(name, isSeparator) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// canonicalize resolves symlinks like realpath(3). Missing trailing
// components are re-attached to their deepest existing ancestor.
func canonicalize(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	parent := filepath.Dir(path)
	if parent == path {
		return "", err
	}
	base, err := canonicalize(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, filepath.Base(path)), nil
}
