package http_handler

import (
	"fmt"
	"strings"

	"github.com/anthanhphan/go-secure-file-storage/internal/domain"
	"github.com/spaolacci/murmur3"
)

// weakETag fingerprints a stored file by name, size and mtime. Stored files
// are never rewritten in place, so the triple changes whenever content does.
func weakETag(f *domain.StoredFile) string {
	h := murmur3.New64()
	_, _ = fmt.Fprintf(h, "%s:%d:%d", f.Name, f.Size, f.ModTime.UnixNano())
	return fmt.Sprintf(`W/"%016x"`, h.Sum64())
}

// etagMatches reports whether an If-None-Match header value matches tag.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(tag, "W/") {
			return true
		}
	}
	return false
}
