package naming

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	idLength = 8

	// TimestampLayout is the second-resolution stamp embedded in names (YYYYMMDD_HHMMSS).
	TimestampLayout = "20060102_150405"

	fallbackBase = "file"
)

// Generator derives unique storage names as {id}_{timestamp}_{base}.{ext}.
type Generator struct {
	newID func() string
}

// NewGenerator returns a Generator whose ids are prefixes of random v4 UUIDs.
func NewGenerator() *Generator {
	return &Generator{newID: randomID}
}

func randomID() string {
	return uuid.NewString()[:idLength]
}

// Generate builds a storage name for original, stamped with now.
// The extension is lower-cased and omitted when original has none.
func (g *Generator) Generate(original string, now time.Time) string {
	base, ext := splitExt(original)

	safeBase := SecureFilename(base)
	if safeBase == "" {
		safeBase = fallbackBase
	}

	var b strings.Builder
	b.WriteString(g.newID())
	b.WriteByte('_')
	b.WriteString(now.Format(TimestampLayout))
	b.WriteByte('_')
	b.WriteString(safeBase)
	if ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// splitExt splits at the last dot. The extension keeps only [a-z0-9].
func splitExt(name string) (string, string) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name, ""
	}

	ext := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToLower(name[idx+1:]))

	return name[:idx], ext
}
