package site

import (
	"strings"
)

// Slugify converts a display string into a URL-safe, lowercase, hyphenated
// identifier suitable for anchors. Only [a-z0-9] survive; every other rune,
// non-ASCII included, acts as a separator. The transform is deterministic and
// idempotent: slugifying a slug yields the same slug.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(s) {
		switch {
		case 'a' <= r && r <= 'z' || '0' <= r && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
