package skill

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	slugRe     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func ValidSlug(s string) bool {
	return slugRe.MatchString(s)
}

func ValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// Slugify lower-cases name and joins its ASCII letter/digit runs with single
// hyphens. "C++ & Go" becomes "c-go".
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
