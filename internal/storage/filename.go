package storage

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename turns a user supplied filename into one that is safe
// to use as a single path component. It may return an empty string.
func SanitizeFilename(name string) string {
	// Drop accents and anything else that isn't ascii
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// newKey returns a unique storage key that keeps the sanitized filename
// as a suffix, so two uploads with the same name don't overwrite each other.
func newKey(filename string) string {
	id := uuid.NewString()
	name := SanitizeFilename(filename)
	if name == "" {
		return id
	}
	return id + "_" + name
}
