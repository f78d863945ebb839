// Package sanitize cleans user-supplied text before it is stored.
// Inquiry messages, quote notes and booking requests all pass through
// here so markup never reaches the database.
package sanitize

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// entityDecoder reverses the handful of entities user agents commonly
// submit. Decoding happens between the two strip passes so an encoded
// tag cannot survive the first pass.
var entityDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&quot;", `"`,
	"&#39;", "'",
)

// Text strips markup from a user-supplied string and trims surrounding
// whitespace. Interior whitespace, including newlines in message bodies,
// is preserved.
func Text(s string) string {
	out := tagPattern.ReplaceAllString(s, "")
	out = entityDecoder.Replace(out)
	out = tagPattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// TextPtr applies Text to an optional field, keeping nil as nil.
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}
