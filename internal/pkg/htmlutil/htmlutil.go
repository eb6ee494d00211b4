// Package htmlutil holds the small HTML helpers shared by the mailbox
// message decoder and the newsletter dispatcher.
package htmlutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	anyTagPattern = regexp.MustCompile(`<[^>]*>`)
	spacePattern  = regexp.MustCompile(`[ \t]+`)
)

// StripTags converts an HTML fragment to plain text: script/style blocks are
// dropped entirely, remaining tags removed, entities decoded, and runs of
// spaces collapsed.
func StripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n").Replace(s)
	s = anyTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
