// Package sanitize provides text sanitization for upstream fields that end up in chat replies.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// nonTextTags are elements whose content is dropped along with the tag.
var nonTextTags = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"option":   true,
	"noscript": true,
}

// StripHTML removes all markup from s and decodes entities, making it safe for text-only display.
func StripHTML(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))

	var b strings.Builder
	skipDepth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far is all we get.
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if nonTextTags[string(name)] {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if nonTextTags[string(name)] && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// Text sanitizes a string for display. Entity decoding can surface new tags
// (e.g. "&lt;b&gt;"), so stripping repeats until the output is stable, which
// also makes Text idempotent. A pass never grows its input, so the loop ends.
func Text(s string) string {
	current := s
	for current != "" {
		next := StripHTML(current)
		if next == current {
			break
		}
		current = next
	}
	return current
}
