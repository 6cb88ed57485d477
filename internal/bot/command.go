// Package bot turns inbound chat text into map replies: it recognizes the
// map command, runs the resolver and formats the two outbound messages.
package bot

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// commandPattern matches "네이버지도", "네이버 지도" without the space, "지도",
// "navermap" or "navemap", optionally followed by "me", then the query.
// The query ends at the first line break.
var commandPattern = regexp.MustCompile(`(?i)^(?:네이버?지도|지도|naver?map)(?:[ \t]+me)?[ \t]+([^\r\n]+)`)

// ParseCommand extracts the query from a message already addressed to the bot.
func ParseCommand(text string) (string, bool) {
	text = strings.TrimSpace(norm.NFC.String(text))
	m := commandPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Addressed strips a leading bot name ("hubot", "@hubot:", "Hubot,") from
// text. ok is false when the message does not start with any of names.
func Addressed(text string, names ...string) (string, bool) {
	trimmed := strings.TrimSpace(norm.NFC.String(text))
	rest := strings.TrimPrefix(trimmed, "@")

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || len(rest) < len(name) {
			continue
		}
		if !strings.EqualFold(rest[:len(name)], name) {
			continue
		}
		remainder := rest[len(name):]
		if remainder != "" && !startsWithSeparator(remainder) {
			// "hubotx 지도 ..." is not addressed to "hubot".
			continue
		}
		remainder = strings.TrimLeft(remainder, ":,")
		return strings.TrimSpace(remainder), true
	}
	return "", false
}

func startsWithSeparator(s string) bool {
	switch s[0] {
	case ':', ',', ' ', '\t', '\n':
		return true
	}
	return false
}
