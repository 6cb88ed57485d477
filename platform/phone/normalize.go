// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "KR"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// FromJID extracts the phone number of a WhatsApp JID such as
// "821012345678@s.whatsapp.net" or "821012345678:12@s.whatsapp.net" and
// formats it to E.164. Group JIDs ("...@g.us") are returned unchanged.
func FromJID(jid string) string {
	jid = strings.TrimSpace(jid)
	user, server, found := strings.Cut(jid, "@")
	if found && server == "g.us" {
		return jid
	}
	if device := strings.IndexByte(user, ':'); device >= 0 {
		user = user[:device]
	}
	if user == "" {
		return ""
	}
	if !strings.HasPrefix(user, "+") {
		user = "+" + user
	}
	return NormalizeE164(user)
}
