// Package phone normalizes contact phone numbers recorded on inquiries,
// vendors and bookings.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// defaultRegion resolves numbers submitted without a country prefix.
const defaultRegion = "US"

// NormalizeE164 returns the E.164 form of input. Numbers that cannot be
// parsed or are not valid are returned trimmed but otherwise untouched:
// a contact field the client can read back beats a lost one.
func NormalizeE164(input string) string {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return raw
	}

	parsed, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
