// Package rules is the single declarative rule set shared by the server
// submission handler and the wizard client. Field constraints are keyed by
// schema.Kind and compiled into JSON Schema fragments evaluated with gojsonschema.
package rules

import (
	"strings"
	"unicode"

	"udyam/internal/schema"
)

// Rule is the declarative constraint set for one field kind.
type Rule struct {
	// Pattern is an anchored regular expression the trimmed value must match.
	Pattern string
	// Message is shown when Pattern does not match.
	Message    string
	MaxLength  int
	DigitsOnly bool
	Uppercase  bool
	// Aliases are extra payload keys accepted for fields of this kind.
	Aliases []string
}

var kindRules = map[schema.Kind]Rule{
	schema.KindAadhaar: {
		Pattern:    `^\d{12}$`,
		Message:    "Aadhaar must be 12 digits",
		MaxLength:  12,
		DigitsOnly: true,
	},
	schema.KindOTP: {
		Pattern:    `^\d{6}$`,
		Message:    "OTP must be 6 digits",
		MaxLength:  6,
		DigitsOnly: true,
	},
	schema.KindPAN: {
		Pattern:   `^[A-Z]{5}\d{4}[A-Z]$`,
		Message:   "PAN must be 5 letters, 4 digits, 1 letter (e.g., ABCDE1234F)",
		MaxLength: 10,
		Uppercase: true,
	},
	schema.KindPincode: {
		Pattern:    `^\d{6}$`,
		Message:    "PIN code must be 6 digits",
		MaxLength:  6,
		DigitsOnly: true,
	},
	schema.KindConsent: {
		Aliases: []string{"declaration"},
	},
}

// For returns the rule registered for kind; generic kinds have the zero Rule.
func For(kind schema.Kind) Rule {
	return kindRules[kind]
}

// Normalize applies live input masking for kind: digit filtering, uppercasing
// and max-length truncation. Kinds without masking return raw unchanged.
func Normalize(kind schema.Kind, raw string) string {
	rule, ok := kindRules[kind]
	if !ok || (!rule.DigitsOnly && !rule.Uppercase && rule.MaxLength == 0) {
		return raw
	}

	var b strings.Builder
	n := 0
	for _, r := range raw {
		if rule.MaxLength > 0 && n == rule.MaxLength {
			break
		}
		if rule.DigitsOnly && (r < '0' || r > '9') {
			continue
		}
		if rule.Uppercase {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// TrimStrings returns a copy of payload with every string value trimmed.
func TrimStrings(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if s, ok := v.(string); ok {
			out[k] = strings.TrimSpace(s)
			continue
		}
		out[k] = v
	}
	return out
}
