package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"udyam/internal/schema"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		kind schema.Kind
		raw  string
		want string
	}{
		{"aadhaar strips non-digits", schema.KindAadhaar, "1234-5678 9012", "123456789012"},
		{"aadhaar truncates to 12", schema.KindAadhaar, "12345678901234", "123456789012"},
		{"otp truncates to 6", schema.KindOTP, "12a34567", "123456"},
		{"pan uppercases", schema.KindPAN, "abcde1234f", "ABCDE1234F"},
		{"pan truncates to 10", schema.KindPAN, "abcde1234fgh", "ABCDE1234F"},
		{"pincode keeps digits", schema.KindPincode, "110 001", "110001"},
		{"non-ascii digits dropped", schema.KindOTP, "१२३456", "456"},
		{"generic untouched", schema.KindName, "  Test User ", "  Test User "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.kind, tt.raw))
		})
	}
}

func TestTrimStrings(t *testing.T) {
	in := map[string]any{"name": "  Test User  ", "consent": true}
	out := TrimStrings(in)

	assert.Equal(t, "Test User", out["name"])
	assert.Equal(t, true, out["consent"])
	assert.Equal(t, "  Test User  ", in["name"], "input must not be mutated")
}

func TestCheckValue(t *testing.T) {
	pan := schema.FieldDescriptor{Name: "pan", Label: "PAN", Required: true, TypeAttr: "text", Kind: schema.KindPAN}
	consent := schema.FieldDescriptor{Name: "consent", Label: "Consent", TypeAttr: "checkbox", Kind: schema.KindConsent}

	state, _ := CheckValue(pan, "")
	assert.Equal(t, StateIdle, state)

	state, msg := CheckValue(pan, "ABCD1234F")
	assert.Equal(t, StateInvalid, state)
	assert.Contains(t, msg, "PAN")

	state, _ = CheckValue(pan, "ABCDE1234F")
	assert.Equal(t, StateValid, state)

	state, _ = CheckValue(consent, false)
	assert.Equal(t, StateInvalid, state)

	state, _ = CheckValue(consent, "true")
	assert.Equal(t, StateValid, state)

	state, _ = CheckValue(schema.FieldDescriptor{ID: "btn", Type: "button"}, "x")
	assert.Equal(t, StateIdle, state)
}

func TestFormatHint(t *testing.T) {
	assert.Equal(t, "OTP must be 6 digits", FormatHint(schema.FieldDescriptor{Kind: schema.KindOTP}))
	assert.Equal(t, "GSTIN has an invalid format", FormatHint(schema.FieldDescriptor{Label: "GSTIN", Pattern: `\d{2}[A-Z]{5}`, Kind: schema.KindGeneric}))
	assert.Empty(t, FormatHint(schema.FieldDescriptor{Label: "Name", Kind: schema.KindName}))
}
