package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "udyam/pkg/domain-errors"
)

func TestValidateAadhaarRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     ValidateAadhaarRequest
		message string
	}{
		{"valid", ValidateAadhaarRequest{Aadhaar: "123456789012", Name: "Test User", Consent: true}, ""},
		{"short aadhaar", ValidateAadhaarRequest{Aadhaar: "12345678901", Name: "Test User", Consent: true}, "Invalid Aadhaar number. Must be exactly 12 digits."},
		{"letters in aadhaar", ValidateAadhaarRequest{Aadhaar: "12345678901a", Name: "Test User", Consent: true}, "Invalid Aadhaar number. Must be exactly 12 digits."},
		{"aadhaar checked before name", ValidateAadhaarRequest{Aadhaar: "", Name: "", Consent: false}, "Invalid Aadhaar number. Must be exactly 12 digits."},
		{"blank name", ValidateAadhaarRequest{Aadhaar: "123456789012", Name: "   ", Consent: true}, "Name is required."},
		{"no consent", ValidateAadhaarRequest{Aadhaar: "123456789012", Name: "Test User"}, "You must provide consent to proceed."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Sanitize()
			err := req.Validate()
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Equal(t, tt.message, dErrors.Message(err, ""))
		})
	}
}

func TestValidateOTPRequest(t *testing.T) {
	assert.NoError(t, (&ValidateOTPRequest{ID: "abc", OTP: "123456"}).Validate())
	assert.Equal(t, "Registration ID is required.",
		dErrors.Message((&ValidateOTPRequest{OTP: "123456"}).Validate(), ""))
	assert.Equal(t, "Invalid OTP. Must be 6 digits.",
		dErrors.Message((&ValidateOTPRequest{ID: "abc", OTP: "12345"}).Validate(), ""))
	assert.Equal(t, "Invalid OTP. Must be 6 digits.",
		dErrors.Message((&ValidateOTPRequest{ID: "abc", OTP: "12345a"}).Validate(), ""))
}

func TestStep1Validate(t *testing.T) {
	valid := Step1{Aadhaar: "123456789012", Name: "A", Declaration: true}
	assert.NoError(t, valid.Validate())

	noDecl := valid
	noDecl.Declaration = false
	assert.Error(t, noDecl.Validate())

	badOTP := valid
	badOTP.OTP = "12"
	assert.Error(t, badOTP.Validate())
}

func TestStep2Validate(t *testing.T) {
	assert.NoError(t, Step2{PAN: "ABCDE1234F"}.Validate())
	assert.Error(t, Step2{PAN: "ABCD1234F"}.Validate())
	assert.Error(t, Step2{PAN: "abcde1234f"}.Validate())
}
