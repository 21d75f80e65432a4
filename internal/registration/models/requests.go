package models

import (
	"strings"

	dErrors "udyam/pkg/domain-errors"
)

// ValidateAadhaarRequest starts a registration.
type ValidateAadhaarRequest struct {
	Aadhaar string `json:"aadhaar"`
	Name    string `json:"name"`
	Consent bool   `json:"consent"`
}

func (r *ValidateAadhaarRequest) Sanitize() {
	r.Aadhaar = strings.TrimSpace(r.Aadhaar)
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks aadhaar, then name, then consent, reporting only the first problem.
func (r *ValidateAadhaarRequest) Validate() error {
	if !aadhaarPattern.MatchString(r.Aadhaar) {
		return dErrors.New(dErrors.CodeValidation, "Invalid Aadhaar number. Must be exactly 12 digits.")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "Name is required.")
	}
	if !r.Consent {
		return dErrors.New(dErrors.CodeValidation, "You must provide consent to proceed.")
	}
	return nil
}

// ValidateOTPRequest verifies the one-time passcode of a registration.
type ValidateOTPRequest struct {
	ID  string `json:"id"`
	OTP string `json:"otp"`
}

func (r *ValidateOTPRequest) Sanitize() {
	r.ID = strings.TrimSpace(r.ID)
	r.OTP = strings.TrimSpace(r.OTP)
}

func (r *ValidateOTPRequest) Validate() error {
	if r.ID == "" {
		return dErrors.New(dErrors.CodeValidation, "Registration ID is required.")
	}
	if !otpPattern.MatchString(r.OTP) {
		return dErrors.New(dErrors.CodeValidation, "Invalid OTP. Must be 6 digits.")
	}
	return nil
}
