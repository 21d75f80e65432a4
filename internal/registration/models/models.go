package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "udyam/pkg/domain-errors"
)

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	otpPattern     = regexp.MustCompile(`^\d{6}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}\d{4}[A-Z]$`)
)

// Registration is one applicant's progress through the two-step flow.
type Registration struct {
	ID        string    `json:"id"`
	Step1     *Step1    `json:"step1,omitempty"`
	Step2     *Step2    `json:"step2,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Step1 holds the identity-verification data. Verified only flips after a
// correct OTP.
type Step1 struct {
	Aadhaar     string `json:"aadhaar"`
	Name        string `json:"name"`
	OTP         string `json:"otp,omitempty"`
	Declaration bool   `json:"declaration"`
	Verified    bool   `json:"verified"`
}

// Validate enforces the record-level invariants of step 1.
func (s Step1) Validate() error {
	if !aadhaarPattern.MatchString(s.Aadhaar) {
		return dErrors.New(dErrors.CodeValidation, "Aadhaar must be 12 digits")
	}
	if strings.TrimSpace(s.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "Name is required")
	}
	if !s.Declaration {
		return dErrors.New(dErrors.CodeValidation, "Declaration must be accepted")
	}
	if s.OTP != "" && !otpPattern.MatchString(s.OTP) {
		return dErrors.New(dErrors.CodeValidation, "OTP must be 6 digits")
	}
	return nil
}

// Step2 holds the tax-ID data. Locality fields are optional.
type Step2 struct {
	PAN     string `json:"pan"`
	Pincode string `json:"pincode,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}

// Validate enforces the record-level invariants of step 2.
func (s Step2) Validate() error {
	if !panPattern.MatchString(s.PAN) {
		return dErrors.New(dErrors.CodeValidation, "PAN must be 5 letters, 4 digits, 1 letter (e.g., ABCDE1234F)")
	}
	return nil
}

// Step names accepted by the generic submission endpoint.
const (
	StepOne = "step1"
	StepTwo = "step2"
)
