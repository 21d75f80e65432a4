package wizard

import (
	"context"
	"errors"

	"udyam/internal/registration/models"
	"udyam/internal/rules"
	"udyam/internal/schema"
)

// Step1State is the position of the identity-verification controller.
type Step1State string

const (
	Step1Idle              Step1State = "idle"
	Step1AadhaarSubmitting Step1State = "aadhaarSubmitting"
	Step1OTPPending        Step1State = "otpPending"
	Step1OTPSubmitting     Step1State = "otpSubmitting"
	Step1Complete          Step1State = "complete"
	// Step1Error means the last request never got an answer from the server.
	Step1Error Step1State = "error"
)

// ErrSubmissionInFlight is returned when a submit is attempted while one is running.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// Step1API is the part of the registration API step 1 uses.
type Step1API interface {
	ValidateAadhaar(ctx context.Context, req models.ValidateAadhaarRequest) (*models.MessageResponse, error)
	ValidateOTP(ctx context.Context, req models.ValidateOTPRequest) (*models.MessageResponse, error)
}

// Step1Controller drives Aadhaar submission and OTP verification.
// It is not safe for concurrent use.
type Step1Controller struct {
	api       Step1API
	validator *rules.Validator
	state     Step1State
	id        string
}

// NewStep1 validates identity fields with the shared rule set; the OTP field
// is checked separately by SubmitOTP.
func NewStep1(api Step1API, fields []schema.FieldDescriptor) (*Step1Controller, error) {
	v, err := rules.Build(fields)
	if err != nil {
		return nil, err
	}
	return &Step1Controller{
		api:       api,
		validator: v.Without(schema.KindOTP),
		state:     Step1Idle,
	}, nil
}

func (c *Step1Controller) State() Step1State { return c.state }

// ID is the registration id once Aadhaar was accepted.
func (c *Step1Controller) ID() string { return c.id }

// SubmitAadhaar validates payload locally and, when it passes, asks the
// server to start the registration. Local failures never reach the network.
func (c *Step1Controller) SubmitAadhaar(ctx context.Context, payload map[string]any) (*models.MessageResponse, error) {
	if c.state == Step1AadhaarSubmitting || c.state == Step1OTPSubmitting {
		return nil, ErrSubmissionInFlight
	}

	data := rules.TrimStrings(payload)
	if res := c.validator.Validate(data); !res.Valid() {
		return nil, &ValidationError{Field: res.Field, Message: res.Message}
	}
	values := c.validator.ByKind(data)
	req := models.ValidateAadhaarRequest{
		Aadhaar: stringValue(values[schema.KindAadhaar]),
		Name:    stringValue(values[schema.KindName]),
	}
	req.Consent, _ = values[schema.KindConsent].(bool)

	c.state = Step1AadhaarSubmitting
	resp, err := c.api.ValidateAadhaar(ctx, req)
	if err != nil {
		c.state = failureState(err, Step1Idle)
		return nil, &APIError{Status: statusOf(err), Message: messageOf(err, "Aadhaar validation failed")}
	}
	c.id = resp.ID
	c.state = Step1OTPPending
	return resp, nil
}

// SubmitOTP verifies the passcode for the registration started by SubmitAadhaar.
func (c *Step1Controller) SubmitOTP(ctx context.Context, otp string) (*models.MessageResponse, error) {
	if c.state == Step1AadhaarSubmitting || c.state == Step1OTPSubmitting {
		return nil, ErrSubmissionInFlight
	}
	if c.id == "" {
		return nil, &ValidationError{Field: "id", Message: "Missing registration id"}
	}
	otp = rules.Normalize(schema.KindOTP, otp)
	if otp == "" {
		return nil, &ValidationError{Field: "otp", Message: "Enter OTP"}
	}

	c.state = Step1OTPSubmitting
	resp, err := c.api.ValidateOTP(ctx, models.ValidateOTPRequest{ID: c.id, OTP: otp})
	if err != nil {
		c.state = failureState(err, Step1OTPPending)
		return nil, &APIError{Status: statusOf(err), Message: messageOf(err, "OTP validation failed")}
	}
	c.state = Step1Complete
	return resp, nil
}

// Reset forgets the registration and returns to idle.
func (c *Step1Controller) Reset() {
	c.state = Step1Idle
	c.id = ""
}

// failureState returns to the resting state when the server answered, and
// to error when it did not.
func failureState(err error, resting Step1State) Step1State {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return resting
	}
	return Step1Error
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
