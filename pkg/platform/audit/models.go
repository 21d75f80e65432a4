package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks
// can apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers identity-verification outcomes.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers rejected verification attempts.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine submissions.
	CategoryOperations EventCategory = "operations"
)

// Action names one auditable step of the registration flow.
type Action string

const (
	ActionAadhaarSubmitted Action = "aadhaar_submitted"
	ActionAadhaarDuplicate Action = "aadhaar_duplicate"
	ActionOTPVerified      Action = "otp_verified"
	ActionOTPRejected      Action = "otp_rejected"
	ActionStepSaved        Action = "step_saved"
)

var actionCategories = map[Action]EventCategory{
	ActionAadhaarSubmitted: CategoryCompliance,
	ActionAadhaarDuplicate: CategoryCompliance,
	ActionOTPVerified:      CategoryCompliance,
	ActionOTPRejected:      CategorySecurity,
	ActionStepSaved:        CategoryOperations,
}

// Category returns the category of the action. Unknown actions are operational.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. It never holds
// a raw Aadhaar number; SubjectIDHash carries its SHA-256 instead.
type Event struct {
	Category       EventCategory `json:"category"`
	Timestamp      time.Time     `json:"timestamp"`
	Action         Action        `json:"action"`
	RegistrationID string        `json:"registrationId,omitempty"`
	Step           string        `json:"step,omitempty"`
	SubjectIDHash  string        `json:"subjectIdHash,omitempty"`
	RequestID      string        `json:"requestId,omitempty"`
	ClientIP       string        `json:"clientIp,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRegistration(ctx context.Context, registrationID string) ([]Event, error)
}
