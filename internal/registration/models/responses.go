package models

// MessageResponse answers the Aadhaar and OTP endpoints.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// StepResponse answers the generic step submission endpoints.
type StepResponse struct {
	Message      string        `json:"message"`
	Registration *Registration `json:"registration"`
}
