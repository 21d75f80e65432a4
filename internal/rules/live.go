package rules

import "udyam/internal/schema"

// State is the local validity of a single field while it is being edited.
type State string

const (
	StateIdle    State = "idle"
	StateValid   State = "valid"
	StateInvalid State = "invalid"
	// StateError marks a field rejected by a submission attempt.
	StateError State = "error"
)

// CheckValue evaluates one field value with the same constraints Validate uses.
// An empty value is idle until something is typed.
func CheckValue(field schema.FieldDescriptor, value any) (State, string) {
	if !field.Collects() {
		return StateIdle, ""
	}
	if s, ok := value.(string); ok && s == "" && !field.IsCheckbox() {
		return StateIdle, ""
	}
	c, err := compile(field)
	if err != nil {
		return StateError, err.Error()
	}
	if msg := c.evaluate(value, value != nil); msg != "" {
		return StateInvalid, msg
	}
	return StateValid, ""
}

// FormatHint is the human message describing the expected format of field, if any.
func FormatHint(field schema.FieldDescriptor) string {
	if rule := For(field.Kind); rule.Message != "" {
		return rule.Message
	}
	if field.Pattern != "" && !field.IsCheckbox() {
		return field.DisplayLabel() + " has an invalid format"
	}
	return ""
}
