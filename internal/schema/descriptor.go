package schema

import "strings"

// Kind tags a descriptor with the domain meaning that drives masking and validation.
type Kind string

const (
	KindAadhaar Kind = "aadhaar"
	KindOTP     Kind = "otp"
	KindPAN     Kind = "pan"
	KindPincode Kind = "pincode"
	KindName    Kind = "name"
	KindConsent Kind = "consent"
	KindCity    Kind = "city"
	KindState   Kind = "state"
	KindGeneric Kind = "generic"
)

// Element and input kinds as scraped from the source form.
const (
	ElementInput  = "input"
	ElementSelect = "select"
	ElementButton = "button"

	InputText     = "text"
	InputCheckbox = "checkbox"
	InputHidden   = "hidden"
	InputButton   = "button"
	InputSubmit   = "submit"
)

// FieldDescriptor is one entry of a step's field schema.
type FieldDescriptor struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	TypeAttr    string `json:"typeAttr,omitempty"`
	Text        string `json:"text,omitempty"`
	Kind        Kind   `json:"kind,omitempty"`
}

// Key is the payload key for the field: its name, or its id when unnamed.
func (f FieldDescriptor) Key() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

// IsHidden reports whether the field is a hidden input.
func (f FieldDescriptor) IsHidden() bool {
	return f.TypeAttr == InputHidden
}

// IsButton reports whether the descriptor is a button or submit control.
func (f FieldDescriptor) IsButton() bool {
	return f.Type == ElementButton || f.TypeAttr == InputButton || f.TypeAttr == InputSubmit
}

// IsCheckbox reports whether the field is a checkbox.
func (f FieldDescriptor) IsCheckbox() bool {
	return f.TypeAttr == InputCheckbox
}

// Collects reports whether the field carries user input.
func (f FieldDescriptor) Collects() bool {
	return !f.IsHidden() && !f.IsButton() && f.Key() != ""
}

// DisplayLabel falls back from label to placeholder to name.
func (f FieldDescriptor) DisplayLabel() string {
	switch {
	case strings.TrimSpace(f.Label) != "":
		return strings.TrimSpace(f.Label)
	case f.Placeholder != "":
		return f.Placeholder
	default:
		return f.Key()
	}
}

// inferKind derives a kind for descriptors loaded without one. Only the last
// segment of ASP.NET style names ("ctl00$...$txtadharno") is inspected.
func inferKind(f FieldDescriptor) Kind {
	if !f.Collects() {
		return KindGeneric
	}
	if f.IsCheckbox() {
		return KindConsent
	}

	key := strings.ToLower(f.Key())
	if i := strings.LastIndexAny(key, "$_"); i >= 0 && i < len(key)-1 {
		key = key[i+1:]
	}

	switch {
	case strings.Contains(key, "otp"):
		return KindOTP
	case strings.Contains(key, "adhar"), strings.Contains(key, "aadhaar"):
		return KindAadhaar
	case strings.Contains(key, "pincode"):
		return KindPincode
	case strings.Contains(key, "pan"):
		return KindPAN
	case strings.Contains(key, "city"), strings.Contains(key, "district"):
		return KindCity
	case strings.Contains(key, "state"):
		return KindState
	case strings.Contains(key, "name"):
		return KindName
	default:
		return KindGeneric
	}
}
