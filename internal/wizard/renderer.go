package wizard

import (
	"context"
	"errors"
	"strings"

	"udyam/internal/pincode"
	"udyam/internal/rules"
	"udyam/internal/schema"
)

// ErrNotRenderable is returned for hidden inputs and buttons.
var ErrNotRenderable = errors.New("descriptor is not renderable")

// LocalityLookup resolves a complete postal code for autofill.
type LocalityLookup interface {
	LookupPincode(ctx context.Context, code string) (*pincode.Locality, error)
}

// Control is the render-ready view of one field.
type Control struct {
	Key         string
	ID          string
	Kind        schema.Kind
	Label       string
	InputType   string
	Placeholder string
	Required    bool
	Hint        string
	Value       any
	State       rules.State
	Message     string
	Locality    *pincode.Locality
}

// Field is one editable input with its live validation state.
type Field struct {
	desc     schema.FieldDescriptor
	lookup   LocalityLookup
	value    any
	state    rules.State
	message  string
	locality *pincode.Locality
}

func NewField(desc schema.FieldDescriptor, lookup LocalityLookup) (*Field, error) {
	if !desc.Collects() {
		return nil, ErrNotRenderable
	}
	f := &Field{desc: desc, lookup: lookup, state: rules.StateIdle}
	if desc.IsCheckbox() {
		f.value = false
	}
	return f, nil
}

func (f *Field) Descriptor() schema.FieldDescriptor { return f.desc }
func (f *Field) Value() any                         { return f.value }
func (f *Field) State() rules.State                 { return f.state }
func (f *Field) Locality() *pincode.Locality        { return f.locality }

func (f *Field) Render() Control {
	inputType := f.desc.TypeAttr
	if inputType == "" {
		inputType = schema.InputText
	}
	return Control{
		Key:         f.desc.Key(),
		ID:          f.desc.ID,
		Kind:        f.desc.Kind,
		Label:       f.desc.DisplayLabel(),
		InputType:   inputType,
		Placeholder: f.desc.Placeholder,
		Required:    f.desc.Required,
		Hint:        rules.FormatHint(f.desc),
		Value:       f.value,
		State:       f.state,
		Message:     f.message,
		Locality:    f.locality,
	}
}

// Input applies a raw keystroke-level value. Masking follows the field kind;
// a complete postal code triggers a locality lookup whose failure is ignored.
func (f *Field) Input(ctx context.Context, raw string) {
	if f.desc.IsCheckbox() {
		f.value = parseBool(raw)
	} else {
		f.value = rules.Normalize(f.desc.Kind, raw)
	}
	f.state, f.message = rules.CheckValue(f.desc, f.value)

	if f.desc.Kind == schema.KindPincode {
		f.resolveLocality(ctx)
	}
}

// Fail marks the field as rejected by a submission attempt.
func (f *Field) Fail(message string) {
	f.state = rules.StateError
	f.message = message
}

func (f *Field) resolveLocality(ctx context.Context) {
	code, _ := f.value.(string)
	if f.lookup == nil || !pincode.ValidCode(code) {
		f.locality = nil
		return
	}
	loc, err := f.lookup.LookupPincode(ctx, code)
	if err != nil {
		f.locality = nil
		return
	}
	f.locality = loc
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "yes", "1", "y":
		return true
	}
	return false
}

// Form holds the renderable fields of one step in schema order.
type Form struct {
	step   string
	fields []*Field
}

// NewForm keeps only renderable descriptors.
func NewForm(step string, descs []schema.FieldDescriptor, lookup LocalityLookup) *Form {
	form := &Form{step: step}
	for _, d := range descs {
		if f, err := NewField(d, lookup); err == nil {
			form.fields = append(form.fields, f)
		}
	}
	return form
}

// LoadForm fetches the schema of step and builds its form.
func LoadForm(ctx context.Context, client *Client, step string) (*Form, error) {
	descs, err := client.Schema(ctx, step)
	if err != nil {
		return nil, err
	}
	return NewForm(step, descs, client), nil
}

func (fm *Form) Step() string     { return fm.step }
func (fm *Form) Fields() []*Field { return fm.fields }

// Field finds a field by payload key.
func (fm *Form) Field(key string) *Field {
	for _, f := range fm.fields {
		if f.desc.Key() == key {
			return f
		}
	}
	return nil
}

// FieldByKind returns the first field of kind.
func (fm *Form) FieldByKind(kind schema.Kind) *Field {
	for _, f := range fm.fields {
		if f.desc.Kind == kind {
			return f
		}
	}
	return nil
}

// Input routes raw to the field named key. A resolved locality fills the
// city and state fields of the form.
func (fm *Form) Input(ctx context.Context, key, raw string) error {
	f := fm.Field(key)
	if f == nil {
		return &ValidationError{Field: key, Message: "Unknown field " + key}
	}
	f.Input(ctx, raw)

	if loc := f.Locality(); loc != nil {
		city := loc.District
		if city == "" {
			city = loc.Region
		}
		if c := fm.FieldByKind(schema.KindCity); c != nil {
			c.Input(ctx, city)
		}
		if s := fm.FieldByKind(schema.KindState); s != nil {
			s.Input(ctx, loc.State)
		}
	}
	return nil
}

// Values is the submission payload: every field that has a value, by key.
func (fm *Form) Values() map[string]any {
	out := make(map[string]any, len(fm.fields))
	for _, f := range fm.fields {
		if f.value != nil {
			out[f.desc.Key()] = f.value
		}
	}
	return out
}

func (fm *Form) Render() []Control {
	out := make([]Control, len(fm.fields))
	for i, f := range fm.fields {
		out[i] = f.Render()
	}
	return out
}

// Fail marks the named field as rejected. Unknown keys are ignored.
func (fm *Form) Fail(key, message string) {
	if f := fm.Field(key); f != nil {
		f.Fail(message)
	}
}
