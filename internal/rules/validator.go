package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"udyam/internal/schema"
	dErrors "udyam/pkg/domain-errors"
)

// Result is the outcome of validating a payload. The zero value means valid.
type Result struct {
	Field   string
	Message string
}

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return r.Message == ""
}

// Err converts a failing result into a validation domain error.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, r.Message)
}

// FieldSource supplies every descriptor of a step.
type FieldSource interface {
	Fields(step string) ([]schema.FieldDescriptor, error)
}

type check struct {
	field    schema.FieldDescriptor
	keys     []string
	label    string
	checkbox bool
	// typeMessage is used when the value has the wrong JSON type.
	typeMessage    string
	patternMessage string
	schema         *gojsonschema.Schema
}

// Validator checks payloads against the compiled constraints of one step.
type Validator struct {
	checks []check
}

// BuildStep builds a validator from every descriptor of step.
func BuildStep(src FieldSource, step string) (*Validator, error) {
	fields, err := src.Fields(step)
	if err != nil {
		return nil, err
	}
	return Build(fields)
}

// Build compiles descriptors into a validator. Hidden inputs and buttons are skipped.
func Build(fields []schema.FieldDescriptor) (*Validator, error) {
	v := &Validator{}
	for _, f := range fields {
		if !f.Collects() {
			continue
		}
		c, err := compile(f)
		if err != nil {
			return nil, fmt.Errorf("compile rule for %q: %w", f.Key(), err)
		}
		v.checks = append(v.checks, c)
	}
	return v, nil
}

func compile(f schema.FieldDescriptor) (check, error) {
	label := f.DisplayLabel()
	rule := For(f.Kind)

	c := check{
		field: f,
		keys:  payloadKeys(f, rule),
		label: label,
	}

	fragment := map[string]any{}
	if f.IsCheckbox() {
		c.checkbox = true
		c.typeMessage = label + " must be accepted"
		fragment["type"] = "boolean"
		fragment["enum"] = []any{true}
	} else {
		c.typeMessage = label + " must be text"
		fragment["type"] = "string"

		switch {
		case rule.Pattern != "":
			fragment["pattern"] = rule.Pattern
			c.patternMessage = rule.Message
			c.typeMessage = rule.Message
		case f.Pattern != "":
			anchored := "^(?:" + f.Pattern + ")$"
			if _, err := regexp.Compile(anchored); err != nil {
				return check{}, err
			}
			fragment["pattern"] = anchored
			c.patternMessage = label + " has an invalid format"
		}
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(fragment))
	if err != nil {
		return check{}, err
	}
	c.schema = compiled
	return c, nil
}

func payloadKeys(f schema.FieldDescriptor, rule Rule) []string {
	seen := map[string]bool{}
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	add(f.Key())
	add(f.ID)
	if f.Kind != schema.KindGeneric {
		add(string(f.Kind))
	}
	for _, a := range rule.Aliases {
		add(a)
	}
	return keys
}

// Validate returns the first failing field in schema order. Unknown payload keys are ignored.
func (v *Validator) Validate(payload map[string]any) Result {
	for _, c := range v.checks {
		if msg := c.evaluate(lookup(payload, c.keys)); msg != "" {
			return Result{Field: c.field.Key(), Message: msg}
		}
	}
	return Result{}
}

func (c check) evaluate(value any, present bool) string {
	if c.checkbox {
		if !present {
			return c.typeMessage
		}
		value = coerceBool(value)
	} else {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			present = false
		}
		if !present {
			if c.field.Required {
				return c.label + " is required"
			}
			return ""
		}
	}

	res, err := c.schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return c.typeMessage
	}
	if res.Valid() {
		return ""
	}
	for _, e := range res.Errors() {
		if e.Type() == "pattern" && c.patternMessage != "" {
			return c.patternMessage
		}
	}
	return c.typeMessage
}

func lookup(payload map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := payload[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func coerceBool(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true
	case "false", "off", "no", "0", "":
		return false
	}
	return v
}

// Without returns a validator that skips fields of the given kinds.
func (v *Validator) Without(kinds ...schema.Kind) *Validator {
	skip := make(map[schema.Kind]bool, len(kinds))
	for _, k := range kinds {
		skip[k] = true
	}
	out := &Validator{}
	for _, c := range v.checks {
		if !skip[c.field.Kind] {
			out.checks = append(out.checks, c)
		}
	}
	return out
}

// Keys lists the payload key of every checked field, in schema order.
func (v *Validator) Keys() []string {
	keys := make([]string, len(v.checks))
	for i, c := range v.checks {
		keys[i] = c.field.Key()
	}
	return keys
}

// ByKind picks the value of the first field of each non-generic kind.
// Checkbox values are coerced to bool.
func (v *Validator) ByKind(payload map[string]any) map[schema.Kind]any {
	out := make(map[schema.Kind]any)
	for _, c := range v.checks {
		if c.field.Kind == schema.KindGeneric {
			continue
		}
		if _, done := out[c.field.Kind]; done {
			continue
		}
		if val, ok := lookup(payload, c.keys); ok {
			if c.checkbox {
				val = coerceBool(val)
			}
			out[c.field.Kind] = val
		}
	}
	return out
}
