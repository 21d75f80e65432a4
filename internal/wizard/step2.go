package wizard

import (
	"context"
	"maps"

	"udyam/internal/registration/models"
	"udyam/internal/rules"
	"udyam/internal/schema"
)

// Step2State is the position of the PAN controller.
type Step2State string

const (
	Step2Idle       Step2State = "idle"
	Step2Submitting Step2State = "submitting"
	Step2Complete   Step2State = "complete"
	Step2Error      Step2State = "error"
)

// Step2API is the part of the registration API step 2 uses.
type Step2API interface {
	SubmitStep(ctx context.Context, step string, payload map[string]any) (*models.StepResponse, error)
}

// Step2Controller submits the PAN form for an existing registration.
// It is not safe for concurrent use.
type Step2Controller struct {
	api       Step2API
	validator *rules.Validator
	state     Step2State
	result    *models.Registration
}

func NewStep2(api Step2API, fields []schema.FieldDescriptor) (*Step2Controller, error) {
	v, err := rules.Build(fields)
	if err != nil {
		return nil, err
	}
	return &Step2Controller{api: api, validator: v, state: Step2Idle}, nil
}

func (c *Step2Controller) State() Step2State { return c.state }

// Registration is the saved record after a successful submission.
func (c *Step2Controller) Registration() *models.Registration { return c.result }

// SubmitPAN validates payload against the step-2 schema and attaches it to registration id.
func (c *Step2Controller) SubmitPAN(ctx context.Context, id string, payload map[string]any) (*models.StepResponse, error) {
	if c.state == Step2Submitting {
		return nil, ErrSubmissionInFlight
	}
	if id == "" {
		return nil, &ValidationError{Field: "id", Message: "Missing registration id"}
	}

	data := rules.TrimStrings(payload)
	if res := c.validator.Validate(data); !res.Valid() {
		return nil, &ValidationError{Field: res.Field, Message: res.Message}
	}

	body := maps.Clone(data)
	body["id"] = id

	c.state = Step2Submitting
	resp, err := c.api.SubmitStep(ctx, models.StepTwo, body)
	if err != nil {
		c.state = Step2Error
		return nil, &APIError{Status: statusOf(err), Message: messageOf(err, "Error saving PAN")}
	}
	c.state = Step2Complete
	c.result = resp.Registration
	return resp, nil
}
