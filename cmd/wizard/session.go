package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"udyam/internal/registration/models"
	"udyam/internal/rules"
	"udyam/internal/schema"
	"udyam/internal/wizard"
)

const maxAttempts = 3

// session is one interactive pass through both steps.
type session struct {
	client *wizard.Client
	in     *bufio.Scanner
	out    io.Writer
}

func newSession(client *wizard.Client, in *bufio.Scanner, out io.Writer) *session {
	return &session{client: client, in: in, out: out}
}

func (s *session) run(ctx context.Context) error {
	id, err := s.identity(ctx)
	if err != nil {
		return err
	}
	reg, err := s.business(ctx, id)
	if err != nil {
		return err
	}
	s.printf("\nRegistration %s\n", reg.ID)
	if reg.Step1 != nil {
		s.printf("  Name:    %s\n", reg.Step1.Name)
	}
	if reg.Step2 != nil {
		s.printf("  PAN:     %s\n", reg.Step2.PAN)
		if reg.Step2.City != "" || reg.Step2.State != "" {
			s.printf("  Address: %s, %s %s\n", reg.Step2.City, reg.Step2.State, reg.Step2.Pincode)
		}
	}
	return nil
}

// identity collects step 1 and returns the verified registration id.
func (s *session) identity(ctx context.Context) (string, error) {
	descs, err := s.client.Schema(ctx, models.StepOne)
	if err != nil {
		return "", fmt.Errorf("load step 1: %w", err)
	}
	form := wizard.NewForm(models.StepOne, descs, s.client)
	ctrl, err := wizard.NewStep1(s.client, descs)
	if err != nil {
		return "", err
	}

	s.printf("Step 1: Aadhaar verification\n")
	for attempt := 1; ctrl.State() != wizard.Step1OTPPending; attempt++ {
		if attempt > maxAttempts {
			return "", errors.New("aadhaar not accepted")
		}
		for _, f := range form.Fields() {
			if f.Descriptor().Kind == schema.KindOTP {
				continue
			}
			if err := s.fill(ctx, form, f); err != nil {
				return "", err
			}
		}
		resp, err := ctrl.SubmitAadhaar(ctx, form.Values())
		if err != nil {
			s.report(form, err)
			continue
		}
		s.printf("%s\n", resp.Message)
	}

	otpField := form.FieldByKind(schema.KindOTP)
	for attempt := 1; ctrl.State() != wizard.Step1Complete; attempt++ {
		if attempt > maxAttempts {
			return "", errors.New("otp not verified")
		}
		var raw string
		if otpField != nil {
			if err := s.fill(ctx, form, otpField); err != nil {
				return "", err
			}
			raw, _ = otpField.Value().(string)
		} else {
			if raw, err = s.ask("OTP"); err != nil {
				return "", err
			}
		}
		resp, err := ctrl.SubmitOTP(ctx, raw)
		if err != nil {
			s.report(form, err)
			continue
		}
		s.printf("%s\n", resp.Message)
	}
	return ctrl.ID(), nil
}

// business collects step 2 for registration id.
func (s *session) business(ctx context.Context, id string) (*models.Registration, error) {
	descs, err := s.client.Schema(ctx, models.StepTwo)
	if err != nil {
		return nil, fmt.Errorf("load step 2: %w", err)
	}
	form := wizard.NewForm(models.StepTwo, descs, s.client)
	ctrl, err := wizard.NewStep2(s.client, descs)
	if err != nil {
		return nil, err
	}

	s.printf("\nStep 2: PAN verification\n")
	for attempt := 1; ctrl.State() != wizard.Step2Complete; attempt++ {
		if attempt > maxAttempts {
			return nil, errors.New("pan not saved")
		}
		for _, f := range form.Fields() {
			if err := s.fill(ctx, form, f); err != nil {
				return nil, err
			}
		}
		resp, err := ctrl.SubmitPAN(ctx, id, form.Values())
		if err != nil {
			s.report(form, err)
			continue
		}
		s.printf("%s\n", resp.Message)
	}
	return ctrl.Registration(), nil
}

// fill prompts for one field until its value passes the live rules.
// An empty answer keeps a value that is already present, such as an autofilled city.
func (s *session) fill(ctx context.Context, form *wizard.Form, f *wizard.Field) error {
	desc := f.Descriptor()
	for {
		c := f.Render()
		prompt := c.Label
		if desc.IsCheckbox() {
			prompt += " [y/N]"
		} else if current, _ := c.Value.(string); current != "" {
			prompt += " [" + current + "]"
		}

		raw, err := s.ask(prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" && !desc.IsCheckbox() {
			if current, _ := f.Value().(string); current != "" {
				return nil
			}
			if desc.Required {
				s.printf("  %s is required\n", c.Label)
				continue
			}
		}
		if err := form.Input(ctx, desc.Key(), raw); err != nil {
			return err
		}
		if c := f.Render(); c.State == rules.StateInvalid {
			s.printf("  %s\n", c.Message)
			continue
		}
		if loc := f.Locality(); loc != nil {
			s.printf("  %s, %s\n", loc.Name, loc.State)
		}
		return nil
	}
}

func (s *session) report(form *wizard.Form, err error) {
	var vErr *wizard.ValidationError
	if errors.As(err, &vErr) {
		form.Fail(vErr.Field, vErr.Message)
		s.printf("  %s\n", vErr.Message)
		return
	}
	var apiErr *wizard.APIError
	if errors.As(err, &apiErr) {
		s.printf("  %s\n", apiErr.Message)
		return
	}
	s.printf("  %v\n", err)
}

func (s *session) ask(prompt string) (string, error) {
	s.printf("%s: ", prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return s.in.Text(), nil
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func printControls(w io.Writer, controls []wizard.Control) {
	for _, c := range controls {
		line := fmt.Sprintf("%-10s %-8s %s", c.Kind, c.InputType, c.Label)
		if c.Required {
			line += " *"
		}
		if c.Hint != "" {
			line += " (" + c.Hint + ")"
		}
		fmt.Fprintln(w, line)
	}
}
