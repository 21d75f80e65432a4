package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"udyam/internal/platform/tracer"
	"udyam/internal/registration/metrics"
	"udyam/internal/registration/models"
	"udyam/internal/rules"
	"udyam/internal/schema"
	dErrors "udyam/pkg/domain-errors"
	audit "udyam/pkg/platform/audit"
	"udyam/pkg/platform/sentinel"
	"udyam/pkg/requestcontext"
)

// DefaultDemoOTP is the passcode accepted when none is configured.
const DefaultDemoOTP = "123456"

const aadhaarValidatedMessage = "Aadhaar validated successfully. OTP sent."

// Store persists registration records.
type Store interface {
	CreateWithStep1(ctx context.Context, step1 models.Step1, now time.Time) (*models.Registration, error)
	FindByAadhaar(ctx context.Context, aadhaar string) (*models.Registration, error)
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	MarkOTPVerified(ctx context.Context, id, otp string, now time.Time) (*models.Registration, error)
	AttachStep2(ctx context.Context, id string, step2 models.Step2, now time.Time) (*models.Registration, error)
}

// AuditPublisher records audit events. Failures never fail the request.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the two-step registration flow: Aadhaar with OTP, then PAN.
type Service struct {
	store   Store
	fields  rules.FieldSource
	auditor AuditPublisher
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
	demoOTP string
}

type Option func(*Service)

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithDemoOTP overrides the accepted passcode. Empty values are ignored.
func WithDemoOTP(otp string) Option {
	return func(s *Service) {
		if otp != "" {
			s.demoOTP = otp
		}
	}
}

// New builds the service. fields supplies the descriptors each step is validated against.
func New(store Store, fields rules.FieldSource, opts ...Option) *Service {
	s := &Service{
		store:   store,
		fields:  fields,
		tracer:  tracer.Noop{},
		logger:  slog.Default(),
		demoOTP: DefaultDemoOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateAadhaar starts a registration. Resubmitting a known Aadhaar returns
// the existing registration's id with the same success message.
func (s *Service) ValidateAadhaar(ctx context.Context, req models.ValidateAadhaarRequest) (_ *models.MessageResponse, err error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	subject := tracer.HashedID(req.Aadhaar)
	ctx, span := s.tracer.Start(ctx, "registration.ValidateAadhaar", tracer.String("subject_hash", subject))
	defer func() { span.End(err) }()

	existing, err := s.store.FindByAadhaar(ctx, req.Aadhaar)
	switch {
	case err == nil:
		span.AddEvent("duplicate_aadhaar")
		s.metrics.IncrementAadhaar("duplicate")
		s.emit(ctx, audit.Event{
			Action:         audit.ActionAadhaarDuplicate,
			RegistrationID: existing.ID,
			Step:           models.StepOne,
			SubjectIDHash:  subject,
		})
		return &models.MessageResponse{Message: aadhaarValidatedMessage, ID: existing.ID}, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up aadhaar")
	}

	reg, err := s.store.CreateWithStep1(ctx, models.Step1{
		Aadhaar:     req.Aadhaar,
		Name:        req.Name,
		Declaration: req.Consent,
	}, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registration")
	}

	s.metrics.IncrementAadhaar("created")
	s.emit(ctx, audit.Event{
		Action:         audit.ActionAadhaarSubmitted,
		RegistrationID: reg.ID,
		Step:           models.StepOne,
		SubjectIDHash:  subject,
	})
	s.logger.InfoContext(ctx, "otp dispatched to aadhaar-linked mobile",
		"registration_id", reg.ID,
		"subject_hash", subject,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &models.MessageResponse{Message: aadhaarValidatedMessage, ID: reg.ID}, nil
}

// ValidateOTP checks the passcode and marks step 1 verified. Repeating a
// correct submission re-sets the flag.
func (s *Service) ValidateOTP(ctx context.Context, req models.ValidateOTPRequest) (_ *models.MessageResponse, err error) {
	req.Sanitize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "registration.ValidateOTP", tracer.String("registration_id", req.ID))
	defer func() { span.End(err) }()

	if _, err := s.store.FindByID(ctx, req.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementOTP("not_found")
			return nil, dErrors.New(dErrors.CodeNotFound, "Registration not found.")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}

	if req.OTP != s.demoOTP {
		s.metrics.IncrementOTP("rejected")
		s.emit(ctx, audit.Event{
			Action:         audit.ActionOTPRejected,
			RegistrationID: req.ID,
			Step:           models.StepOne,
		})
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("Invalid OTP. For demo, use %s.", s.demoOTP))
	}

	reg, err := s.store.MarkOTPVerified(ctx, req.ID, req.OTP, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Registration not found.")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify otp")
	}

	s.metrics.IncrementOTP("verified")
	s.emit(ctx, audit.Event{
		Action:         audit.ActionOTPVerified,
		RegistrationID: reg.ID,
		Step:           models.StepOne,
	})
	return &models.MessageResponse{Message: "OTP validated successfully.", ID: reg.ID}, nil
}

// SubmitStep validates payload against the schema of step and persists it.
// Step 1 always creates a new record; step 2 updates the record named by payload["id"].
func (s *Service) SubmitStep(ctx context.Context, step string, payload map[string]any) (_ *models.StepResponse, err error) {
	start := time.Now()
	if step != models.StepOne && step != models.StepTwo {
		return nil, schema.ErrStepNotFound
	}

	ctx, span := s.tracer.Start(ctx, "registration.SubmitStep", tracer.String("step", step))
	defer func() {
		outcome := "saved"
		if err != nil {
			outcome = "rejected"
			if !dErrors.HasCode(err, dErrors.CodeValidation) && !dErrors.HasCode(err, dErrors.CodeBadRequest) && !dErrors.HasCode(err, dErrors.CodeNotFound) {
				outcome = "error"
			}
		}
		s.metrics.ObserveStep(step, outcome, start)
		span.End(err)
	}()

	var id string
	if step == models.StepTwo {
		id, _ = payload["id"].(string)
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "Missing registration ID for step 2")
		}
		span.SetAttributes(tracer.String("registration_id", id))
	}
	data := rules.TrimStrings(payload)
	delete(data, "id")

	validator, err := rules.BuildStep(s.fields, step)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build validator")
	}
	if res := validator.Validate(data); !res.Valid() {
		return nil, res.Err()
	}
	values := validator.ByKind(data)

	var reg *models.Registration
	switch step {
	case models.StepOne:
		reg, err = s.saveStep1(ctx, values)
	case models.StepTwo:
		reg, err = s.saveStep2(ctx, id, values)
	}
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:         audit.ActionStepSaved,
		RegistrationID: reg.ID,
		Step:           step,
	})
	return &models.StepResponse{
		Message:      fmt.Sprintf("Step %s saved successfully", step),
		Registration: reg,
	}, nil
}

func (s *Service) saveStep1(ctx context.Context, values map[schema.Kind]any) (*models.Registration, error) {
	step1 := models.Step1{
		Aadhaar: stringValue(values[schema.KindAadhaar]),
		Name:    stringValue(values[schema.KindName]),
		OTP:     stringValue(values[schema.KindOTP]),
	}
	step1.Declaration, _ = values[schema.KindConsent].(bool)
	if err := step1.Validate(); err != nil {
		return nil, err
	}

	reg, err := s.store.CreateWithStep1(ctx, step1, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create registration")
	}
	return reg, nil
}

func (s *Service) saveStep2(ctx context.Context, id string, values map[schema.Kind]any) (*models.Registration, error) {
	step2 := models.Step2{
		PAN:     stringValue(values[schema.KindPAN]),
		Pincode: stringValue(values[schema.KindPincode]),
		City:    stringValue(values[schema.KindCity]),
		State:   stringValue(values[schema.KindState]),
	}
	if err := step2.Validate(); err != nil {
		return nil, err
	}

	reg, err := s.store.AttachStep2(ctx, id, step2, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Registration not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach step 2")
	}
	return reg, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"error", err,
			"action", event.Action,
			"registration_id", event.RegistrationID,
			"request_id", event.RequestID,
		)
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
