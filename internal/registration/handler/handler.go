package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"udyam/internal/registration/models"
	dErrors "udyam/pkg/domain-errors"
	"udyam/pkg/platform/httputil"
	"udyam/pkg/requestcontext"
)

// Service defines the registration operations the handler exposes.
type Service interface {
	ValidateAadhaar(ctx context.Context, req models.ValidateAadhaarRequest) (*models.MessageResponse, error)
	ValidateOTP(ctx context.Context, req models.ValidateOTPRequest) (*models.MessageResponse, error)
	SubmitStep(ctx context.Context, step string, payload map[string]any) (*models.StepResponse, error)
}

// Handler serves the registration endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the registration routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/validate-aadhaar", h.HandleValidateAadhaar)
	r.Post("/validate-otp", h.HandleValidateOTP)
	r.Post("/step1", h.handleSubmitStep(models.StepOne))
	r.Post("/step2", h.handleSubmitStep(models.StepTwo))
}

func (h *Handler) HandleValidateAadhaar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ValidateAadhaarRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.ValidateAadhaar(ctx, *req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "aadhaar validation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleValidateOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.ValidateOTPRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.ValidateOTP(ctx, *req)
	if err != nil {
		h.writeServiceError(ctx, w, err, "otp validation failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSubmitStep(step string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		payload, ok := httputil.DecodeJSON[map[string]any](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}

		resp, err := h.service.SubmitStep(ctx, step, *payload)
		if err != nil {
			h.writeServiceError(ctx, w, err, "step submission failed", "step", step)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, resp)
	}
}

// writeServiceError logs client mistakes at warn and everything else at error.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", requestcontext.RequestID(ctx))
	switch {
	case dErrors.HasCode(err, dErrors.CodeValidation),
		dErrors.HasCode(err, dErrors.CodeBadRequest),
		dErrors.HasCode(err, dErrors.CodeNotFound):
		h.logger.WarnContext(ctx, msg, attrs...)
	default:
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
