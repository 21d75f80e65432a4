package schema

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"udyam/pkg/platform/httputil"
	"udyam/pkg/requestcontext"
)

// Handler serves field schemas to clients.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

// NewHandler creates a schema handler.
func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register mounts the schema routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/schema/{step}", h.HandleGetSchema)
}

// HandleGetSchema returns the visible descriptors of a step.
func (h *Handler) HandleGetSchema(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	step := chi.URLParam(r, "step")

	fields, err := h.store.GetSchema(step)
	if err != nil {
		h.logger.InfoContext(ctx, "schema lookup failed",
			"step", step,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fields)
}
