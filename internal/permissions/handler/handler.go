package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/permissions"
	"newsdesk/pkg/platform/httputil"
	"newsdesk/pkg/requestcontext"
)

// Handler exposes the permission registry read-only.
type Handler struct {
	registry *permissions.Registry
	logger   *slog.Logger
}

// New constructs a permissions handler.
func New(registry *permissions.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{registry: registry, logger: logger}
}

// Register mounts permission endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/permissions", h.HandleList)
	r.Get("/permissions/{name}", h.HandleGet)
}

// HandleList handles GET /permissions.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"permissions": h.registry.All(),
	})
}

// HandleGet handles GET /permissions/{name}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d, ok := h.registry.Lookup(name)
	if !ok {
		h.logger.DebugContext(r.Context(), "permission not registered",
			"request_id", requestcontext.RequestID(r.Context()),
			"permission", name,
		)
		httputil.WriteError(w, http.StatusNotFound, "not_found", "permission "+name+" is not registered")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}
