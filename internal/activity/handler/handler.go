package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/activity"
	"newsdesk/internal/content/models"
	"newsdesk/pkg/platform/httputil"
)

// Handler serves the activity catalog.
type Handler struct {
	catalog *activity.Catalog
}

// New constructs a catalog handler.
func New(catalog *activity.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/activities", h.HandleActivities)
	r.Get("/settings", h.HandleSettings)
	r.Get("/providers", h.HandleProviders)
}

// HandleActivities handles GET /activities. With ?menu=true only menu
// entries are listed.
func (h *Handler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.Activities()
	if r.URL.Query().Get("menu") == "true" {
		list = h.catalog.Menu()
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"activities": list})
}

// HandleSettings handles GET /settings.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"settings": h.catalog.Settings()})
}

// HandleProviders handles GET /providers.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"providers": models.ProviderTypes()})
}
