package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/activity"
	"newsdesk/internal/audit"
	"newsdesk/internal/content/criteria"
	"newsdesk/internal/content/models"
	"newsdesk/internal/content/service"
	"newsdesk/pkg/platform/httputil"
	"newsdesk/pkg/requestcontext"
)

// Lister runs list queries against a collection.
type Lister interface {
	Matching(ctx context.Context, c models.Collection, criteria models.Criteria) (*models.ResultSet, error)
}

// DetailResolver resolves the article-detail data.
type DetailResolver interface {
	ResolveDetail(ctx context.Context, key, id string) (*service.Detail, error)
}

// Auditor records resolved views.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

// Handler serves the activities of the catalog: list activities resolve
// their collection with criteria built from the route, the article
// activity resolves the caller's opened set and the routed item.
type Handler struct {
	catalog *activity.Catalog
	lister  Lister
	detail  DetailResolver
	builder *criteria.Builder
	auditor Auditor
	logger  *slog.Logger

	detailMiddleware []func(http.Handler) http.Handler
}

type Option func(h *Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithAuditor(a Auditor) Option {
	return func(h *Handler) {
		h.auditor = a
	}
}

// WithDetailMiddleware wraps the article routes, typically with
// authentication so the opened set can be read per user.
func WithDetailMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.detailMiddleware = append(h.detailMiddleware, mw...)
	}
}

// New constructs a content handler.
func New(catalog *activity.Catalog, lister Lister, detail DetailResolver, builder *criteria.Builder, opts ...Option) *Handler {
	h := &Handler{
		catalog: catalog,
		lister:  lister,
		detail:  detail,
		builder: builder,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts one GET route per activity route pattern.
func (h *Handler) Register(r chi.Router) {
	for _, a := range h.catalog.Activities() {
		for _, pattern := range a.Routes() {
			switch a.Resolve {
			case activity.ResolveList:
				r.Get(pattern, h.HandleList(a))
			case activity.ResolveArticles:
				r.With(h.detailMiddleware...).Get(pattern, h.HandleDetail(a))
			default:
				h.logger.Warn("activity has no resolver", "activity", a.ID, "resolve", a.Resolve)
			}
		}
	}
}

// HandleList returns the handler of a list activity.
func (h *Handler) HandleList(a activity.Activity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)
		start := time.Now()

		crit := h.builder.Build(r.URL.Path, RouteParams(r))
		result, err := h.lister.Matching(ctx, a.Collection, crit)
		if err != nil {
			h.logger.ErrorContext(ctx, "list resolution failed",
				"request_id", requestID,
				"activity", a.ID,
				"collection", a.Collection.String(),
				"error", err,
			)
			h.emit(ctx, audit.Event{
				Action:     audit.ActionList,
				Activity:   a.ID,
				Collection: a.Collection.String(),
				Outcome:    audit.OutcomeFailure,
				Reason:     err.Error(),
			})
			writeError(w, err)
			return
		}

		h.logger.InfoContext(ctx, "list resolved",
			"request_id", requestID,
			"activity", a.ID,
			"collection", a.Collection.String(),
			"filtered", crit.HasFilter(),
			"count", result.Len(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		h.emit(ctx, audit.Event{
			Action:     audit.ActionList,
			Activity:   a.ID,
			Collection: a.Collection.String(),
			Count:      result.Len(),
			Outcome:    audit.OutcomeSuccess,
		})

		httputil.WriteJSON(w, http.StatusOK, ListResponse{Items: FromResultSet(result)})
	}
}

// HandleDetail returns the handler of the article activity.
func (h *Handler) HandleDetail(a activity.Activity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)
		start := time.Now()

		id := chi.URLParam(r, "id")
		key := models.InProgressKeyFor(requestcontext.UserID(ctx))

		detail, err := h.detail.ResolveDetail(ctx, key, id)
		if err != nil {
			h.logger.ErrorContext(ctx, "detail resolution failed",
				"request_id", requestID,
				"activity", a.ID,
				"item_id", id,
				"error", err,
			)
			h.emit(ctx, audit.Event{
				Action:     audit.ActionDetail,
				Activity:   a.ID,
				Collection: a.Collection.String(),
				ItemID:     id,
				Outcome:    audit.OutcomeFailure,
				Reason:     err.Error(),
			})
			writeError(w, err)
			return
		}

		h.logger.InfoContext(ctx, "detail resolved",
			"request_id", requestID,
			"activity", a.ID,
			"item_id", id,
			"opened", len(detail.Articles),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		h.emit(ctx, audit.Event{
			Action:     audit.ActionDetail,
			Activity:   a.ID,
			Collection: a.Collection.String(),
			ItemID:     id,
			Count:      len(detail.Articles),
			Outcome:    audit.OutcomeSuccess,
		})

		httputil.WriteJSON(w, http.StatusOK, FromDetail(detail))
	}
}

func (h *Handler) emit(ctx context.Context, e audit.Event) {
	if h.auditor != nil {
		h.auditor.Emit(ctx, e)
	}
}

// RouteParams merges the query string with the matched URL parameters.
// URL parameters win over query values of the same name.
func RouteParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, k := range rctx.URLParams.Keys {
			if k == "*" || i >= len(rctx.URLParams.Values) {
				continue
			}
			params[k] = rctx.URLParams.Values[i]
		}
	}
	return params
}
