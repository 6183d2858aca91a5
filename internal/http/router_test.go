package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/activity"
	"newsdesk/internal/content"
	"newsdesk/internal/content/models"
	"newsdesk/internal/content/store/inprogress"
	"newsdesk/internal/content/store/item"
	"newsdesk/internal/jwttoken"
	"newsdesk/internal/permissions"
	"newsdesk/internal/platform/health"
	"newsdesk/internal/platform/metrics"
	"newsdesk/internal/platform/middleware"
	"newsdesk/pkg/testutil"
)

func newTestRouter(t *testing.T, detail ...func(http.Handler) http.Handler) http.Handler {
	t.Helper()
	ctx := context.Background()

	ingest := item.NewInMemory()
	require.NoError(t, ingest.Save(ctx, &models.Item{ID: "a", Provider: "aap", BodyHTML: "<p>two words</p>"}))
	opened := inprogress.NewInMemory()
	require.NoError(t, opened.Save(ctx, models.InProgressKey, &models.OpenedSet{Opened: []string{"a"}}))
	require.NoError(t, opened.Save(ctx, models.InProgressKeyFor("editor-1"), &models.OpenedSet{Opened: []string{"a", "a"}}))

	catalog := activity.NewCatalog()
	require.NoError(t, activity.RegisterDefaults(catalog))
	registry := permissions.NewRegistry()
	permissions.RegisterDefaults(registry)

	checks := health.New(time.Second)
	checks.Add("memory", func(context.Context) error { return nil })

	return NewRouter(Deps{
		Metrics: metrics.New("test"),
		Health:  checks,
		Content: content.New(content.Deps{
			Ingest:     ingest,
			Archive:    item.NewInMemory(),
			Opened:     opened,
			Catalog:    catalog,
			Registerer:       prometheus.NewRegistry(),
			DetailMiddleware: detail,
		}),
		Permissions:    registry,
		Catalog:        catalog,
		RequestTimeout: 5 * time.Second,
	})
}

func TestRouter(t *testing.T) {
	testutil.Given(t, "the HTTP router", func(t *testing.T) {
		router := newTestRouter(t)

		testutil.When(t, "listing ingest items", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/ingest/?provider=aap"))

			testutil.Then(t, "the request is answered with a request id", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
			})

			testutil.And(t, "the page carries the item with its metrics", func(t *testing.T) {
				body := testutil.UnmarshalResponse[struct {
					Items struct {
						Items []struct {
							ID        string `json:"_id"`
							WordCount int    `json:"word_count"`
						} `json:"_items"`
					} `json:"items"`
				}](t, rr)
				require.Len(t, body.Items.Items, 1)
				assert.Equal(t, 2, body.Items.Items[0].WordCount)
			})
		})

		testutil.When(t, "listing a page far past the end", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/ingest/?page=400000000000000000"))

			testutil.Then(t, "an empty page is returned", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := testutil.UnmarshalResponse[struct {
					Items struct {
						Items []any `json:"_items"`
						Total int   `json:"total"`
					} `json:"items"`
				}](t, rr)
				assert.Empty(t, body.Items.Items)
				assert.Equal(t, 1, body.Items.Total)
			})
		})

		testutil.When(t, "opening an article", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/article/a"))

			testutil.Then(t, "articles and item are returned", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := testutil.UnmarshalResponse[map[string]any](t, rr)
				assert.Contains(t, *body, "articles")
				assert.Contains(t, *body, "item")
			})
		})

		testutil.When(t, "a user without opened items opens an article", func(t *testing.T) {
			req := testutil.WithUserID(testutil.NewRequest(t, http.MethodGet, "/article/a"), "u2")
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the shared opened set is not used", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := testutil.UnmarshalResponse[struct {
					Articles []any `json:"articles"`
				}](t, rr)
				assert.Empty(t, body.Articles)
			})
		})

		testutil.When(t, "opening a missing article", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/article/nope"))

			testutil.Then(t, "not found is reported", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
			})
		})

		testutil.When(t, "reading the catalog endpoints", func(t *testing.T) {
			for _, path := range []string{"/permissions", "/permissions/archive-read", "/activities", "/settings", "/providers", "/health", "/metrics"} {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
				testutil.AssertStatus(t, rr, http.StatusOK)
			}
		})

		testutil.When(t, "calling an unknown route", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/auth/token"))

			testutil.Then(t, "the router answers 404", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusNotFound)
			})
		})
	})
}

func TestRouterAuthenticatedArticles(t *testing.T) {
	jwt := jwttoken.NewJWTService("router-key", "newsdesk", "newsdesk-api")
	router := newTestRouter(t, middleware.RequireAuth(jwttoken.NewJWTServiceAdapter(jwt), slog.New(slog.DiscardHandler)))

	testutil.Given(t, "article routes behind bearer auth", func(t *testing.T) {
		testutil.When(t, "no token is sent", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/article/a"))

			testutil.Then(t, "the request is rejected", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusUnauthorized)
			})
		})

		testutil.When(t, "a valid token is sent", func(t *testing.T) {
			token, err := jwt.GenerateAccessToken("editor-1", time.Minute)
			require.NoError(t, err)
			req := testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/article/a"), token)
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the user's own opened set is resolved", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := testutil.UnmarshalResponse[struct {
					Articles []any `json:"articles"`
				}](t, rr)
				assert.Len(t, body.Articles, 2)
			})
		})

		testutil.When(t, "list routes are called without a token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/archive/"))

			testutil.Then(t, "they stay public", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
			})
		})
	})
}
