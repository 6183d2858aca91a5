package testutil

import (
	"net/http"

	"newsdesk/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context, as the auth middleware
// does for authenticated requests.
func WithUserID(req *http.Request, userID string) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}
