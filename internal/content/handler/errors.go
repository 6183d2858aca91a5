package handler

import (
	"errors"
	"net/http"

	"newsdesk/internal/content/models"
	"newsdesk/pkg/platform/httputil"
)

// aggregateErrorResponse adds the unresolved references to the error body.
type aggregateErrorResponse struct {
	httputil.ErrorResponse
	Failed []string `json:"failed"`
}

// writeError maps the content error taxonomy onto HTTP statuses. An opened
// set failure takes precedence so that a missing opened item is reported as
// a failed aggregate rather than a missing route item.
func writeError(w http.ResponseWriter, err error) {
	var (
		notFoundCollection *models.CollectionNotFoundError
		aggregate          *models.AggregateResolutionError
		notFound           *models.ItemNotFoundError
		query              *models.QueryExecutionError
		fetch              *models.FetchError
	)
	switch {
	case errors.As(err, &notFoundCollection):
		httputil.WriteError(w, http.StatusBadRequest, "unknown_collection", err.Error())
	case errors.As(err, &aggregate):
		httputil.WriteJSON(w, http.StatusBadGateway, aggregateErrorResponse{
			ErrorResponse: httputil.ErrorResponse{Error: "aggregate_resolution_failed", Description: err.Error()},
			Failed:        aggregate.FailedIDs(),
		})
	case errors.As(err, &notFound):
		httputil.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &query):
		httputil.WriteError(w, http.StatusBadGateway, "query_failed", err.Error())
	case errors.As(err, &fetch):
		httputil.WriteError(w, http.StatusBadGateway, "fetch_failed", err.Error())
	default:
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
