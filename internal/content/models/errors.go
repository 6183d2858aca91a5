package models

import (
	"fmt"
	"strings"
)

// CollectionNotFoundError reports a collection name with no bound repository.
type CollectionNotFoundError struct {
	Name string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection %q not found", e.Name)
}

// QueryExecutionError wraps a failure while querying a collection.
type QueryExecutionError struct {
	Collection Collection
	Err        error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Collection, e.Err)
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

// ItemNotFoundError reports a reference that names no record.
type ItemNotFoundError struct {
	Collection Collection
	ID         string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s item %q not found", e.Collection, e.ID)
}

// FetchError wraps a transport or server fault while reading one record.
type FetchError struct {
	Collection Collection
	ID         string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s item %q: %v", e.Collection, e.ID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ItemFailure records why the reference at Index could not be resolved.
type ItemFailure struct {
	Index int
	ID    string
	Err   error
}

// AggregateResolutionError reports every opened-set reference that failed to
// resolve. Failures are ordered by their position in the opened set.
type AggregateResolutionError struct {
	Total    int
	Failures []ItemFailure
}

func (e *AggregateResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resolve opened set: %d of %d items failed", len(e.Failures), e.Total)
	for i, f := range e.Failures {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "[%d] %v", f.Index, f.Err)
	}
	return b.String()
}

// Unwrap exposes the per-item errors to errors.Is and errors.As.
func (e *AggregateResolutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// FailedIDs returns the references that could not be resolved, in input order.
func (e *AggregateResolutionError) FailedIDs() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.ID)
	}
	return ids
}
