package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"newsdesk/internal/content/metrics"
	"newsdesk/internal/content/models"
	"newsdesk/pkg/platform/sentinel"
)

const tracerName = "newsdesk/internal/content/service"

// Service queries and reads records from the collections it has
// repositories for. Errors are returned to the caller without retries.
type Service struct {
	repos   map[models.Collection]Repository
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service. Each collection is bound to its own repository;
// collections missing from repos report CollectionNotFoundError.
func New(repos map[models.Collection]Repository, opts ...Option) *Service {
	bound := make(map[models.Collection]Repository, len(repos))
	for c, r := range repos {
		if c.Valid() && r != nil {
			bound[c] = r
		}
	}
	s := &Service{
		repos:  bound,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matching returns the page of collection c selected by criteria.
func (s *Service) Matching(ctx context.Context, c models.Collection, criteria models.Criteria) (*models.ResultSet, error) {
	ctx, span := s.tracer.Start(ctx, "content.Matching", trace.WithAttributes(
		attribute.String("collection", c.String()),
		attribute.Int("page", criteria.Page),
		attribute.Bool("filtered", criteria.HasFilter()),
	))
	defer span.End()

	repo, err := s.repository(c)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	start := time.Now()
	rs, err := repo.Query(ctx, criteria)
	if s.metrics != nil {
		s.metrics.ObserveQuery(c.String(), start)
	}
	if err != nil {
		qErr := &models.QueryExecutionError{Collection: c, Err: err}
		s.logger.ErrorContext(ctx, "collection query failed",
			"collection", c.String(),
			"error", err,
		)
		recordError(span, qErr)
		return nil, qErr
	}

	span.SetAttributes(attribute.Int("results", rs.Len()))
	return rs, nil
}

// ReadByID returns the record id from collection c.
func (s *Service) ReadByID(ctx context.Context, c models.Collection, id string) (*models.Item, error) {
	ctx, span := s.tracer.Start(ctx, "content.ReadByID", trace.WithAttributes(
		attribute.String("collection", c.String()),
		attribute.String("item_id", id),
	))
	defer span.End()

	repo, err := s.repository(c)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	start := time.Now()
	it, err := repo.FindByID(ctx, id)
	if s.metrics != nil {
		s.metrics.ObserveFetch(c.String(), start)
	}

	switch {
	case err == nil && it != nil:
		return it, nil
	case err == nil, errors.Is(err, sentinel.ErrNotFound):
		s.incrementFetchFailure(c, "not_found")
		nfErr := &models.ItemNotFoundError{Collection: c, ID: id}
		recordError(span, nfErr)
		return nil, nfErr
	default:
		s.incrementFetchFailure(c, "error")
		s.logger.ErrorContext(ctx, "item fetch failed",
			"collection", c.String(),
			"item_id", id,
			"error", err,
		)
		fErr := &models.FetchError{Collection: c, ID: id, Err: err}
		recordError(span, fErr)
		return nil, fErr
	}
}

func (s *Service) repository(c models.Collection) (Repository, error) {
	repo, ok := s.repos[c]
	if !ok {
		return nil, &models.CollectionNotFoundError{Name: c.String()}
	}
	return repo, nil
}

func (s *Service) incrementFetchFailure(c models.Collection, reason string) {
	if s.metrics != nil {
		s.metrics.IncrementFetchFailure(c.String(), reason)
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
