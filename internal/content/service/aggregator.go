package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"newsdesk/internal/content/metrics"
	"newsdesk/internal/content/models"
)

// AggregatorConfig configures opened-set resolution.
type AggregatorConfig struct {
	// Concurrency bounds in-flight fetches; 0 or less is unbounded.
	Concurrency int
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Tracer      trace.Tracer
}

// Aggregator resolves the opened set: every referenced ingest item is
// fetched concurrently and the results are joined in opened-set order.
type Aggregator struct {
	reader      ItemReader
	opened      OpenedSetStore
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// NewAggregator creates an Aggregator reading records through reader.
func NewAggregator(reader ItemReader, opened OpenedSetStore, cfg AggregatorConfig) *Aggregator {
	a := &Aggregator{
		reader:      reader,
		opened:      opened,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	return a
}

// ResolveOutcomes fetches every reference of the opened set under key and
// returns one outcome per reference, indexed by its position in the set.
// It returns only after every fetch has finished. The error is non-nil only
// when the opened set itself cannot be read.
func (a *Aggregator) ResolveOutcomes(ctx context.Context, key string) ([]models.ItemOutcome, error) {
	ctx, span := a.tracer.Start(ctx, "content.ResolveOpened", trace.WithAttributes(
		attribute.String("key", key),
	))
	defer span.End()

	set, err := a.opened.Get(ctx, key)
	if err != nil {
		err = fmt.Errorf("read opened set %s: %w", key, err)
		recordError(span, err)
		return nil, err
	}
	if set == nil {
		set = &models.OpenedSet{}
	}
	span.SetAttributes(attribute.Int("opened", len(set.Opened)))

	outcomes := make([]models.ItemOutcome, len(set.Opened))
	if len(outcomes) == 0 {
		return outcomes, nil
	}

	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}
	for i, id := range set.Opened {
		g.Go(func() error {
			it, err := a.reader.ReadByID(ctx, models.Ingest, id)
			if err == nil && it == nil {
				err = &models.ItemNotFoundError{Collection: models.Ingest, ID: id}
			}
			// Each goroutine owns slot i, so completion order cannot
			// reorder the outcomes.
			outcomes[i] = models.ItemOutcome{Index: i, ID: id, Item: it, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

// Resolve returns the opened items in opened-set order. If any reference
// fails, no partial result is returned; the *AggregateResolutionError lists
// every failed reference.
func (a *Aggregator) Resolve(ctx context.Context, key string) ([]*models.Item, error) {
	outcomes, err := a.ResolveOutcomes(ctx, key)
	if err != nil {
		return nil, err
	}

	items := make([]*models.Item, len(outcomes))
	var failures []models.ItemFailure
	for i, o := range outcomes {
		if o.Err != nil {
			failures = append(failures, models.ItemFailure{Index: o.Index, ID: o.ID, Err: o.Err})
			continue
		}
		items[i] = o.Item
	}

	if a.metrics != nil {
		a.metrics.ObserveOpenedSet(len(outcomes), len(failures) > 0)
	}
	if len(failures) > 0 {
		a.logger.WarnContext(ctx, "opened set resolved with failures",
			"key", key,
			"total", len(outcomes),
			"failed", len(failures),
		)
		return nil, &models.AggregateResolutionError{Total: len(outcomes), Failures: failures}
	}
	return items, nil
}

// Detail is the data the article-detail activity renders: the opened
// articles and the item named by the route.
type Detail struct {
	Articles []*models.Item `json:"articles"`
	Item     *models.Item   `json:"item"`
}

// ResolveDetail resolves the opened set under key and reads ingest item id
// concurrently. Both must succeed; failures of either are joined.
func (a *Aggregator) ResolveDetail(ctx context.Context, key, id string) (*Detail, error) {
	var detail Detail
	var articlesErr, itemErr error
	var g errgroup.Group
	g.Go(func() error {
		detail.Articles, articlesErr = a.Resolve(ctx, key)
		return nil
	})
	g.Go(func() error {
		detail.Item, itemErr = a.reader.ReadByID(ctx, models.Ingest, id)
		return nil
	})
	_ = g.Wait()

	if err := errors.Join(itemErr, articlesErr); err != nil {
		return nil, err
	}
	return &detail, nil
}
