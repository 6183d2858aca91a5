package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"

	"newsdesk/internal/content/metrics"
	"newsdesk/internal/content/models"
	"newsdesk/internal/content/service/mocks"
	"newsdesk/internal/content/store/inprogress"
	"newsdesk/pkg/platform/sentinel"
)

const resolveTimeout = 5 * time.Second

// fataler is satisfied by both *testing.T and *rapid.T.
type fataler interface {
	Fatalf(format string, args ...any)
}

// gatedReader blocks each fetch until the test releases it, so completion
// order is controlled by the test.
type gatedReader struct {
	mu        sync.Mutex
	gates     map[string]chan struct{}
	done      map[string]chan struct{}
	failures  map[string]error
	completed []string
}

func newGatedReader(ids []string) *gatedReader {
	r := &gatedReader{
		gates:    make(map[string]chan struct{}, len(ids)),
		done:     make(map[string]chan struct{}, len(ids)),
		failures: make(map[string]error),
	}
	for _, id := range ids {
		r.gates[id] = make(chan struct{})
		r.done[id] = make(chan struct{})
	}
	return r
}

func (r *gatedReader) ReadByID(ctx context.Context, c models.Collection, id string) (*models.Item, error) {
	if c != models.Ingest {
		return nil, fmt.Errorf("unexpected collection %s", c)
	}
	<-r.gates[id]
	r.mu.Lock()
	r.completed = append(r.completed, id)
	err := r.failures[id]
	r.mu.Unlock()
	defer close(r.done[id])
	if err != nil {
		return nil, err
	}
	return &models.Item{ID: id, Headline: "headline " + id}, nil
}

// release lets the fetch of id finish and waits until it has.
func (r *gatedReader) release(t fataler, id string) {
	close(r.gates[id])
	select {
	case <-r.done[id]:
	case <-time.After(resolveTimeout):
		t.Fatalf("fetch of %s did not complete", id)
	}
}

type resolveResult struct {
	items []*models.Item
	err   error
}

func resolveAsync(a *Aggregator, key string) <-chan resolveResult {
	out := make(chan resolveResult, 1)
	go func() {
		items, err := a.Resolve(context.Background(), key)
		out <- resolveResult{items: items, err: err}
	}()
	return out
}

func await(t fataler, ch <-chan resolveResult) resolveResult {
	select {
	case res := <-ch:
		return res
	case <-time.After(resolveTimeout):
		t.Fatalf("aggregate did not complete")
		return resolveResult{}
	}
}

func openedStore(t fataler, ids []string) *inprogress.InMemory {
	store := inprogress.NewInMemory()
	if err := store.Save(context.Background(), models.InProgressKey, &models.OpenedSet{Opened: ids}); err != nil {
		t.Fatalf("save opened set: %v", err)
	}
	return store
}

func TestResolvePreservesOrderWhenCompletingInReverse(t *testing.T) {
	ids := []string{"first", "second", "third", "fourth"}
	reader := newGatedReader(ids)
	agg := NewAggregator(reader, openedStore(t, ids), AggregatorConfig{})

	result := resolveAsync(agg, models.InProgressKey)
	for i := len(ids) - 1; i >= 0; i-- {
		reader.release(t, ids[i])
	}

	res := await(t, result)
	require.NoError(t, res.err)
	require.Len(t, res.items, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, res.items[i].ID)
	}
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, reader.completed)
}

func TestResolveWaitsForEveryFetch(t *testing.T) {
	ids := []string{"a", "b", "c"}
	reader := newGatedReader(ids)
	agg := NewAggregator(reader, openedStore(t, ids), AggregatorConfig{})

	result := resolveAsync(agg, models.InProgressKey)
	reader.release(t, "a")
	reader.release(t, "c")

	select {
	case <-result:
		t.Fatal("aggregate completed before every fetch finished")
	case <-time.After(50 * time.Millisecond):
	}

	reader.release(t, "b")
	res := await(t, result)
	require.NoError(t, res.err)
	assert.Len(t, res.items, 3)
}

func TestResolveEmptyOpenedSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockItemReader(ctrl)
	store := mocks.NewMockOpenedSetStore(ctrl)

	t.Run("absent record", func(t *testing.T) {
		store.EXPECT().Get(gomock.Any(), models.InProgressKey).Return(&models.OpenedSet{}, nil)
		items, err := NewAggregator(reader, store, AggregatorConfig{}).Resolve(context.Background(), models.InProgressKey)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("nil record", func(t *testing.T) {
		store.EXPECT().Get(gomock.Any(), models.InProgressKey).Return(nil, nil)
		items, err := NewAggregator(reader, store, AggregatorConfig{}).Resolve(context.Background(), models.InProgressKey)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestResolveReportsFailedReferences(t *testing.T) {
	ids := []string{"ok-1", "missing", "ok-2", "broken"}
	reader := newGatedReader(ids)
	reader.failures["missing"] = &models.ItemNotFoundError{Collection: models.Ingest, ID: "missing"}
	reader.failures["broken"] = &models.FetchError{Collection: models.Ingest, ID: "broken", Err: sentinel.ErrUnavailable}
	m := metrics.NewWith(prometheus.NewRegistry())
	agg := NewAggregator(reader, openedStore(t, ids), AggregatorConfig{Metrics: m})

	result := resolveAsync(agg, models.InProgressKey)
	for _, id := range []string{"broken", "ok-2", "missing", "ok-1"} {
		reader.release(t, id)
	}

	res := await(t, result)
	require.Error(t, res.err)
	assert.Nil(t, res.items)

	var aggErr *models.AggregateResolutionError
	require.ErrorAs(t, res.err, &aggErr)
	assert.Equal(t, 4, aggErr.Total)
	assert.Equal(t, []string{"missing", "broken"}, aggErr.FailedIDs())
	assert.Equal(t, 1, aggErr.Failures[0].Index)
	assert.Equal(t, 3, aggErr.Failures[1].Index)
	assert.ErrorIs(t, res.err, sentinel.ErrUnavailable)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AggregateFailures))
}

func TestResolveOutcomesPartitionsResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockItemReader(ctrl)
	notFound := &models.ItemNotFoundError{Collection: models.Ingest, ID: "b"}

	reader.EXPECT().ReadByID(gomock.Any(), models.Ingest, "a").Return(&models.Item{ID: "a"}, nil)
	reader.EXPECT().ReadByID(gomock.Any(), models.Ingest, "b").Return(nil, notFound)
	reader.EXPECT().ReadByID(gomock.Any(), models.Ingest, "c").Return(nil, nil)

	agg := NewAggregator(reader, openedStore(t, []string{"a", "b", "c"}), AggregatorConfig{Concurrency: 2})
	outcomes, err := agg.ResolveOutcomes(context.Background(), models.InProgressKey)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "a", outcomes[0].Item.ID)
	assert.NoError(t, outcomes[0].Err)
	assert.Same(t, notFound, outcomes[1].Err)
	var nf *models.ItemNotFoundError
	assert.ErrorAs(t, outcomes[2].Err, &nf, "a nil record is reported, never dropped")
	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
	}
}

func TestResolveOpenedSetReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockItemReader(ctrl)
	store := mocks.NewMockOpenedSetStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "k").Return(nil, sentinel.ErrUnavailable)

	_, err := NewAggregator(reader, store, AggregatorConfig{}).Resolve(context.Background(), "k")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestResolveDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockItemReader(ctrl)
	agg := NewAggregator(reader, openedStore(t, []string{"x"}), AggregatorConfig{})

	t.Run("both resolved", func(t *testing.T) {
		reader.EXPECT().ReadByID(gomock.Any(), models.Ingest, "x").Return(&models.Item{ID: "x"}, nil).Times(2)
		detail, err := agg.ResolveDetail(context.Background(), models.InProgressKey, "x")
		require.NoError(t, err)
		assert.Equal(t, "x", detail.Item.ID)
		require.Len(t, detail.Articles, 1)
	})

	t.Run("item failure surfaces", func(t *testing.T) {
		boom := errors.New("boom")
		reader.EXPECT().ReadByID(gomock.Any(), models.Ingest, "x").Return(&models.Item{ID: "x"}, nil)
		reader.EXPECT().ReadByID(gomock.Any(), models.Ingest, "y").Return(nil, boom)
		_, err := agg.ResolveDetail(context.Background(), models.InProgressKey, "y")
		assert.ErrorIs(t, err, boom)
	})
}

func TestResolveOrderProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 16).Draw(rt, "n")
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("item-%d", i)
		}
		order := rapid.Permutation(ids).Draw(rt, "completionOrder")

		reader := newGatedReader(ids)
		agg := NewAggregator(reader, openedStore(rt, ids), AggregatorConfig{})
		result := resolveAsync(agg, models.InProgressKey)
		for _, id := range order {
			reader.release(rt, id)
		}

		res := await(rt, result)
		if res.err != nil {
			rt.Fatalf("unexpected error: %v", res.err)
		}
		if len(res.items) != n {
			rt.Fatalf("expected %d items, got %d", n, len(res.items))
		}
		for i, it := range res.items {
			if it.ID != ids[i] {
				rt.Fatalf("position %d: expected %s, got %s", i, ids[i], it.ID)
			}
		}
	})
}

// countingReader records the highest number of concurrent fetches.
type countingReader struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (r *countingReader) ReadByID(_ context.Context, _ models.Collection, id string) (*models.Item, error) {
	r.mu.Lock()
	r.inFlight++
	r.peak = max(r.peak, r.inFlight)
	r.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	r.mu.Lock()
	r.inFlight--
	r.mu.Unlock()
	return &models.Item{ID: id}, nil
}

func TestResolveHonorsConcurrencyBound(t *testing.T) {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("item-%d", i)
	}
	reader := &countingReader{}
	agg := NewAggregator(reader, openedStore(t, ids), AggregatorConfig{Concurrency: 3})

	items, err := agg.Resolve(context.Background(), models.InProgressKey)
	require.NoError(t, err)
	require.Len(t, items, len(ids))
	for i, it := range items {
		assert.Equal(t, ids[i], it.ID)
	}
	assert.LessOrEqual(t, reader.peak, 3)
}
