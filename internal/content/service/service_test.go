package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"newsdesk/internal/content/metrics"
	"newsdesk/internal/content/models"
	"newsdesk/internal/content/service/mocks"
	"newsdesk/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	ingest  *mocks.MockRepository
	archive *mocks.MockRepository
	metrics *metrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ingest = mocks.NewMockRepository(s.ctrl)
	s.archive = mocks.NewMockRepository(s.ctrl)
	s.metrics = metrics.NewWith(prometheus.NewRegistry())
	s.service = New(map[models.Collection]Repository{
		models.Ingest:  s.ingest,
		models.Archive: s.archive,
	}, WithMetrics(s.metrics))
}

func (s *ServiceSuite) TestMatching() {
	ctx := context.Background()
	criteria := models.DefaultCriteria().WithFilter(models.Filter{models.FieldProvider: "aap"})

	s.Run("dispatches to the bound repository", func() {
		want := &models.ResultSet{Items: []*models.Item{{ID: "a1"}}, Total: 1, Page: 1, PageSize: 25}
		s.archive.EXPECT().Query(gomock.Any(), criteria).Return(want, nil)

		got, err := s.service.Matching(ctx, models.Archive, criteria)
		s.Require().NoError(err)
		s.Same(want, got)
	})

	s.Run("query failure surfaces as QueryExecutionError", func() {
		s.ingest.EXPECT().Query(gomock.Any(), criteria).Return(nil, sentinel.ErrUnavailable)

		_, err := s.service.Matching(ctx, models.Ingest, criteria)
		var qErr *models.QueryExecutionError
		s.Require().ErrorAs(err, &qErr)
		s.Equal(models.Ingest, qErr.Collection)
		s.ErrorIs(err, sentinel.ErrUnavailable)
	})

	s.Run("unbound collection", func() {
		svc := New(map[models.Collection]Repository{models.Ingest: s.ingest})
		_, err := svc.Matching(ctx, models.Archive, criteria)
		var nf *models.CollectionNotFoundError
		s.Require().ErrorAs(err, &nf)
		s.Equal("archive", nf.Name)
	})

	s.Run("invalid collection value", func() {
		_, err := s.service.Matching(ctx, models.Collection(0), criteria)
		var nf *models.CollectionNotFoundError
		s.ErrorAs(err, &nf)
	})
}

func (s *ServiceSuite) TestReadByID() {
	ctx := context.Background()

	s.Run("found", func() {
		s.ingest.EXPECT().FindByID(gomock.Any(), "i1").Return(&models.Item{ID: "i1"}, nil)
		it, err := s.service.ReadByID(ctx, models.Ingest, "i1")
		s.Require().NoError(err)
		s.Equal("i1", it.ID)
	})

	s.Run("missing record", func() {
		s.ingest.EXPECT().FindByID(gomock.Any(), "gone").Return(nil, sentinel.ErrNotFound)
		_, err := s.service.ReadByID(ctx, models.Ingest, "gone")
		var nf *models.ItemNotFoundError
		s.Require().ErrorAs(err, &nf)
		s.Equal("gone", nf.ID)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.FetchFailures.WithLabelValues("ingest", "not_found")))
	})

	s.Run("nil record without error is not found", func() {
		s.archive.EXPECT().FindByID(gomock.Any(), "ghost").Return(nil, nil)
		_, err := s.service.ReadByID(ctx, models.Archive, "ghost")
		var nf *models.ItemNotFoundError
		s.ErrorAs(err, &nf)
	})

	s.Run("transport fault", func() {
		boom := errors.New("connection reset")
		s.archive.EXPECT().FindByID(gomock.Any(), "a9").Return(nil, boom)
		_, err := s.service.ReadByID(ctx, models.Archive, "a9")
		var fErr *models.FetchError
		s.Require().ErrorAs(err, &fErr)
		s.Equal(models.Archive, fErr.Collection)
		s.ErrorIs(err, boom)
	})
}
