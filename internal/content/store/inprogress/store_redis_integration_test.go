//go:build integration

package inprogress_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"newsdesk/internal/content/models"
	"newsdesk/internal/content/store/inprogress"
	"newsdesk/pkg/platform/sentinel"
	"newsdesk/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *inprogress.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = inprogress.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestGet() {
	ctx := context.Background()

	s.Run("missing key", func() {
		set, err := s.store.Get(ctx, models.InProgressKey)
		s.Require().NoError(err)
		s.Empty(set.Opened)
	})

	s.Run("saved record", func() {
		key := models.InProgressKeyFor("user-1")
		s.Require().NoError(s.store.Save(ctx, key, &models.OpenedSet{Opened: []string{"b", "a"}}))
		set, err := s.store.Get(ctx, key)
		s.Require().NoError(err)
		s.Equal([]string{"b", "a"}, set.Opened)
	})

	s.Run("corrupt record", func() {
		s.Require().NoError(s.redis.Client.Set(ctx, "bad", "{", 0).Err())
		_, err := s.store.Get(ctx, "bad")
		s.ErrorIs(err, sentinel.ErrCorrupt)
	})
}
