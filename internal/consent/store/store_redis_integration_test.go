//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/aid-lo/cookie-consent/internal/consent/models"
	"github.com/aid-lo/cookie-consent/internal/consent/service"
	"github.com/aid-lo/cookie-consent/internal/consent/store"
	"github.com/aid-lo/cookie-consent/internal/sentinel"
	"github.com/aid-lo/cookie-consent/pkg/testutil/containers"
)

type RedisBackendSuite struct {
	suite.Suite
	backend *store.RedisBackend
}

func TestRedisBackendSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBackendSuite))
}

func (s *RedisBackendSuite) SetupSuite() {
	mgr := containers.GetManager()
	redis := mgr.GetRedis(s.T())
	s.backend = store.NewRedis(redis.NewClient(s.T()))
}

func (s *RedisBackendSuite) SetupTest() {
	s.Require().NoError(s.backend.Remove(context.Background(), models.StateKey))
}

func (s *RedisBackendSuite) TestProbe() {
	s.Require().NoError(s.backend.Probe(context.Background()))
}

func (s *RedisBackendSuite) TestReadAbsentKey() {
	_, err := s.backend.Read(context.Background(), models.StateKey)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisBackendSuite) TestWriteReadRemove() {
	ctx := context.Background()

	s.Require().NoError(s.backend.Write(ctx, models.StateKey, `{"ads":1}`))
	blob, err := s.backend.Read(ctx, models.StateKey)
	s.Require().NoError(err)
	s.Equal(`{"ads":1}`, blob)

	s.Require().NoError(s.backend.Write(ctx, models.StateKey, `{"ads":0}`))
	blob, err = s.backend.Read(ctx, models.StateKey)
	s.Require().NoError(err)
	s.Equal(`{"ads":0}`, blob)

	s.Require().NoError(s.backend.Remove(ctx, models.StateKey))
	_, err = s.backend.Read(ctx, models.StateKey)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestKeeperRoundTrip drives the keeper end to end through Redis.
func (s *RedisBackendSuite) TestKeeperRoundTrip() {
	ctx := context.Background()

	keeper := service.New(ctx, s.backend, nil)
	s.Require().True(keeper.PersistenceAvailable())
	keeper.Grant(ctx, "analytics")
	keeper.Revoke(ctx, "ads")

	reloaded := service.New(ctx, s.backend, nil)
	s.True(reloaded.HasConsent("analytics"))
	s.False(reloaded.HasConsent("ads"))
	s.True(reloaded.OfferedConsent("ads"))
}
