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

type PostgresBackendSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	backend  *store.PostgresBackend
}

func TestPostgresBackendSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresBackendSuite))
}

func (s *PostgresBackendSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.backend = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresBackendSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "consent_state"))
}

func (s *PostgresBackendSuite) TestProbeOnEmptyTable() {
	s.Require().NoError(s.backend.Probe(context.Background()))
}

func (s *PostgresBackendSuite) TestReadAbsentKey() {
	_, err := s.backend.Read(context.Background(), models.StateKey)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresBackendSuite) TestWriteUpsertsAndRemoves() {
	ctx := context.Background()

	s.Require().NoError(s.backend.Write(ctx, models.StateKey, `{"ads":1}`))
	blob, err := s.backend.Read(ctx, models.StateKey)
	s.Require().NoError(err)
	s.Equal(`{"ads":1}`, blob)

	// Upsert path: same key, new value
	s.Require().NoError(s.backend.Write(ctx, models.StateKey, `{"ads":0,"analytics":1}`))
	blob, err = s.backend.Read(ctx, models.StateKey)
	s.Require().NoError(err)
	s.Equal(`{"ads":0,"analytics":1}`, blob)

	s.Require().NoError(s.backend.Remove(ctx, models.StateKey))
	_, err = s.backend.Read(ctx, models.StateKey)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestKeeperRecoversFromCorruptRow verifies the startup corruption path end
// to end: a torn blob in the table is discarded and the map starts empty.
func (s *PostgresBackendSuite) TestKeeperRecoversFromCorruptRow() {
	ctx := context.Background()
	s.Require().NoError(s.backend.Write(ctx, models.StateKey, "not a mapping"))

	keeper := service.New(ctx, s.backend, nil)
	s.False(keeper.OfferedConsent("ads"))
	s.False(keeper.OfferedConsent(""))

	_, err := s.backend.Read(ctx, models.StateKey)
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "corrupt blob must be removed at startup")

	keeper.Grant(ctx, "analytics")
	blob, err := s.backend.Read(ctx, models.StateKey)
	s.Require().NoError(err)
	s.Equal(`{"analytics":1}`, blob)
}
