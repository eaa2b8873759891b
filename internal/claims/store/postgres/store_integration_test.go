//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"atproto-handle/internal/claims/models"
	"atproto-handle/internal/claims/store/postgres"
	"atproto-handle/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	s.store = postgres.New(s.pg.DB)
	s.Require().NoError(s.store.Migrate(s.ctx))
	s.Require().NoError(s.store.Migrate(s.ctx), "migrate is idempotent")
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx, "bindings"))
}

func (s *PostgresStoreSuite) TestEmptyTable() {
	got, err := s.store.Read(s.ctx)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *PostgresStoreSuite) TestWriteReplacesFullSet() {
	s.Require().NoError(s.store.Write(s.ctx, []models.Binding{
		{Domain: "b.example.com", DID: "did:plc:b"},
		{Domain: "a.example.com", DID: "did:plc:a"},
	}))
	s.Require().NoError(s.store.Write(s.ctx, []models.Binding{
		{Domain: "c.example.com", DID: "did:plc:c"},
		{Domain: "a.example.com", DID: "did:plc:a"},
	}))

	got, err := s.store.Read(s.ctx)
	s.Require().NoError(err)
	s.Equal([]models.Binding{
		{Domain: "a.example.com", DID: "did:plc:a"},
		{Domain: "c.example.com", DID: "did:plc:c"},
	}, got)
}

func (s *PostgresStoreSuite) TestWriteEmptyClears() {
	s.Require().NoError(s.store.Write(s.ctx, []models.Binding{{Domain: "a.example.com", DID: "did:plc:a"}}))
	s.Require().NoError(s.store.Write(s.ctx, nil))

	got, err := s.store.Read(s.ctx)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *PostgresStoreSuite) TestReload() {
	s.Require().NoError(s.store.Reload(s.ctx))
}
