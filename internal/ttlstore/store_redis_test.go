package ttlstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type authRequest struct {
	State    string `json:"state"`
	Verifier string `json:"verifier"`
}

type RedisStoreSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	store  *RedisStore[authRequest]
	ctx    context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.store = NewRedis[authRequest](s.client, "oauth:state:", time.Hour)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) TearDownTest() {
	_ = s.client.Close()
}

func (s *RedisStoreSuite) TestRoundTrip() {
	want := authRequest{State: "abc", Verifier: "pkce"}
	s.Require().NoError(s.store.Set(s.ctx, "abc", want))

	s.True(s.mr.Exists("oauth:state:abc"))

	got, ok, err := s.store.Get(s.ctx, "abc")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(want, got)
}

func (s *RedisStoreSuite) TestExpiry() {
	s.Require().NoError(s.store.Set(s.ctx, "abc", authRequest{State: "abc"}))

	s.mr.FastForward(time.Hour + time.Second)

	_, ok, err := s.store.Get(s.ctx, "abc")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Set(s.ctx, "abc", authRequest{State: "abc"}))
	s.Require().NoError(s.store.Delete(s.ctx, "abc"))
	s.Require().NoError(s.store.Delete(s.ctx, "abc"))

	_, ok, err := s.store.Get(s.ctx, "abc")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisStoreSuite) TestCorruptEntryIsAbsent() {
	s.Require().NoError(s.mr.Set("oauth:state:bad", "{not json"))

	_, ok, err := s.store.Get(s.ctx, "bad")
	s.Require().NoError(err)
	s.False(ok)
	s.False(s.mr.Exists("oauth:state:bad"))
}

func (s *RedisStoreSuite) TestTransportFailureSurfaces() {
	s.Require().NoError(s.client.Close())

	_, _, err := s.store.Get(s.ctx, "abc")
	s.Require().Error(err)
}
