//go:build integration

package pincode_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"udyam/internal/pincode"
	"udyam/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *pincode.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = pincode.NewRedisCache(s.redis.Client, 5*time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	loc := &pincode.Locality{Pincode: "560001", Name: "Bangalore GPO", District: "Bangalore", State: "Karnataka"}

	s.Require().NoError(s.cache.Set(ctx, loc))
	found, err := s.cache.Get(ctx, "560001")
	s.Require().NoError(err)
	s.Equal(loc, found)

	ttl, err := s.redis.Client.TTL(ctx, "pincode:560001").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}
