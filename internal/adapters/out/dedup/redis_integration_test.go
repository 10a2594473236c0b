package dedup

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisDeduplicatorTestSuite struct {
	suite.Suite
	ctx       context.Context
	container testcontainers.Container
	rdb       *redis.Client
	dedup     *RedisDeduplicator
}

func TestRedisDeduplicatorSuite(t *testing.T) {
	suite.Run(t, new(RedisDeduplicatorTestSuite))
}

func (s *RedisDeduplicatorTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "6379/tcp")
	s.Require().NoError(err)

	s.rdb = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(s.rdb.Ping(s.ctx).Err())
	s.dedup = NewRedisDeduplicator(s.rdb, time.Minute)
}

func (s *RedisDeduplicatorTestSuite) TearDownSuite() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *RedisDeduplicatorTestSuite) SetupTest() {
	s.Require().NoError(s.rdb.FlushAll(s.ctx).Err())
}

func (s *RedisDeduplicatorTestSuite) TestFirstSeen_SetsKeyWithTTL() {
	first, err := s.dedup.FirstSeen(s.ctx, "stripe", "evt_100")
	s.Require().NoError(err)
	s.True(first)

	ttl, err := s.rdb.TTL(s.ctx, "dedup:stripe:evt_100").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)

	again, err := s.dedup.FirstSeen(s.ctx, "stripe", "evt_100")
	s.Require().NoError(err)
	s.False(again)
}

func (s *RedisDeduplicatorTestSuite) TestForget_RemovesKey() {
	_, err := s.dedup.FirstSeen(s.ctx, "stripe", "evt_101")
	s.Require().NoError(err)
	s.Require().NoError(s.dedup.Forget(s.ctx, "stripe", "evt_101"))

	n, err := s.rdb.Exists(s.ctx, "dedup:stripe:evt_101").Result()
	s.Require().NoError(err)
	s.Zero(n)
}
