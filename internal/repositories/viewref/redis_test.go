package viewref

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type ViewRefRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *ViewRefRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	repo, err := NewRedis(&Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *ViewRefRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestViewRefRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ViewRefRepositoryTestSuite))
}

func (s *ViewRefRepositoryTestSuite) TestSetGetClear() {
	ctx := context.Background()

	_, err := s.repo.GetRef(ctx, &GetRefInput{View: "calendar:public"})
	s.ErrorIs(err, ErrRefNotFound)

	err = s.repo.SetRef(ctx, &SetRefInput{View: "calendar:public", MessageID: "msg-123"})
	s.Require().NoError(err)

	id, err := s.repo.GetRef(ctx, &GetRefInput{View: "calendar:public"})
	s.Require().NoError(err)
	s.Equal("msg-123", id)

	err = s.repo.ClearRef(ctx, &ClearRefInput{View: "calendar:public"})
	s.Require().NoError(err)

	_, err = s.repo.GetRef(ctx, &GetRefInput{View: "calendar:public"})
	s.ErrorIs(err, ErrRefNotFound)
}
