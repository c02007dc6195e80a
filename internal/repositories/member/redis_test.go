package member

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/volare-va/crewbot/internal/models"
)

type MemberRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
}

func (s *MemberRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	repo, err := NewRedis(&Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *MemberRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestMemberRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(MemberRepositoryTestSuite))
}

func (s *MemberRepositoryTestSuite) TestSaveAndGetByName() {
	ctx := context.Background()

	err := s.repo.SaveMember(ctx, &SaveMemberInput{Member: &models.Member{
		RobloxName: "SkyCaptain99",
		Status:     "Premier Silver",
		Miles:      1200,
	}})
	s.Require().NoError(err)

	// Name lookups are case-insensitive
	m, err := s.repo.GetMemberByRobloxName(ctx, &GetMemberByRobloxNameInput{RobloxName: "skycaptain99"})
	s.Require().NoError(err)
	s.Equal("SkyCaptain99", m.RobloxName)
	s.Equal(int64(1200), m.Miles)
}

func (s *MemberRepositoryTestSuite) TestDiscordLinkIndex() {
	ctx := context.Background()

	m := &models.Member{RobloxName: "SkyCaptain99", DiscordID: "discord-1"}
	s.Require().NoError(s.repo.SaveMember(ctx, &SaveMemberInput{Member: m}))

	got, err := s.repo.GetMemberByDiscordID(ctx, &GetMemberByDiscordIDInput{DiscordID: "discord-1"})
	s.Require().NoError(err)
	s.Equal("SkyCaptain99", got.RobloxName)

	// Unlinking drops the index
	m.DiscordID = ""
	s.Require().NoError(s.repo.SaveMember(ctx, &SaveMemberInput{Member: m}))

	_, err = s.repo.GetMemberByDiscordID(ctx, &GetMemberByDiscordIDInput{DiscordID: "discord-1"})
	s.ErrorIs(err, ErrMemberNotFound)
}

func (s *MemberRepositoryTestSuite) TestNameAndDiscordNamespacesDisjoint() {
	ctx := context.Background()

	// A Roblox name that starts with "discord:" must not shadow the
	// Discord-ID index entry for that ID
	s.Require().NoError(s.repo.SaveMember(ctx, &SaveMemberInput{Member: &models.Member{
		RobloxName: "discord:123",
	}}))
	s.Require().NoError(s.repo.SaveMember(ctx, &SaveMemberInput{Member: &models.Member{
		RobloxName: "SkyCaptain99",
		DiscordID:  "123",
	}}))

	got, err := s.repo.GetMemberByDiscordID(ctx, &GetMemberByDiscordIDInput{DiscordID: "123"})
	s.Require().NoError(err)
	s.Equal("SkyCaptain99", got.RobloxName)

	byName, err := s.repo.GetMemberByRobloxName(ctx, &GetMemberByRobloxNameInput{RobloxName: "discord:123"})
	s.Require().NoError(err)
	s.Equal("discord:123", byName.RobloxName)
}

func (s *MemberRepositoryTestSuite) TestGetMemberNotFound() {
	_, err := s.repo.GetMemberByRobloxName(context.Background(), &GetMemberByRobloxNameInput{RobloxName: "nobody"})
	s.ErrorIs(err, ErrMemberNotFound)
}
