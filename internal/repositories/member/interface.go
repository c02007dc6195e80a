package member

import (
	"context"

	"github.com/volare-va/crewbot/internal/models"
)

// Repository defines the interface for MileagePlus member persistence.
// Members are created in-game; the bot only reads them and maintains the
// Discord link.
type Repository interface {
	// SaveMember persists a member
	SaveMember(ctx context.Context, input *SaveMemberInput) error

	// GetMemberByRobloxName retrieves a member by Roblox username,
	// case-insensitively
	GetMemberByRobloxName(ctx context.Context, input *GetMemberByRobloxNameInput) (*models.Member, error)

	// GetMemberByDiscordID retrieves a member by linked Discord user ID
	GetMemberByDiscordID(ctx context.Context, input *GetMemberByDiscordIDInput) (*models.Member, error)
}

// SaveMemberInput contains parameters for saving a member
type SaveMemberInput struct {
	Member *models.Member
}

// GetMemberByRobloxNameInput contains parameters for a name lookup
type GetMemberByRobloxNameInput struct {
	RobloxName string
}

// GetMemberByDiscordIDInput contains parameters for a Discord ID lookup
type GetMemberByDiscordIDInput struct {
	DiscordID string
}
