package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/repositories/member"
)

// LinkCommand handles /link: attach a Discord account to a MileagePlus
// member record created in-game
type LinkCommand struct {
	BaseCommand
	bot *Bot
}

// NewLinkCommand creates the /link command handler
func NewLinkCommand(bot *Bot) *LinkCommand {
	return &LinkCommand{
		BaseCommand: BaseCommand{
			Name:        "link",
			Description: "Link your Discord account to your Roblox account",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "roblox_username",
					Description: "Your Roblox username",
					Required:    true,
				},
			},
		},
		bot: bot,
	}
}

// Handle links the caller to a member record
func (c *LinkCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)
	robloxName := strings.TrimSpace(i.ApplicationCommandData().Options[0].StringValue())

	if existing, err := c.bot.members.GetMemberByDiscordID(ctx, &member.GetMemberByDiscordIDInput{DiscordID: userID}); err == nil {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
			"Your Discord is already linked to **%s**. Use `/unlink` first to change it.", existing.RobloxName))
	} else if !errors.Is(err, member.ErrMemberNotFound) {
		return err
	}

	m, err := c.bot.members.GetMemberByRobloxName(ctx, &member.GetMemberByRobloxNameInput{RobloxName: robloxName})
	if errors.Is(err, member.ErrMemberNotFound) {
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
			"Roblox account **%s** not found in our system. You need to join a United flight first to create your profile.", robloxName))
	}
	if err != nil {
		return err
	}
	if m.DiscordID != "" && m.DiscordID != userID {
		return RespondWithEphemeralMessage(s, i, "That Roblox account is already linked to another Discord user.")
	}

	m.DiscordID = userID
	if err := c.bot.members.SaveMember(ctx, &member.SaveMemberInput{Member: m}); err != nil {
		return err
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf(
		"Linked your Discord to **%s**! Use `/status` to view your MileagePlus profile.", m.RobloxName))
}

// UnlinkCommand handles /unlink: detach the caller's Discord account from
// their member record
type UnlinkCommand struct {
	BaseCommand
	bot *Bot
}

// NewUnlinkCommand creates the /unlink command handler
func NewUnlinkCommand(bot *Bot) *UnlinkCommand {
	return &UnlinkCommand{
		BaseCommand: BaseCommand{
			Name:        "unlink",
			Description: "Unlink your Discord account from your Roblox account",
		},
		bot: bot,
	}
}

// Handle removes the caller's link
func (c *UnlinkCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)

	m, err := c.bot.members.GetMemberByDiscordID(ctx, &member.GetMemberByDiscordIDInput{DiscordID: userID})
	if errors.Is(err, member.ErrMemberNotFound) {
		return RespondWithEphemeralMessage(s, i, "Your Discord is not linked to a Roblox account.")
	}
	if err != nil {
		return err
	}

	m.DiscordID = ""
	if err := c.bot.members.SaveMember(ctx, &member.SaveMemberInput{Member: m}); err != nil {
		return err
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Unlinked your Discord from **%s**.", m.RobloxName))
}

// StatusCommand handles /status: the member's MileagePlus profile with
// tier progress
type StatusCommand struct {
	BaseCommand
	bot *Bot
}

// NewStatusCommand creates the /status command handler
func NewStatusCommand(bot *Bot) *StatusCommand {
	return &StatusCommand{
		BaseCommand: BaseCommand{
			Name:        "status",
			Description: "View your MileagePlus profile and status",
		},
		bot: bot,
	}
}

// Handle renders the caller's profile embed
func (c *StatusCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)

	m, err := c.bot.members.GetMemberByDiscordID(ctx, &member.GetMemberByDiscordIDInput{DiscordID: userID})
	if errors.Is(err, member.ErrMemberNotFound) {
		return RespondWithEphemeralMessage(s, i, "Your Discord is not linked to a Roblox account. Use `/link` first.")
	}
	if err != nil {
		return err
	}

	var avatarURL string
	if i.Member != nil && i.Member.User != nil {
		avatarURL = i.Member.User.AvatarURL("128")
	}

	return RespondWithEphemeralComponents(s, i, "", []*discordgo.MessageEmbed{statusEmbed(m, avatarURL)}, nil)
}
