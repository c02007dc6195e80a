package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/services/scheduling"
	"github.com/volare-va/crewbot/internal/services/workflow"
)

// DeleteCommand handles /delete: cancel a scheduled flight and archive its
// allocation sheet after a confirmation step
type DeleteCommand struct {
	BaseCommand
	bot *Bot
}

// NewDeleteCommand creates the /delete command handler
func NewDeleteCommand(bot *Bot) *DeleteCommand {
	return &DeleteCommand{
		BaseCommand: BaseCommand{
			Name:        "delete",
			Description: "Delete a scheduled flight and archive its allocation sheet",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "flight_number",
					Description: "The flight number to delete",
					Required:    true,
				},
			},
		},
		bot: bot,
	}
}

// Handle looks up the flight and asks for confirmation
func (c *DeleteCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !memberHasRole(i, c.bot.config.DispatcherRoleID) {
		return RespondWithError(s, i, "You need the Flight Host role.")
	}

	flightNumber := strings.ToUpper(strings.TrimSpace(i.ApplicationCommandData().Options[0].StringValue()))

	out, err := c.bot.scheduler.GetScheduledFlightByNumber(context.Background(), &scheduling.GetScheduledFlightByNumberInput{
		FlightNumber: flightNumber,
	})
	if errors.Is(err, scheduling.ErrFlightNotFound) {
		return RespondWithError(s, i, fmt.Sprintf("Flight **%s** not found.", flightNumber))
	}
	if err != nil {
		return err
	}
	f := out.Flight

	userID, _ := interactionUser(i)
	if _, err := c.bot.workflow.StartDelete(context.Background(), &workflow.StartDeleteInput{
		ActorID:  userID,
		FlightID: f.ID,
	}); err != nil {
		return err
	}

	buttons := buttonRow(
		discordgo.Button{Label: "Confirm Delete", Style: discordgo.DangerButton, CustomID: ButtonDeleteConfirm, Emoji: &discordgo.ComponentEmoji{Name: "🗑️"}},
		discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: ButtonDeleteCancel},
	)

	return RespondWithEphemeralComponents(s, i, fmt.Sprintf(
		"⚠️ Are you sure you want to delete flight **%s** (%s)?\n\nThis flight has **%d** allocated crew member(s). The allocation sheet will be archived.",
		f.FlightNumber, f.Route(), len(f.Allocations)), nil, buttons)
}

// handleDeleteConfirm cancels the flight and tears down its views
func (b *Bot) handleDeleteConfirm(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)

	out, err := b.workflow.ConfirmDelete(ctx, &workflow.ConfirmDeleteInput{ActorID: userID})
	switch {
	case errors.Is(err, workflow.ErrSessionExpired):
		return UpdateWithMessage(s, i, "❌ Session expired. Use `/delete` again.")
	case errors.Is(err, scheduling.ErrFlightNotFound), errors.Is(err, scheduling.ErrFlightNotScheduled):
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	case err != nil:
		return err
	}

	f := out.Flight
	if err := UpdateWithMessage(s, i, fmt.Sprintf("✅ Flight **%s** has been deleted and archived.", f.FlightNumber)); err != nil {
		b.log.Warnw("delete acknowledgement failed", "error", err)
	}

	b.retireFlightViews(ctx, f)
	return nil
}

// handleDeleteCancel abandons the delete session
func (b *Bot) handleDeleteCancel(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, _ := interactionUser(i)
	if err := b.workflow.Cancel(context.Background(), &workflow.CancelInput{ActorID: userID}); err != nil {
		return err
	}
	return UpdateWithMessage(s, i, "❌ Delete cancelled.")
}
