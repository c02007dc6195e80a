package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/models"
	"github.com/volare-va/crewbot/internal/services/scheduling"
	"github.com/volare-va/crewbot/internal/services/workflow"
)

// EndCommand handles /end: a dispatcher completes one of their own
// scheduled flights via select and confirm
type EndCommand struct {
	BaseCommand
	bot *Bot
}

// NewEndCommand creates the /end command handler
func NewEndCommand(bot *Bot) *EndCommand {
	return &EndCommand{
		BaseCommand: BaseCommand{
			Name:        "end",
			Description: "End a scheduled flight",
		},
		bot: bot,
	}
}

// Handle lists the dispatcher's own scheduled flights
func (c *EndCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, _ := interactionUser(i)

	out, err := c.bot.scheduler.ListScheduledFlights(context.Background(), &scheduling.ListScheduledFlightsInput{
		DispatcherID: userID,
	})
	if err != nil {
		return err
	}
	if len(out.Flights) == 0 {
		return RespondWithError(s, i, "You have no active flights to end. Only the dispatcher can end their flights.")
	}

	options := make([]discordgo.SelectMenuOption, 0, len(out.Flights))
	for _, f := range out.Flights {
		if len(options) == selectOptionLimit {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       flightTypePrefix(f.Type) + f.FlightNumber + " — " + f.Route(),
			Description: time.Unix(f.ServerOpenTime, 0).Format("Jan 2, 2006 at 3:04 PM"),
			Value:       f.ID,
		})
	}

	return RespondWithEphemeralComponents(s, i, "Select the flight you want to end:", nil, selectRow(discordgo.SelectMenu{
		CustomID:    SelectEndFlight,
		Placeholder: "Select the flight to end",
		Options:     options,
	}))
}

// handleEndFlightSelect asks for confirmation before completing a flight
func (b *Bot) handleEndFlightSelect(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)
	flightID := i.MessageComponentData().Values[0]

	out, err := b.scheduler.GetFlight(ctx, &scheduling.GetFlightInput{FlightID: flightID})
	if errors.Is(err, scheduling.ErrFlightNotFound) {
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	}
	if err != nil {
		return err
	}
	f := out.Flight
	if f.Status != models.FlightStatusScheduled {
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	}
	if f.DispatcherID != userID {
		return UpdateWithMessage(s, i, "❌ Only the dispatcher can end this flight.")
	}

	if _, err := b.workflow.StartEnd(ctx, &workflow.StartEndInput{ActorID: userID, FlightID: flightID}); err != nil {
		return err
	}

	buttons := buttonRow(
		discordgo.Button{Label: "End Flight", Style: discordgo.DangerButton, CustomID: ButtonEndConfirm, Emoji: &discordgo.ComponentEmoji{Name: "✅"}},
		discordgo.Button{Label: "Cancel", Style: discordgo.SecondaryButton, CustomID: ButtonEndCancel},
	)

	when := time.Unix(f.ServerOpenTime, 0).Format("Jan 2, 2006 at 3:04 PM")
	return UpdateWithComponents(s, i, fmt.Sprintf(
		"⚠️ Are you sure you want to end **%s** (%s)?\n**Date:** %s\n\nThis will mark the flight as completed and remove it from all calendars.",
		f.FlightNumber, f.Route(), when), nil, buttons)
}

// handleEndConfirm completes the flight and tears down its views
func (b *Bot) handleEndConfirm(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)

	out, err := b.workflow.ConfirmEnd(ctx, &workflow.ConfirmEndInput{ActorID: userID})
	switch {
	case errors.Is(err, workflow.ErrSessionExpired):
		return UpdateWithMessage(s, i, "❌ Session expired. Use `/end` again.")
	case errors.Is(err, scheduling.ErrNotDispatcher):
		return UpdateWithMessage(s, i, "❌ Only the dispatcher can end this flight.")
	case errors.Is(err, scheduling.ErrFlightNotFound), errors.Is(err, scheduling.ErrFlightNotScheduled):
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	case err != nil:
		return err
	}

	f := out.Flight
	if err := UpdateWithMessage(s, i, fmt.Sprintf("✅ Flight **%s** (%s) has been completed.", f.FlightNumber, f.Route())); err != nil {
		b.log.Warnw("end acknowledgement failed", "error", err)
	}

	b.retireFlightViews(ctx, f)
	return nil
}

// handleEndCancel abandons the end session
func (b *Bot) handleEndCancel(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, _ := interactionUser(i)
	if err := b.workflow.Cancel(context.Background(), &workflow.CancelInput{ActorID: userID}); err != nil {
		return err
	}
	return UpdateWithMessage(s, i, "❌ End flight cancelled.")
}
