package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/services/scheduling"
)

// AllocateCommand handles /allocate: claim a position on a scheduled
// flight in two steps, flight then position
type AllocateCommand struct {
	BaseCommand
	bot *Bot
}

// NewAllocateCommand creates the /allocate command handler
func NewAllocateCommand(bot *Bot) *AllocateCommand {
	return &AllocateCommand{
		BaseCommand: BaseCommand{
			Name:        "allocate",
			Description: "Allocate yourself to a position on a scheduled flight",
		},
		bot: bot,
	}
}

// Handle lists the scheduled flights
func (c *AllocateCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	out, err := c.bot.scheduler.ListScheduledFlights(context.Background(), &scheduling.ListScheduledFlightsInput{})
	if err != nil {
		return err
	}
	if len(out.Flights) == 0 {
		return RespondWithError(s, i, "No scheduled flights available.")
	}

	options := make([]discordgo.SelectMenuOption, 0, len(out.Flights))
	for _, f := range out.Flights {
		if len(options) == selectOptionLimit {
			break
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       f.FlightNumber + " — " + f.Route(),
			Description: "Server open: " + time.Unix(f.ServerOpenTime, 0).Format("Jan 2, 2006"),
			Value:       f.ID,
		})
	}

	return RespondWithEphemeralComponents(s, i, "**Step 1/2** — Select the flight you want to allocate for:", nil, selectRow(discordgo.SelectMenu{
		CustomID:    SelectAllocateFlight,
		Placeholder: "Select a flight",
		Options:     options,
	}))
}

// handleAllocateFlightSelect offers the open positions on the chosen flight
func (b *Bot) handleAllocateFlightSelect(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)
	flightID := i.MessageComponentData().Values[0]

	flightOut, err := b.scheduler.GetFlight(ctx, &scheduling.GetFlightInput{FlightID: flightID})
	if errors.Is(err, scheduling.ErrFlightNotFound) {
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	}
	if err != nil {
		return err
	}
	f := flightOut.Flight

	if existing := f.AllocationFor(userID); existing != nil {
		return UpdateWithMessage(s, i, fmt.Sprintf(
			"❌ You are already allocated as **%s** on flight **%s**. Use `/unallocate` to remove yourself first.",
			existing.Position, f.FlightNumber))
	}

	posOut, err := b.scheduler.ListOpenPositions(ctx, &scheduling.ListOpenPositionsInput{FlightID: flightID})
	switch {
	case errors.Is(err, scheduling.ErrFlightNotFound), errors.Is(err, scheduling.ErrFlightNotScheduled):
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	case errors.Is(err, scheduling.ErrUnknownAircraft):
		return UpdateWithMessage(s, i, "❌ Unknown aircraft type.")
	case err != nil:
		return err
	}

	var options []discordgo.SelectMenuOption
	for _, dept := range posOut.Departments {
		for _, p := range dept.Positions {
			if !p.Selectable || len(options) == selectOptionLimit {
				continue
			}
			options = append(options, discordgo.SelectMenuOption{
				Label:       p.Name,
				Description: fmt.Sprintf("%s • %d/%d filled", p.Department, p.Filled, p.Max),
				Value:       flightID + "::" + p.Name,
			})
		}
	}
	if len(options) == 0 {
		return UpdateWithMessage(s, i, fmt.Sprintf("❌ All positions on **%s** are filled.", f.FlightNumber))
	}

	return UpdateWithComponents(s, i, fmt.Sprintf("**Step 2/2** — Select your position for **%s**:", f.FlightNumber), nil, selectRow(discordgo.SelectMenu{
		CustomID:    SelectAllocatePosition,
		Placeholder: "Select a position",
		Options:     options,
	}))
}

// handleAllocatePositionSelect claims the position. The claim is atomic in
// the store, so two members racing for the last slot cannot both win; the
// loser gets the position-full message.
func (b *Bot) handleAllocatePositionSelect(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, username := interactionUser(i)

	flightID, position, found := strings.Cut(i.MessageComponentData().Values[0], "::")
	if !found {
		return UpdateWithMessage(s, i, "❌ Invalid position.")
	}

	out, err := b.scheduler.Allocate(ctx, &scheduling.AllocateInput{
		FlightID: flightID,
		UserID:   userID,
		Username: username,
		Position: position,
	})
	switch {
	case errors.Is(err, scheduling.ErrPositionFull):
		return UpdateWithMessage(s, i, fmt.Sprintf("❌ **%s** is now full.", position))
	case errors.Is(err, scheduling.ErrAlreadyAllocated):
		return UpdateWithMessage(s, i, "❌ You are already allocated on this flight.")
	case errors.Is(err, scheduling.ErrInvalidPosition):
		return UpdateWithMessage(s, i, "❌ Invalid position.")
	case errors.Is(err, scheduling.ErrFlightNotFound), errors.Is(err, scheduling.ErrFlightNotScheduled):
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	case err != nil:
		return err
	}

	f := out.Flight
	if err := UpdateWithMessage(s, i, fmt.Sprintf(
		"✅ You have been allocated as **%s** on flight **%s** (%s). This allocation is binding — use `/unallocate` if you become unavailable.",
		position, f.FlightNumber, f.Route())); err != nil {
		b.log.Warnw("allocate acknowledgement failed", "error", err)
	}

	b.syncFlightView(ctx, flightID)
	return nil
}

// UnallocateCommand handles /unallocate: release a claimed position
type UnallocateCommand struct {
	BaseCommand
	bot *Bot
}

// NewUnallocateCommand creates the /unallocate command handler
func NewUnallocateCommand(bot *Bot) *UnallocateCommand {
	return &UnallocateCommand{
		BaseCommand: BaseCommand{
			Name:        "unallocate",
			Description: "Remove yourself from a flight allocation",
		},
		bot: bot,
	}
}

// Handle lists the flights the member is allocated on
func (c *UnallocateCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, _ := interactionUser(i)

	out, err := c.bot.scheduler.ListScheduledFlights(context.Background(), &scheduling.ListScheduledFlightsInput{
		OccupantID: userID,
	})
	if err != nil {
		return err
	}
	if len(out.Flights) == 0 {
		return RespondWithError(s, i, "You are not allocated to any flights.")
	}

	options := make([]discordgo.SelectMenuOption, 0, len(out.Flights))
	for _, f := range out.Flights {
		if len(options) == selectOptionLimit {
			break
		}
		label := f.FlightNumber
		if alloc := f.AllocationFor(userID); alloc != nil {
			label = f.FlightNumber + " — " + alloc.Position
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       label,
			Description: f.Route(),
			Value:       f.ID,
		})
	}

	return RespondWithEphemeralComponents(s, i, "Select the flight you want to remove yourself from:", nil, selectRow(discordgo.SelectMenu{
		CustomID:    SelectUnallocateFlight,
		Placeholder: "Select the flight to unallocate from",
		Options:     options,
	}))
}

// handleUnallocateFlightSelect releases the member's position
func (b *Bot) handleUnallocateFlightSelect(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID, _ := interactionUser(i)
	flightID := i.MessageComponentData().Values[0]

	out, err := b.scheduler.Unallocate(ctx, &scheduling.UnallocateInput{
		FlightID: flightID,
		UserID:   userID,
	})
	switch {
	case errors.Is(err, scheduling.ErrNotAllocated):
		return UpdateWithMessage(s, i, "❌ You are not allocated to this flight.")
	case errors.Is(err, scheduling.ErrFlightNotFound), errors.Is(err, scheduling.ErrFlightNotScheduled):
		return UpdateWithMessage(s, i, "❌ Flight not found.")
	case err != nil:
		return err
	}

	if err := UpdateWithMessage(s, i, fmt.Sprintf(
		"✅ You have been removed as **%s** from flight **%s**.",
		out.Removed.Position, out.Flight.FlightNumber)); err != nil {
		b.log.Warnw("unallocate acknowledgement failed", "error", err)
	}

	b.syncFlightView(ctx, flightID)
	return nil
}
