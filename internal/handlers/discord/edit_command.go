package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/services/scheduling"
)

// EditCommand handles /edit: change a scheduled flight's route or times
// through a prefilled modal. The flow is stateless; the target flight
// number rides in the modal's custom ID.
type EditCommand struct {
	BaseCommand
	bot *Bot
}

// NewEditCommand creates the /edit command handler
func NewEditCommand(bot *Bot) *EditCommand {
	return &EditCommand{
		BaseCommand: BaseCommand{
			Name:        "edit",
			Description: "Edit an existing flight's details",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "flight_number",
					Description: "The flight number to edit (e.g. UA 1234)",
					Required:    true,
				},
			},
		},
		bot: bot,
	}
}

// Handle opens the edit modal prefilled with the flight's current values
func (c *EditCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
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

	return RespondWithModal(s, i, ModalEditPrefix+flightNumber, "Edit "+flightNumber, []discordgo.MessageComponent{
		textInputRow(discordgo.TextInput{
			CustomID: "departure", Label: "IATA Departure",
			Style: discordgo.TextInputShort, MaxLength: 4, Value: f.Departure,
		}),
		textInputRow(discordgo.TextInput{
			CustomID: "destination", Label: "IATA Destination",
			Style: discordgo.TextInputShort, MaxLength: 4, Value: f.Destination,
		}),
		textInputRow(discordgo.TextInput{
			CustomID: "employee_join_time", Label: "Employee Join Time (Unix timestamp)",
			Style: discordgo.TextInputShort, Value: strconv.FormatInt(f.EmployeeJoinTime, 10),
		}),
		textInputRow(discordgo.TextInput{
			CustomID: "server_open_time", Label: "Server Open Time (Unix timestamp)",
			Style: discordgo.TextInputShort, Value: strconv.FormatInt(f.ServerOpenTime, 10),
		}),
	})
}

// handleEditModalSubmit applies the changes and refreshes every view
func (b *Bot) handleEditModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	data := i.ModalSubmitData()
	flightNumber := strings.TrimPrefix(data.CustomID, ModalEditPrefix)

	flightOut, err := b.scheduler.GetScheduledFlightByNumber(ctx, &scheduling.GetScheduledFlightByNumberInput{
		FlightNumber: flightNumber,
	})
	if errors.Is(err, scheduling.ErrFlightNotFound) {
		return RespondWithError(s, i, "Flight not found.")
	}
	if err != nil {
		return err
	}

	// Unparseable timestamps are ignored, matching the forgiving modal:
	// only fields that validate become changes
	joinTime, _ := strconv.ParseInt(strings.TrimSpace(modalValue(data, "employee_join_time")), 10, 64)
	openTime, _ := strconv.ParseInt(strings.TrimSpace(modalValue(data, "server_open_time")), 10, 64)

	out, err := b.scheduler.EditFlight(ctx, &scheduling.EditFlightInput{
		FlightID:         flightOut.Flight.ID,
		Departure:        modalValue(data, "departure"),
		Destination:      modalValue(data, "destination"),
		EmployeeJoinTime: joinTime,
		ServerOpenTime:   openTime,
	})
	switch {
	case errors.Is(err, scheduling.ErrInvalidIATACode):
		return RespondWithError(s, i, "IATA codes must be exactly 3 letters.")
	case errors.Is(err, scheduling.ErrFlightNotFound), errors.Is(err, scheduling.ErrFlightNotScheduled):
		return RespondWithError(s, i, "Flight not found.")
	case err != nil:
		return err
	}

	if len(out.Changes) == 0 {
		return RespondWithEphemeralMessage(s, i, "⚠️ No changes detected.")
	}

	var lines strings.Builder
	for _, c := range out.Changes {
		fmt.Fprintf(&lines, "• %s\n", c)
	}
	if err := RespondWithEphemeralMessage(s, i, fmt.Sprintf("✅ Flight **%s** updated:\n%s", flightNumber, strings.TrimRight(lines.String(), "\n"))); err != nil {
		b.log.Warnw("edit acknowledgement failed", "error", err)
	}

	b.syncFlightView(ctx, out.Flight.ID)
	b.syncCalendarViews(ctx)
	return nil
}
