package viewsync

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/aircraft"
	"github.com/volare-va/crewbot/internal/models"
)

const (
	calendarTitle = "📅 Scheduled Departures"

	// testEmbedColor distinguishes test flight embeds at a glance
	testEmbedColor = 0x1414d2

	archiveColor = 0x808080
)

// flightColor picks the embed color for a flight; test flights get their
// own color so staff can tell them apart immediately
func flightColor(f *models.Flight, defaultColor int) int {
	if f.Type == models.FlightTypeTest {
		return testEmbedColor
	}
	return defaultColor
}

// flightInfoEmbed is the first embed in a forum post: the briefing with
// dispatcher, route and times
func flightInfoEmbed(f *models.Flight, cmdsChannelID string, color int, now time.Time) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString("Hello, United employees!\n\n")
	b.WriteString("A flight has been scheduled for the near future. Please find the necessary information below to allocate for this flight. ")
	fmt.Fprintf(&b, "If you are available, kindly use the `/allocate` command in <#%s> to secure a position for this flight. ", cmdsChannelID)
	b.WriteString("Please note that your allocation is binding, and you are required to work on this flight. ")
	b.WriteString("If you change your mind or become unavailable, please use the `/unallocate` command.\n\n")
	fmt.Fprintf(&b, "> **Dispatcher:** <@%s>\n", f.DispatcherID)
	fmt.Fprintf(&b, "> **Flight Number:** %s\n", f.FlightNumber)
	fmt.Fprintf(&b, "> **Route:** %s\n", f.Route())
	fmt.Fprintf(&b, "> **Aircraft:** %s\n", aircraft.DisplayName(f.Aircraft))
	fmt.Fprintf(&b, "> **Staff Join Time:** <t:%d:F>\n", f.EmployeeJoinTime)
	fmt.Fprintf(&b, "> **Server Open Time:** <t:%d:F>", f.ServerOpenTime)

	return &discordgo.MessageEmbed{
		Title:       "✈️ Flight Information",
		Color:       flightColor(f, color),
		Description: b.String(),
		Timestamp:   now.Format(time.RFC3339),
	}
}

// allocationEmbed is the crew sheet: every position grouped by department
// with fill counts, occupants listed one per line
func allocationEmbed(f *models.Flight, color int, now time.Time) *discordgo.MessageEmbed {
	positions := aircraft.PositionsFor(f.Aircraft)

	occupants := make(map[string][]string)
	for _, a := range f.Allocations {
		occupants[a.Position] = append(occupants[a.Position], fmt.Sprintf("<@%s>", a.UserID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Dispatcher:** <@%s>\n\n", f.DispatcherID)

	for _, dept := range aircraft.Departments {
		fmt.Fprintf(&b, "**__%s__**\n", dept)
		for _, p := range positions {
			if p.Department != dept {
				continue
			}
			mentions := occupants[p.Name]
			fmt.Fprintf(&b, "> **%s** (%d/%d)\n", p.Name, len(mentions), p.Max)
			if len(mentions) == 0 {
				b.WriteString("> ┃ *Open*\n")
			} else {
				for _, m := range mentions {
					fmt.Fprintf(&b, "> ┃ %s\n", m)
				}
			}
			b.WriteString("\n")
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "🧑‍✈️ Allocations",
		Color:       flightColor(f, color),
		Description: b.String(),
		Timestamp:   now.Format(time.RFC3339),
	}
}

// calendarEmbed renders a digest of scheduled flights split into today and
// upcoming sections, ordered by server open time
func calendarEmbed(flights []*models.Flight, tailEmoji string, color int, now time.Time, skipPreamble bool) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       calendarTitle,
		Color:       color,
		Description: calendarDescription(flights, tailEmoji, now, skipPreamble),
		Timestamp:   now.Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "United Airlines • Auto-updated"},
	}
}

func calendarDescription(flights []*models.Flight, tailEmoji string, now time.Time, skipPreamble bool) string {
	preamble := "Below are the upcoming departures from United Airlines:\n\n"
	if skipPreamble {
		preamble = ""
	}

	if len(flights) == 0 {
		return preamble + "*No flights currently scheduled.*"
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Unix()
	dayEnd := dayStart + 86400

	var today, upcoming, stale []*models.Flight
	for _, f := range flights {
		switch {
		case f.ServerOpenTime >= dayStart && f.ServerOpenTime < dayEnd:
			today = append(today, f)
		case f.ServerOpenTime >= dayEnd:
			upcoming = append(upcoming, f)
		default:
			stale = append(stale, f)
		}
	}

	var b strings.Builder
	b.WriteString(preamble)

	if len(today) > 0 {
		fmt.Fprintf(&b, "**Today (%s):**\n", now.Format("01/02/2006"))
		for _, f := range today {
			b.WriteString(calendarLine(f, tailEmoji))
		}
		b.WriteString("\n")
	}

	if len(upcoming) > 0 {
		b.WriteString("**Upcoming Flights:**\n")
		for _, f := range upcoming {
			b.WriteString(calendarLine(f, tailEmoji))
		}
	}

	// Flights whose open time already passed but are still scheduled
	if len(stale) > 0 && len(today) == 0 && len(upcoming) == 0 {
		b.WriteString("**Scheduled Flights:**\n")
		for _, f := range stale {
			b.WriteString(calendarLine(f, tailEmoji))
		}
	}

	return b.String()
}

func calendarLine(f *models.Flight, tailEmoji string) string {
	prefix := ""
	if f.Type == models.FlightTypeTest {
		prefix = "[TEST] "
	}
	return fmt.Sprintf("%s %s**%s** | %s | <t:%d:F>\n", tailEmoji, prefix, f.FlightNumber, f.Route(), f.ServerOpenTime)
}

// archiveEmbed summarizes a retired flight for the archive channel
func archiveEmbed(f *models.Flight, now time.Time) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "**Flight Number:** %s\n", f.FlightNumber)
	fmt.Fprintf(&b, "**Route:** %s\n", f.Route())
	fmt.Fprintf(&b, "**Aircraft:** %s\n", aircraft.DisplayName(f.Aircraft))
	fmt.Fprintf(&b, "**Dispatcher:** <@%s>\n", f.DispatcherID)
	fmt.Fprintf(&b, "**Staff Join Time:** <t:%d:F>\n", f.EmployeeJoinTime)
	fmt.Fprintf(&b, "**Server Open Time:** <t:%d:F>\n", f.ServerOpenTime)
	fmt.Fprintf(&b, "**Status:** %s\n", f.Status)
	fmt.Fprintf(&b, "**Archived At:** <t:%d:F>", now.Unix())

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🗄️ Archived: %s", f.FlightNumber),
		Color:       archiveColor,
		Description: b.String(),
		Timestamp:   now.Format(time.RFC3339),
	}
}

// announcementEmbed is the short public notice posted when a flight opens
func announcementEmbed(f *models.Flight, color int) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString("A new United Airlines flight has been scheduled!\n\n")
	fmt.Fprintf(&b, "> **Flight Number:** %s\n", f.FlightNumber)
	fmt.Fprintf(&b, "> **Route:** %s\n", f.Route())
	fmt.Fprintf(&b, "> **Aircraft:** %s\n", aircraft.DisplayName(f.Aircraft))
	fmt.Fprintf(&b, "> **Server Open Time:** <t:%d:F>", f.ServerOpenTime)

	return &discordgo.MessageEmbed{
		Title:       "🛫 New Flight Scheduled",
		Color:       color,
		Description: b.String(),
	}
}

// eventName and eventDescription label the guild scheduled event
func eventName(f *models.Flight) string {
	return fmt.Sprintf("%s | %s", f.FlightNumber, f.Route())
}

func eventDescription(f *models.Flight) string {
	return fmt.Sprintf("Dispatcher - <@%s>\nFlight Number - %s\nIATA Route - %s to %s\nAircraft - %s",
		f.DispatcherID, f.FlightNumber, f.Departure, f.Destination, aircraft.DisplayName(f.Aircraft))
}
