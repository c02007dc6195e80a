package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/volare-va/crewbot/internal/aircraft"
	"github.com/volare-va/crewbot/internal/models"
	"github.com/volare-va/crewbot/internal/services/workflow"
)

// selectOptionLimit is the Discord cap on select menu options
const selectOptionLimit = 25

// flightTypePrefix labels non-regular flights in select menus
func flightTypePrefix(t models.FlightType) string {
	switch t {
	case models.FlightTypeTest:
		return "[TEST] "
	case models.FlightTypePremium:
		return "[PREMIUM] "
	default:
		return ""
	}
}

// confirmCreateEmbed is the review embed shown before a flight is committed
func confirmCreateEmbed(session *workflow.Session, color int) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "**Flight Number:** %s\n", session.FlightNumber)
	fmt.Fprintf(&b, "**Route:** %s ➜ %s\n", session.Departure, session.Destination)
	fmt.Fprintf(&b, "**Aircraft:** %s\n", aircraft.DisplayName(session.Aircraft))
	fmt.Fprintf(&b, "**Staff Join Time:** <t:%d:F>\n", session.EmployeeJoinTime)
	fmt.Fprintf(&b, "**Server Open Time:** <t:%d:F>\n", session.ServerOpenTime)
	fmt.Fprintf(&b, "**Dispatcher:** <@%s>", session.ActorID)
	if session.FlightType == models.FlightTypeTest {
		b.WriteString("\n**Type:** Test flight (staff only)")
	}

	return &discordgo.MessageEmbed{
		Title:       "✈️ Confirm Flight Creation",
		Color:       color,
		Description: b.String(),
	}
}

// tier is one MileagePlus status level with its qualification thresholds
type tier struct {
	name    string
	pqf     int
	pqp     int64
	pqpOnly int64
	color   int
	emoji   string
}

// tiers in ascending order; qualification needs PQF+PQP, or PQP alone at
// the higher pqpOnly threshold
var tiers = []tier{
	{name: "Traveler", color: 0x808080},
	{name: "Premier Silver", pqf: 15, pqp: 5000, pqpOnly: 6000, color: 0xC0C0C0, emoji: "🥈"},
	{name: "Premier Gold", pqf: 30, pqp: 10000, pqpOnly: 12000, color: 0xDAA520, emoji: "🥇"},
	{name: "Premier Platinum", pqf: 45, pqp: 15000, pqpOnly: 18000, color: 0xB4B4C3, emoji: "💎"},
	{name: "Premier 1K", pqf: 60, pqp: 22000, pqpOnly: 28000, color: 0xD2A032, emoji: "👑"},
}

type cardInfo struct {
	name       string
	multiplier string
}

var cards = map[string]cardInfo{
	"GatewayCard":  {name: "United Gateway Card", multiplier: "1x"},
	"ExplorerCard": {name: "United Explorer Card", multiplier: "1.5x"},
	"QuestCard":    {name: "United Quest Card", multiplier: "2x"},
	"ClubCard":     {name: "United Club Card", multiplier: "2.5x"},
}

func currentTier(status string) tier {
	for _, t := range tiers {
		if t.name == status {
			return t
		}
	}
	return tiers[0]
}

func nextTier(status string) *tier {
	for idx, t := range tiers {
		if t.name == status && idx < len(tiers)-1 {
			return &tiers[idx+1]
		}
	}
	return nil
}

// progressBar renders a ten-segment bar with a percentage
func progressBar(current, target int64) string {
	const length = 10
	if target <= 0 {
		return strings.Repeat("█", length) + " 100%"
	}
	ratio := float64(current) / float64(target)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*length + 0.5)
	return strings.Repeat("▓", filled) + strings.Repeat("░", length-filled) + fmt.Sprintf(" %d%%", int(ratio*100+0.5))
}

// formatThousands inserts thousands separators
func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// statusEmbed renders a member's MileagePlus profile
func statusEmbed(m *models.Member, avatarURL string) *discordgo.MessageEmbed {
	status := m.Status
	if status == "" {
		status = tiers[0].name
	}
	cur := currentTier(status)
	next := nextTier(status)

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", m.RobloxName)
	fmt.Fprintf(&b, "Status: **%s**\n\n", status)

	b.WriteString("**━━━ Miles ━━━**\n")
	fmt.Fprintf(&b, "✈️ Available Miles: **%s**\n", formatThousands(m.Miles))
	fmt.Fprintf(&b, "🌍 Lifetime Miles: **%s**\n", formatThousands(m.LifetimeMiles))
	fmt.Fprintf(&b, "📊 Total Flights: **%d**\n\n", m.FlightCount)

	b.WriteString("**━━━ Qualifying Progress ━━━**\n")
	fmt.Fprintf(&b, "PQF (Qualifying Flights): **%d**\n", m.PQF)
	fmt.Fprintf(&b, "PQP (Qualifying Points): **%s**\n\n", formatThousands(m.PQP))

	if next != nil {
		fmt.Fprintf(&b, "**━━━ Progress to %s ━━━**\n", next.name)
		fmt.Fprintf(&b, "PQF: %d/%d\n%s\n", m.PQF, next.pqf, progressBar(int64(m.PQF), int64(next.pqf)))
		fmt.Fprintf(&b, "PQP: %s/%s\n%s\n", formatThousands(m.PQP), formatThousands(next.pqp), progressBar(m.PQP, next.pqp))
		fmt.Fprintf(&b, "*Or PQP-only: %s/%s*\n\n", formatThousands(m.PQP), formatThousands(next.pqpOnly))
	} else {
		b.WriteString("**━━━ Status ━━━**\n🌟 You have reached the highest tier.\n\n")
	}

	b.WriteString("**━━━ Cards & Benefits ━━━**\n")
	if len(m.Cards) == 0 {
		b.WriteString("*No cards — purchase in-game for miles multipliers.*\n")
	} else {
		for _, key := range m.Cards {
			if info, ok := cards[key]; ok {
				fmt.Fprintf(&b, "💳 **%s** — %s miles\n", info.name, info.multiplier)
			}
		}
	}

	b.WriteString("\n**━━━ Your Benefits ━━━**\n")
	b.WriteString(tierBenefits(status))

	embed := &discordgo.MessageEmbed{
		Title:       strings.TrimSpace(cur.emoji + " MileagePlus Profile"),
		Color:       cur.color,
		Description: b.String(),
	}
	if avatarURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatarURL}
	}
	return embed
}

// tierBenefits lists the perks unlocked at and below a status level
func tierBenefits(status string) string {
	rank := 0
	for idx, t := range tiers {
		if t.name == status {
			rank = idx
		}
	}

	var b strings.Builder
	if rank == 0 {
		b.WriteString("• Basic MileagePlus earning\n")
		return b.String()
	}
	b.WriteString("• Free checked bags\n• Priority boarding\n")
	if rank >= 2 {
		b.WriteString("• United Club access\n• Complimentary upgrades priority\n")
	}
	if rank >= 3 {
		b.WriteString("• Higher upgrade priority\n")
	}
	return b.String()
}
