package models

import (
	"time"
)

// Member is a MileagePlus member record, created in-game and optionally
// linked to a Discord account with /link
type Member struct {
	// RobloxName is the member's Roblox username
	RobloxName string

	// DiscordID is the linked Discord user ID, empty if unlinked
	DiscordID string

	// Status is the current tier name, e.g. "Premier Silver"
	Status string

	// Miles is the spendable miles balance
	Miles int64

	// LifetimeMiles is the all-time miles earned
	LifetimeMiles int64

	// PQF is the count of premier qualifying flights this year
	PQF int

	// PQP is the premier qualifying points this year
	PQP int64

	// Cards holds the member's purchased card keys
	Cards []string

	// FlightCount is the number of flights flown
	FlightCount int

	// UpdatedAt is when the record was last written
	UpdatedAt time.Time
}
