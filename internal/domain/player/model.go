package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// Status tracks where a player is in the auction lifecycle.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusUnallocated Status = "UNALLOCATED"
	StatusAllocated   Status = "ALLOCATED"
	StatusWithdrawn   Status = "WITHDRAWN"
)

// Biddable reports whether the player may be queued or sold.
func (s Status) Biddable() bool {
	return s == StatusAvailable || s == StatusUnallocated
}

// Category is the raw tier code stored on a player profile.
type Category string

const (
	CategoryLevel1 Category = "LEVEL_1"
	CategoryLevel2 Category = "LEVEL_2"
	CategoryLevel3 Category = "LEVEL_3"
)

// RegistrationData holds the prior-registration fields copied onto a profile.
type RegistrationData struct {
	Phone           string
	Email           string
	DateOfBirth     string
	FlatNumber      string
	HeightCM        int
	JerseyNumber    int
	ProfileImageURL string
}

// Player is an auctionable profile within one tournament track.
type Player struct {
	ID            string
	TournamentID  string
	SportCategory tournament.SportCategory
	Name          string
	Position      string
	SkillLevel    string
	Category      Category
	BasePrice     int64
	Status        Status
	CurrentTeamID string
	SoldPrice     int64
	Registration  *RegistrationData
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Player) Track() tournament.Track {
	return tournament.Track{TournamentID: p.TournamentID, SportCategory: p.SportCategory}
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TournamentID == "" {
		return fmt.Errorf("player tournament id is required")
	}
	if p.SportCategory == "" {
		return fmt.Errorf("player sport category is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.BasePrice < 0 {
		return fmt.Errorf("player base price must not be negative")
	}
	if p.Status == StatusAllocated && p.CurrentTeamID == "" {
		return fmt.Errorf("allocated player %s has no team", p.ID)
	}

	return nil
}

// Tier is the canonical roster bucket a category code maps to.
type Tier string

const (
	TierMarquee  Tier = "MARQUEE"
	TierCapped   Tier = "CAPPED"
	TierUncapped Tier = "UNCAPPED"
)

var AllTiers = []Tier{TierMarquee, TierCapped, TierUncapped}

// Tier returns false for missing or unknown codes.
func (c Category) Tier() (Tier, bool) {
	switch Category(strings.ToUpper(strings.TrimSpace(string(c)))) {
	case CategoryLevel1:
		return TierMarquee, true
	case CategoryLevel2:
		return TierCapped, true
	case CategoryLevel3:
		return TierUncapped, true
	default:
		return "", false
	}
}
