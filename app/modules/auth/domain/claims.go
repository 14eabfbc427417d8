package authdomain

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// Claims represents the domain model for authentication claims. A token is
// scoped to one league.
type Claims struct {
	PlayerID  sharedtypes.PlayerID
	LeagueID  sharedtypes.LeagueID
	Role      sharedtypes.Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

func (c *Claims) IsOrganizer() bool {
	return c.Role == sharedtypes.RoleOrganizer
}

// InLeague reports whether the token was issued for league.
func (c *Claims) InLeague(league sharedtypes.LeagueID) bool {
	return c.LeagueID != "" && c.LeagueID == league
}

// CanActFor reports whether the caller may write data owned by player:
// organizers for anyone in their league, players only for themselves.
func (c *Claims) CanActFor(league sharedtypes.LeagueID, player sharedtypes.PlayerID) bool {
	if !c.InLeague(league) {
		return false
	}
	return c.IsOrganizer() || c.PlayerID == player
}
