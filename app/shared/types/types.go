package sharedtypes

import (
	"fmt"
	"time"
)

// LeagueID identifies a league. Leagues are owned by an external system.
type LeagueID string

// PlayerID identifies a league member.
type PlayerID string

// DrawID identifies a persisted draw.
type DrawID string

// EventDateLayout is the wire and storage format of an EventDate.
const EventDateLayout = "2006-01-02"

// EventDate is a calendar date in YYYY-MM-DD form. Lexical order equals
// chronological order.
type EventDate string

// ParseEventDate validates s and returns it as an EventDate.
func ParseEventDate(s string) (EventDate, error) {
	t, err := time.Parse(EventDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid event date %q: %w", s, err)
	}
	return EventDate(t.Format(EventDateLayout)), nil
}

// EventDateFromTime truncates t to its calendar date in t's location.
func EventDateFromTime(t time.Time) EventDate {
	return EventDate(t.Format(EventDateLayout))
}

// Time returns the date at midnight UTC.
func (d EventDate) Time() time.Time {
	t, _ := time.Parse(EventDateLayout, string(d))
	return t
}

func (d EventDate) String() string { return string(d) }

// EventKey identifies one weekly event of a league.
type EventKey struct {
	LeagueID LeagueID  `json:"league_id"`
	Date     EventDate `json:"event_date"`
}

func (k EventKey) String() string {
	return string(k.LeagueID) + ":" + string(k.Date)
}

// AttendanceStatus is a player's response for one event.
type AttendanceStatus string

const (
	StatusNoResponse AttendanceStatus = "no_response"
	StatusDeclined   AttendanceStatus = "declined"
	StatusConfirmed  AttendanceStatus = "confirmed"
	StatusBBQOnly    AttendanceStatus = "bbq_only"
	StatusPlayAndBBQ AttendanceStatus = "play_and_bbq"
)

// IsValid reports whether s is one of the known statuses.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case StatusNoResponse, StatusDeclined, StatusConfirmed, StatusBBQOnly, StatusPlayAndBBQ:
		return true
	}
	return false
}

// IsPlaying reports whether the player takes part in the draw.
func (s AttendanceStatus) IsPlaying() bool {
	return s == StatusConfirmed || s == StatusPlayAndBBQ
}

// IsSocial reports whether the player attends the social part of the event.
func (s AttendanceStatus) IsSocial() bool {
	return s == StatusBBQOnly || s == StatusPlayAndBBQ
}

// RankedPlayer is a playing attendee with their current ranking points.
type RankedPlayer struct {
	ID     PlayerID `json:"player_id"`
	Points float64  `json:"ranking_points"`
}

// Role is the caller's role within a league.
type Role string

const (
	RolePlayer    Role = "player"
	RoleOrganizer Role = "organizer"
)
