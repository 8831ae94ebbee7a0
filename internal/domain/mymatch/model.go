package mymatch

import (
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
)

// TrackedMatch is a match a user explicitly added to their list. The sync
// path refreshes its fields but never creates rows; tracking is always a
// user action.
type TrackedMatch struct {
	UserID     string
	MatchID    string
	MatchRefID int64
	Title      string
	TeamA      string
	TeamB      string
	Format     string
	Venue      string
	StartsAt   time.Time
	Status     match.Status
	AddedAt    time.Time
	UpdatedAt  time.Time
}

// FromMatch builds the tracked view of a match for one user.
func FromMatch(userID string, m match.Match, now time.Time) TrackedMatch {
	return TrackedMatch{
		UserID:     userID,
		MatchID:    m.ID,
		MatchRefID: m.MatchRefID,
		Title:      m.Title,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		Format:     m.Format,
		Venue:      m.Venue,
		StartsAt:   m.StartsAt,
		Status:     m.Status,
		AddedAt:    now,
		UpdatedAt:  now,
	}
}
