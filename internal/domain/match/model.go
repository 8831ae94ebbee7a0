package match

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a match, mirroring the provider's
// numeric status codes.
type Status int

const (
	StatusScheduled Status = 1
	StatusCompleted Status = 2
	StatusLive      Status = 3
	StatusCancelled Status = 4
)

var AllStatuses = []Status{StatusScheduled, StatusCompleted, StatusLive, StatusCancelled}

func ParseStatusCode(code int) (Status, error) {
	switch Status(code) {
	case StatusScheduled, StatusCompleted, StatusLive, StatusCancelled:
		return Status(code), nil
	default:
		return 0, fmt.Errorf("unknown match status code %d", code)
	}
}

func (s Status) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusCompleted:
		return "completed"
	case StatusLive:
		return "live"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) IsLive() bool {
	return s == StatusLive
}

// Match represents one cricket match tracked by the platform.
type Match struct {
	ID         string
	MatchRefID int64
	Title      string
	TeamA      string
	TeamB      string
	Format     string
	Venue      string
	StartsAt   time.Time
	Status     Status
	UpdatedAt  time.Time
}

// HasStarted reports whether team edits for this match must be rejected.
// A live, completed or cancelled match counts as started regardless of clock
// skew against StartsAt.
func (m Match) HasStarted(now time.Time) bool {
	if m.Status != StatusScheduled {
		return true
	}
	return !m.StartsAt.IsZero() && !now.Before(m.StartsAt)
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if m.MatchRefID <= 0 {
		return fmt.Errorf("match ref id must be greater than zero")
	}
	if _, err := ParseStatusCode(int(m.Status)); err != nil {
		return err
	}
	return nil
}
