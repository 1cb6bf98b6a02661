package standing

import (
	"fmt"
	"time"
)

// Row is one team's line in a league table snapshot.
type Row struct {
	TeamID       string
	Rank         int
	Played       int
	Won          int
	Draw         int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	Points       int
	CapturedAt   time.Time
}

func (r Row) Validate() error {
	if r.TeamID == "" {
		return fmt.Errorf("standing team id is required")
	}
	if r.Rank <= 0 {
		return fmt.Errorf("standing rank must be greater than zero")
	}
	if r.Played < 0 {
		return fmt.Errorf("standing played count cannot be negative")
	}

	return nil
}

// AttackRate is goals scored per match played.
func (r Row) AttackRate() float64 {
	if r.Played <= 0 {
		return 0
	}
	return float64(r.GoalsFor) / float64(r.Played)
}

// ConcedeRate is goals conceded per match played.
func (r Row) ConcedeRate() float64 {
	if r.Played <= 0 {
		return 0
	}
	return float64(r.GoalsAgainst) / float64(r.Played)
}
