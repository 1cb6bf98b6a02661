package matchrecord

import (
	"fmt"
	"time"
)

// Record is one player appearance in a finished fixture. OpponentRank is
// the opponent's league position at the time the match was played, not the
// current one, so tier splits reflect how strong the opposition actually
// was on the day.
type Record struct {
	PlayerID       string
	FixtureID      string
	Gameweek       int
	TeamID         string
	OpponentTeamID string
	OpponentRank   int
	Home           bool
	KickoffAt      time.Time

	Minutes         int
	Goals           int
	Assists         int
	CleanSheet      bool
	GoalsConceded   int
	Saves           int
	PenaltiesSaved  int
	PenaltiesMissed int
	YellowCards     int
	RedCards        int
	OwnGoals        int
	BonusPoints     int
	FantasyPoints   int
}

func (r Record) Validate() error {
	if r.PlayerID == "" {
		return fmt.Errorf("match record player id is required")
	}
	if r.FixtureID == "" {
		return fmt.Errorf("match record fixture id is required")
	}
	if r.OpponentRank <= 0 {
		return fmt.Errorf("match record opponent rank must be greater than zero")
	}
	if r.Minutes < 0 {
		return fmt.Errorf("match record minutes cannot be negative")
	}

	return nil
}
