package prediction

import (
	"time"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
)

// Confidence labels follow the reporting buckets: high at 0.7 and above,
// medium at 0.4, everything below is low.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"

	highConfidenceFloor   = 0.7
	mediumConfidenceFloor = 0.4
)

func ConfidenceLabel(score float64) string {
	switch {
	case score >= highConfidenceFloor:
		return ConfidenceHigh
	case score >= mediumConfidenceFloor:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// PlayerForecast is one player's projected return for a single fixture.
type PlayerForecast struct {
	PlayerID       string
	PlayerName     string
	TeamID         string
	Position       player.Position
	OpponentTeamID string
	OpponentTier   int
	Home           bool

	ExpectedPoints  float64
	Breakdown       map[scoring.Event]float64
	Confidence      float64
	ConfidenceLabel string
	SampleGames     int
	TierGames       int
	// LeagueAverage marks a forecast built from the league-wide fallback
	// profile rather than the player's own history.
	LeagueAverage bool
}

// LineupForecast is the optimal starting eleven with projected totals.
type LineupForecast struct {
	Goalkeeper  PlayerForecast
	Defenders   []PlayerForecast
	Midfielders []PlayerForecast
	Forwards    []PlayerForecast
	Formation   string
	Total       float64
}

// Starters returns the eleven in goalkeeper-defender-midfielder-forward
// order.
func (l LineupForecast) Starters() []PlayerForecast {
	out := make([]PlayerForecast, 0, 11)
	out = append(out, l.Goalkeeper)
	out = append(out, l.Defenders...)
	out = append(out, l.Midfielders...)
	out = append(out, l.Forwards...)
	return out
}

// MatchupForecast compares two projected lineups.
type MatchupForecast struct {
	HomeTotal          float64
	AwayTotal          float64
	HomeSigma          float64
	AwaySigma          float64
	HomeWinProbability float64
	AwayWinProbability float64
}

// Report is a persisted gameweek projection run.
type Report struct {
	ID        string
	Gameweek  int
	CreatedAt time.Time
	Forecasts []PlayerForecast
}
