package playerstats

import "github.com/rzldimam28/score-predictor/internal/domain/player"

// Rates holds per-qualifying-game event rates.
type Rates struct {
	Goals           float64
	Assists         float64
	CleanSheets     float64
	Saves           float64
	GoalsConceded   float64
	PenaltiesSaved  float64
	PenaltiesMissed float64
	OwnGoals        float64
	YellowCards     float64
	RedCards        float64
	Bonus           float64
}

// TierSplit is the slice of a player's history played against one
// opponent strength tier.
type TierSplit struct {
	Games int
	Rates Rates
}

// Profile is the aggregated statistical picture of a single player.
type Profile struct {
	PlayerID string
	Position player.Position
	// Games counts qualifying appearances; RawGames counts every
	// appearance with minutes on the pitch, cameos included, and
	// RawTotals carries the event sums across all of them.
	Games     int
	RawGames  int
	RawTotals Rates
	// TotalMinutes spans every appearance; MinutesPerGame divides only
	// qualifying minutes over qualifying games.
	TotalMinutes   int
	MinutesPerGame float64
	Overall        Rates
	PerTier        map[int]TierSplit
	// RecentPoints lists fantasy points from the most recent qualifying
	// games, newest first.
	RecentPoints []float64
	// LeagueAverage flags a profile synthesised from league-wide rates
	// because the player's own sample was too small.
	LeagueAverage bool
}

// TierGames returns the qualifying sample size against one tier.
func (p Profile) TierGames(tier int) int {
	return p.PerTier[tier].Games
}

// LeagueAverages carries per-position mean rates across all qualifying
// players, used as the regression target and the fallback profile.
type LeagueAverages struct {
	ByPosition     map[player.Position]Rates
	MinutesPerGame float64
	// GoalsPerGame is the league-wide mean of goals scored by one team in
	// one match, the baseline for opponent strength multipliers.
	GoalsPerGame float64
}

// RatesFor returns the average rates for a position, zero value when the
// position has no qualifying sample.
func (a LeagueAverages) RatesFor(pos player.Position) Rates {
	return a.ByPosition[pos]
}
