package usecase

import (
	"math"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/playerstats"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
)

// blendRate shrinks a tier-specific rate toward the overall rate. The
// prior weight acts as pseudo-observations of the overall rate, so a
// single game against a tier barely moves the estimate while a long run
// against it dominates. Zero tier games degenerates to the overall rate.
func blendRate(tierRate float64, tierGames int, overallRate, priorWeight float64) float64 {
	denom := float64(tierGames) + priorWeight
	if denom <= 0 {
		return overallRate
	}
	return (tierRate*float64(tierGames) + overallRate*priorWeight) / denom
}

func blendRates(tierRates playerstats.Rates, tierGames int, overall playerstats.Rates, priorWeight float64) playerstats.Rates {
	return playerstats.Rates{
		Goals:           blendRate(tierRates.Goals, tierGames, overall.Goals, priorWeight),
		Assists:         blendRate(tierRates.Assists, tierGames, overall.Assists, priorWeight),
		CleanSheets:     blendRate(tierRates.CleanSheets, tierGames, overall.CleanSheets, priorWeight),
		Saves:           blendRate(tierRates.Saves, tierGames, overall.Saves, priorWeight),
		GoalsConceded:   blendRate(tierRates.GoalsConceded, tierGames, overall.GoalsConceded, priorWeight),
		PenaltiesSaved:  blendRate(tierRates.PenaltiesSaved, tierGames, overall.PenaltiesSaved, priorWeight),
		PenaltiesMissed: blendRate(tierRates.PenaltiesMissed, tierGames, overall.PenaltiesMissed, priorWeight),
		OwnGoals:        blendRate(tierRates.OwnGoals, tierGames, overall.OwnGoals, priorWeight),
		YellowCards:     blendRate(tierRates.YellowCards, tierGames, overall.YellowCards, priorWeight),
		RedCards:        blendRate(tierRates.RedCards, tierGames, overall.RedCards, priorWeight),
		Bonus:           blendRate(tierRates.Bonus, tierGames, overall.Bonus, priorWeight),
	}
}

// regressRate pulls a small-sample rate toward the league mean, keeping
// factor of the player's own signal.
func regressRate(rate, leagueRate, factor float64) float64 {
	return leagueRate + (rate-leagueRate)*factor
}

func regressRates(rates, league playerstats.Rates, factor float64) playerstats.Rates {
	return playerstats.Rates{
		Goals:           regressRate(rates.Goals, league.Goals, factor),
		Assists:         regressRate(rates.Assists, league.Assists, factor),
		CleanSheets:     regressRate(rates.CleanSheets, league.CleanSheets, factor),
		Saves:           regressRate(rates.Saves, league.Saves, factor),
		GoalsConceded:   regressRate(rates.GoalsConceded, league.GoalsConceded, factor),
		PenaltiesSaved:  regressRate(rates.PenaltiesSaved, league.PenaltiesSaved, factor),
		PenaltiesMissed: regressRate(rates.PenaltiesMissed, league.PenaltiesMissed, factor),
		OwnGoals:        regressRate(rates.OwnGoals, league.OwnGoals, factor),
		YellowCards:     regressRate(rates.YellowCards, league.YellowCards, factor),
		RedCards:        regressRate(rates.RedCards, league.RedCards, factor),
		Bonus:           regressRate(rates.Bonus, league.Bonus, factor),
	}
}

func clampMultiplier(value float64, params prediction.Params) float64 {
	if value < params.MultiplierFloor {
		return params.MultiplierFloor
	}
	if value > params.MultiplierCeil {
		return params.MultiplierCeil
	}
	return value
}

// minutesScale converts a per-appearance rate into an expectation for
// the projected time on pitch. Sub appearances are floored so a run of
// short cameos does not explode the per-minute rate.
func minutesScale(minutesPerGame, expectedMinutes float64) float64 {
	const minutesFloor = 45.0
	const scaleCeil = 1.5

	base := minutesPerGame
	if base < minutesFloor {
		base = minutesFloor
	}
	scale := expectedMinutes / base
	if scale > scaleCeil {
		return scaleCeil
	}
	return scale
}

// appearanceSplit estimates the chance of a 60+ minute appearance and of
// a shorter cameo from the player's average time on pitch.
func appearanceSplit(minutesPerGame float64) (prob60, probShort float64) {
	switch {
	case minutesPerGame >= 75:
		return 0.85, 0.10
	case minutesPerGame >= 60:
		return 0.70, 0.20
	case minutesPerGame >= 45:
		return 0.50, 0.30
	case minutesPerGame >= 30:
		return 0.30, 0.40
	case minutesPerGame >= 15:
		return 0.15, 0.45
	default:
		return 0.05, 0.35
	}
}

// bonusProbability soft-thresholds the bonus metric with the
// position's own threshold and slope. At or above the threshold the
// probability climbs linearly from 0.5; inside the band just below it
// the historical base rate is scaled down proportionally; further
// below the chance is written off.
func bonusProbability(metric, baseRate float64, pos player.Position, params prediction.Params) float64 {
	threshold := params.BonusThresholdFor(pos)
	if metric >= threshold {
		p := 0.5 + (metric-threshold)*params.BonusSlopeFor(pos)
		return math.Min(p, 1)
	}
	floor := threshold - params.BonusBand
	if metric <= floor || params.BonusBand <= 0 {
		return 0
	}
	if baseRate > 1 {
		baseRate = 1
	}
	return baseRate * (metric - floor) / params.BonusBand
}

// expectedEvents is the per-fixture event expectation after opponent,
// venue, and minutes adjustments. Probabilities are already capped.
type expectedEvents struct {
	goals            float64
	assists          float64
	cleanSheetProb   float64
	saves            float64
	expectedConceded float64
	penaltySaveProb  float64
	penaltyMissProb  float64
	ownGoalProb      float64
	yellowProb       float64
	redProb          float64
	bonusPoints      float64
	prob60           float64
	probShort        float64
}

// convertPoints maps event expectations onto the scoring table, keeping
// the per-event contributions for explainability.
func convertPoints(ev expectedEvents, pos player.Position, rules scoring.Rules) map[scoring.Event]float64 {
	breakdown := map[scoring.Event]float64{
		scoring.EventAppearance: ev.prob60*float64(rules.FullAppearancePoints) + ev.probShort*float64(rules.ShortAppearancePoints),
		scoring.EventGoals:      ev.goals * float64(rules.GoalPointsFor(pos)),
		scoring.EventAssists:    ev.assists * float64(rules.AssistPoints),
	}

	if pts := rules.CleanSheetPointsFor(pos); pts != 0 {
		breakdown[scoring.EventCleanSheet] = ev.cleanSheetProb * float64(pts)
	}
	if pos == player.PositionGoalkeeper {
		breakdown[scoring.EventSaves] = ev.saves / float64(rules.SavesPerPoint)
		breakdown[scoring.EventPenaltySave] = ev.penaltySaveProb * float64(rules.PenaltySavePoints)
	}
	if rules.ConcedesCountAgainst(pos) {
		breakdown[scoring.EventGoalsConceded] = ev.expectedConceded / 2 * float64(rules.GoalsConcededPenalty)
	}

	breakdown[scoring.EventYellowCard] = ev.yellowProb * float64(rules.YellowCardPoints)
	breakdown[scoring.EventRedCard] = ev.redProb * float64(rules.RedCardPoints)
	breakdown[scoring.EventOwnGoal] = ev.ownGoalProb * float64(rules.OwnGoalPoints)
	breakdown[scoring.EventPenaltyMiss] = ev.penaltyMissProb * float64(rules.PenaltyMissPoints)
	breakdown[scoring.EventBonus] = ev.bonusPoints

	return breakdown
}

func sumBreakdown(breakdown map[scoring.Event]float64) float64 {
	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	return total
}

func meanRecentPoints(points []float64) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range points {
		sum += p
	}
	return sum / float64(len(points)), true
}
