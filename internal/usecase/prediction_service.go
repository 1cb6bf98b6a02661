package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/playerstats"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/teamstats"
	"github.com/rzldimam28/score-predictor/internal/domain/tier"
	"github.com/rzldimam28/score-predictor/internal/platform/id"
)

const (
	// regressionSampleGames is the qualifying sample below which a
	// player's rates get pulled toward the league positional mean.
	regressionSampleGames = 10

	// cleanSheetCap bounds the clean sheet probability; even the best
	// defence concedes sometimes.
	cleanSheetCap = 0.65

	// midfielderCleanSheetFactor discounts clean sheet credit for
	// midfielders, who earn fewer points from them and rotate more.
	midfielderCleanSheetFactor = 0.7

	// opponentUnknownPenalty is subtracted from the confidence score
	// when the opponent has no usable standings row.
	opponentUnknownPenalty = 0.15

	// minOpponentTierFixtures is the smallest tier sample for which an
	// opponent's tier-conditioned record replaces its season aggregate.
	minOpponentTierFixtures = 2
)

// PredictionService projects expected fantasy points for upcoming
// fixtures. Each projection is a pure function of the player's profile,
// the opponent's standings row, and the scoring rules, so batch runs can
// fan out safely.
type PredictionService struct {
	playerRepo   player.Repository
	standingRepo standing.Repository
	reportRepo   prediction.Repository
	stats        *StatsService
	rules        scoring.Rules
	params       prediction.Params
	bands        tier.Bands
	ids          id.Generator
	pool         *ants.Pool
	now          func() time.Time
}

func NewPredictionService(
	playerRepo player.Repository,
	standingRepo standing.Repository,
	reportRepo prediction.Repository,
	stats *StatsService,
	rules scoring.Rules,
	params prediction.Params,
	bands tier.Bands,
	ids id.Generator,
	pool *ants.Pool,
) *PredictionService {
	return &PredictionService{
		playerRepo:   playerRepo,
		standingRepo: standingRepo,
		reportRepo:   reportRepo,
		stats:        stats,
		rules:        rules,
		params:       params,
		bands:        bands,
		ids:          ids,
		pool:         pool,
		now:          time.Now,
	}
}

// Predict projects one player's expected points against one opponent.
// Thin player samples fall back to the league positional average with a
// low confidence label instead of failing.
func (s *PredictionService) Predict(ctx context.Context, playerID, opponentTeamID string, home bool) (prediction.PlayerForecast, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.Predict")
	defer span.End()

	if playerID == "" {
		return prediction.PlayerForecast{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if opponentTeamID == "" {
		return prediction.PlayerForecast{}, fmt.Errorf("%w: opponent team id is required", ErrInvalidInput)
	}

	players, err := s.playerRepo.GetByIDs(ctx, []string{playerID})
	if err != nil {
		return prediction.PlayerForecast{}, fmt.Errorf("load player %s: %w", playerID, err)
	}
	if len(players) == 0 {
		return prediction.PlayerForecast{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	pl := players[0]

	averages, err := s.stats.LeagueAverages(ctx)
	if err != nil {
		return prediction.PlayerForecast{}, err
	}

	profile, err := s.stats.ProfileFor(ctx, pl)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			return prediction.PlayerForecast{}, err
		}
		profile = s.stats.LeagueProfile(pl, averages)
	}

	opponent, opponentKnown, err := s.teamRow(ctx, opponentTeamID)
	if err != nil {
		return prediction.PlayerForecast{}, err
	}

	opponentStats, err := s.stats.TeamProfileFor(ctx, opponentTeamID)
	if err != nil {
		return prediction.PlayerForecast{}, err
	}

	// The opponent's tier-conditioned record is read against the
	// player's own team's tier; without a standings row for that team
	// the season aggregate applies.
	ownTier := 0
	ownRow, ownKnown, err := s.teamRow(ctx, pl.TeamID)
	if err != nil {
		return prediction.PlayerForecast{}, err
	}
	if ownKnown {
		ownTier = s.bands.Classify(ownRow.Rank)
	}

	return s.forecast(pl, profile, averages, opponent, opponentKnown, opponentStats, ownTier, opponentTeamID, home)
}

// SquadPlayerInput names one squad member's fixture for a batch
// projection. The caller resolves the gameweek's fixture list; the
// engine only consumes it.
type SquadPlayerInput struct {
	PlayerID       string
	OpponentTeamID string
	Home           bool
}

// PredictSquad projects every squad member concurrently, preserving
// input order in the result. Player projections share no mutable state,
// so they fan out across the worker pool.
func (s *PredictionService) PredictSquad(ctx context.Context, inputs []SquadPlayerInput) ([]prediction.PlayerForecast, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.PredictSquad")
	defer span.End()

	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one squad player is required", ErrInvalidInput)
	}

	// Warm the shared aggregates before fanning out so the workers hit
	// the cache instead of racing to compute them.
	if _, err := s.stats.LeagueAverages(ctx); err != nil {
		return nil, err
	}

	forecasts := make([]prediction.PlayerForecast, len(inputs))
	errs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		run := func() {
			defer wg.Done()
			forecasts[i], errs[i] = s.Predict(ctx, input.PlayerID, input.OpponentTeamID, input.Home)
		}
		if s.pool == nil {
			run()
			continue
		}
		if err := s.pool.Submit(run); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("%w: submit projection for player %s: %v", ErrDependencyUnavailable, input.PlayerID, err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return forecasts, nil
}

// BuildReport runs a squad projection and persists it as a gameweek
// report.
func (s *PredictionService) BuildReport(ctx context.Context, gameweek int, inputs []SquadPlayerInput) (prediction.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.BuildReport")
	defer span.End()

	if gameweek <= 0 {
		return prediction.Report{}, fmt.Errorf("%w: gameweek must be greater than zero", ErrInvalidInput)
	}

	forecasts, err := s.PredictSquad(ctx, inputs)
	if err != nil {
		return prediction.Report{}, err
	}

	reportID, err := s.ids.NewID()
	if err != nil {
		return prediction.Report{}, fmt.Errorf("generate report id: %w", err)
	}

	report := prediction.Report{
		ID:        reportID,
		Gameweek:  gameweek,
		CreatedAt: s.now().UTC(),
		Forecasts: forecasts,
	}
	if err := s.reportRepo.Save(ctx, report); err != nil {
		return prediction.Report{}, fmt.Errorf("save report %s: %w", reportID, err)
	}

	return report, nil
}

// GetReport loads a persisted projection report.
func (s *PredictionService) GetReport(ctx context.Context, reportID string) (prediction.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.GetReport")
	defer span.End()

	if reportID == "" {
		return prediction.Report{}, fmt.Errorf("%w: report id is required", ErrInvalidInput)
	}

	report, ok, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return prediction.Report{}, fmt.Errorf("load report %s: %w", reportID, err)
	}
	if !ok {
		return prediction.Report{}, fmt.Errorf("%w: report %s", ErrNotFound, reportID)
	}

	return report, nil
}

func (s *PredictionService) teamRow(ctx context.Context, teamID string) (standing.Row, bool, error) {
	row, ok, err := s.standingRepo.GetByTeam(ctx, teamID)
	if err != nil {
		return standing.Row{}, false, fmt.Errorf("load standing for team %s: %w", teamID, err)
	}
	if !ok || row.Played == 0 {
		return standing.Row{}, false, nil
	}
	return row, true, nil
}

func (s *PredictionService) forecast(
	pl player.Player,
	profile playerstats.Profile,
	averages playerstats.LeagueAverages,
	opponent standing.Row,
	opponentKnown bool,
	opponentStats teamstats.Profile,
	ownTier int,
	opponentTeamID string,
	home bool,
) (prediction.PlayerForecast, error) {
	opponentTier := 0
	tierGames := 0
	rates := profile.Overall
	if opponentKnown {
		opponentTier = s.bands.Classify(opponent.Rank)
		split := profile.PerTier[opponentTier]
		tierGames = split.Games
		rates = blendRates(split.Rates, split.Games, profile.Overall, s.params.PriorWeight)
	}

	if !profile.LeagueAverage && profile.Games < regressionSampleGames {
		rates = regressRates(rates, averages.RatesFor(pl.Position), s.params.RegressionFactor)
	}

	// Opponent multipliers against the league per-team scoring baseline.
	// The opponent's record against teams of this player's tier is
	// preferred; thin tier samples fall back to the season aggregate. A
	// leaky defence inflates attacking returns; a blunt attack inflates
	// clean sheet odds. Unknown opponents stay neutral.
	attackBoost := 1.0
	cleanSheetBoost := 1.0
	concededFactor := 1.0
	if opponentKnown && averages.GoalsPerGame > 0 {
		concedeRate := opponent.ConcedeRate()
		attackRate := opponent.AttackRate()
		if split, ok := opponentStats.SplitFor(ownTier); ok && split.Games >= minOpponentTierFixtures {
			concedeRate = split.GoalsAgainstPerGame()
			attackRate = split.GoalsForPerGame()
		}
		attackBoost = clampMultiplier(concedeRate/averages.GoalsPerGame, s.params)
		if attackRate > 0 {
			cleanSheetBoost = clampMultiplier(averages.GoalsPerGame/attackRate, s.params)
		}
		concededFactor = clampMultiplier(attackRate/averages.GoalsPerGame, s.params)
	}

	goalVenue, assistVenue := s.params.AwayFade, s.params.AwayAssistFade
	if home {
		goalVenue, assistVenue = s.params.HomeBoost, s.params.HomeAssistBoost
	}

	minutes := profile.MinutesPerGame
	if minutes <= 0 {
		minutes = averages.MinutesPerGame
	}
	scale := minutesScale(minutes, s.params.ExpectedMinutes)
	prob60, probShort := appearanceSplit(minutes)

	ev := expectedEvents{
		goals:     rates.Goals * scale * attackBoost * goalVenue,
		assists:   rates.Assists * scale * attackBoost * assistVenue,
		prob60:    prob60,
		probShort: probShort,
	}

	csProb := math.Min(rates.CleanSheets*cleanSheetBoost, cleanSheetCap) * prob60
	if pl.Position == player.PositionMidfielder {
		csProb *= midfielderCleanSheetFactor
	}
	ev.cleanSheetProb = csProb
	ev.expectedConceded = averages.GoalsPerGame * concededFactor

	if pl.Position == player.PositionGoalkeeper {
		ev.saves = rates.Saves * scale * concededFactor
		ev.penaltySaveProb = 0.01
		if rates.PenaltiesSaved > 0 {
			ev.penaltySaveProb = math.Min(0.02+rates.PenaltiesSaved, 0.05)
		}
	}

	ev.yellowProb = math.Min(rates.YellowCards, 0.4)
	ev.redProb = math.Min(rates.RedCards, 0.05)
	ev.ownGoalProb = math.Min(rates.OwnGoals, 0.03)
	ev.penaltyMissProb = math.Min(rates.PenaltiesMissed, 0.03)

	ev.bonusPoints = s.expectedBonus(rates, ev, pl.Position)

	breakdown := convertPoints(ev, pl.Position, s.rules)
	total := sumBreakdown(breakdown)

	// Recent form nudges the final expectation without rewriting the
	// event model; the breakdown is rescaled so it still sums to the
	// published total.
	if formAvg, ok := meanRecentPoints(profile.RecentPoints); ok && len(profile.RecentPoints) >= s.params.MinSampleGames {
		blendedTotal := total*(1-s.params.FormWeight) + formAvg*s.params.FormWeight
		if total > 0 {
			factor := blendedTotal / total
			for event, v := range breakdown {
				breakdown[event] = v * factor
			}
		}
		total = blendedTotal
	}

	if math.IsNaN(total) || math.IsInf(total, 0) {
		return prediction.PlayerForecast{}, fmt.Errorf("non-finite expected points for player %s", pl.ID)
	}

	confidence := confidenceScore(profile, tierGames, opponentKnown)

	return prediction.PlayerForecast{
		PlayerID:        pl.ID,
		PlayerName:      pl.Name,
		TeamID:          pl.TeamID,
		Position:        pl.Position,
		OpponentTeamID:  opponentTeamID,
		OpponentTier:    opponentTier,
		Home:            home,
		ExpectedPoints:  total,
		Breakdown:       breakdown,
		Confidence:      confidence,
		ConfidenceLabel: prediction.ConfidenceLabel(confidence),
		SampleGames:     profile.Games,
		TierGames:       tierGames,
		LeagueAverage:   profile.LeagueAverage,
	}, nil
}

// expectedBonus estimates bonus points from the player's historical
// bonus metric, lifted by how much attacking output the fixture
// promises.
func (s *PredictionService) expectedBonus(rates playerstats.Rates, ev expectedEvents, pos player.Position) float64 {
	attacking := 1.0
	if ev.goals > 0.3 {
		attacking += ev.goals * 0.5
	}
	if ev.assists > 0.3 {
		attacking += ev.assists * 0.3
	}
	if ev.cleanSheetProb > 0.3 && (pos == player.PositionGoalkeeper || pos == player.PositionDefender) {
		attacking += ev.cleanSheetProb * 0.2
	}

	metric := rates.Bonus * attacking
	baseRate := math.Min(rates.Bonus, 1)
	prob := bonusProbability(metric, baseRate, pos, s.params)

	// Three bonus points go to the best performer; scale by award odds.
	return math.Min(prob*3, s.params.BonusCap)
}

func confidenceScore(profile playerstats.Profile, tierGames int, opponentKnown bool) float64 {
	if profile.LeagueAverage {
		return 0.2
	}

	games := profile.Games
	if games > 10 {
		games = 10
	}
	tg := tierGames
	if tg > 5 {
		tg = 5
	}

	score := 0.35 + 0.05*float64(games) + 0.02*float64(tg)
	if !opponentKnown {
		score -= opponentUnknownPenalty
	}
	if score > 0.95 {
		score = 0.95
	}
	if score < 0.05 {
		score = 0.05
	}

	return score
}
