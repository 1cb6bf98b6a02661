package usecase

import (
	"context"
	"math"

	"github.com/sourcegraph/conc"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
)

// MatchupService estimates head-to-head win probability between two
// projected lineups under a Gaussian score model.
type MatchupService struct {
	lineups *LineupService
	params  prediction.Params
}

func NewMatchupService(lineups *LineupService, params prediction.Params) *MatchupService {
	return &MatchupService{
		lineups: lineups,
		params:  params,
	}
}

// CompareSquads projects and selects both squads' best elevens, then
// estimates the outcome. The two sides share nothing, so they run in
// parallel.
func (s *MatchupService) CompareSquads(ctx context.Context, home, away []SquadPlayerInput) (prediction.MatchupForecast, prediction.LineupForecast, prediction.LineupForecast, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchupService.CompareSquads")
	defer span.End()

	var (
		homeLineup, awayLineup prediction.LineupForecast
		homeErr, awayErr       error
	)

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		homeLineup, homeErr = s.lineups.OptimalFromSquad(ctx, home)
	})
	wg.Go(func() {
		awayLineup, awayErr = s.lineups.OptimalFromSquad(ctx, away)
	})
	wg.Wait()

	if homeErr != nil {
		return prediction.MatchupForecast{}, prediction.LineupForecast{}, prediction.LineupForecast{}, homeErr
	}
	if awayErr != nil {
		return prediction.MatchupForecast{}, prediction.LineupForecast{}, prediction.LineupForecast{}, awayErr
	}

	return s.EstimateOutcome(ctx, homeLineup, awayLineup), homeLineup, awayLineup, nil
}

// EstimateOutcome turns two lineup totals into win probabilities. Each
// side's score spread widens with every low-confidence starter, so a
// lineup built on thin samples drifts toward a coin flip even when its
// total looks better.
func (s *MatchupService) EstimateOutcome(ctx context.Context, home, away prediction.LineupForecast) prediction.MatchupForecast {
	_, span := startUsecaseSpan(ctx, "MatchupService.EstimateOutcome")
	defer span.End()

	homeSigma := s.lineupSigma(home)
	awaySigma := s.lineupSigma(away)
	homeWin := winProbability(home.Total, away.Total, homeSigma, awaySigma)

	return prediction.MatchupForecast{
		HomeTotal:          home.Total,
		AwayTotal:          away.Total,
		HomeSigma:          homeSigma,
		AwaySigma:          awaySigma,
		HomeWinProbability: homeWin,
		AwayWinProbability: 1 - homeWin,
	}
}

func (s *MatchupService) lineupSigma(lineup prediction.LineupForecast) float64 {
	sigma := s.params.BaseSigma
	for _, f := range lineup.Starters() {
		switch f.ConfidenceLabel {
		case prediction.ConfidenceHigh:
			sigma += s.params.HighConfidencePenalty
		case prediction.ConfidenceMedium:
			sigma += s.params.MediumConfidencePenalty
		default:
			sigma += s.params.LowConfidencePenalty
		}
	}
	return sigma
}

// winProbability evaluates the standard normal CDF on the normalised
// score difference. Equal totals are a coin flip by definition, and a
// degenerate spread collapses to a step function.
func winProbability(totalA, totalB, sigmaA, sigmaB float64) float64 {
	if totalA == totalB {
		return 0.5
	}

	variance := sigmaA*sigmaA + sigmaB*sigmaB
	if variance <= 0 {
		if totalA > totalB {
			return 1
		}
		return 0
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	return normal.CDF((totalA - totalB) / math.Sqrt(variance))
}
