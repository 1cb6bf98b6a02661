package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
)

// LineupService picks the formation-constrained starting eleven that
// maximises total expected points.
type LineupService struct {
	predictions *PredictionService
	formation   prediction.FormationRules
}

func NewLineupService(predictions *PredictionService, formation prediction.FormationRules) *LineupService {
	return &LineupService{
		predictions: predictions,
		formation:   formation,
	}
}

// OptimalFromSquad projects every squad member and selects the best
// eleven from the results.
func (s *LineupService) OptimalFromSquad(ctx context.Context, inputs []SquadPlayerInput) (prediction.LineupForecast, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.OptimalFromSquad")
	defer span.End()

	forecasts, err := s.predictions.PredictSquad(ctx, inputs)
	if err != nil {
		return prediction.LineupForecast{}, err
	}

	return s.SelectOptimal(ctx, forecasts)
}

// candidate pairs a forecast with its position in the caller's input so
// equal expected points resolve deterministically.
type candidate struct {
	forecast prediction.PlayerForecast
	index    int
}

// SelectOptimal picks the starting eleven: role minimums are satisfied
// first by descending expected points, then the remaining slots go to
// the best leftover players whose role is not yet at its cap. Ties keep
// input order, so repeated runs over the same squad select the same
// eleven.
func (s *LineupService) SelectOptimal(ctx context.Context, forecasts []prediction.PlayerForecast) (prediction.LineupForecast, error) {
	_, span := startUsecaseSpan(ctx, "LineupService.SelectOptimal")
	defer span.End()

	if err := s.formation.Validate(); err != nil {
		return prediction.LineupForecast{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	byRole := map[player.Position][]candidate{}
	for i, f := range forecasts {
		if _, ok := player.AllPositions[f.Position]; !ok {
			return prediction.LineupForecast{}, fmt.Errorf("%w: player %s has invalid position %q", ErrInvalidInput, f.PlayerID, f.Position)
		}
		byRole[f.Position] = append(byRole[f.Position], candidate{forecast: f, index: i})
	}
	for _, pool := range byRole {
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].forecast.ExpectedPoints > pool[j].forecast.ExpectedPoints
		})
	}

	roleMin := map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   s.formation.MinDefenders,
		player.PositionMidfielder: s.formation.MinMidfielders,
		player.PositionForward:    s.formation.MinForwards,
	}
	roleMax := map[player.Position]int{
		player.PositionGoalkeeper: 1,
		player.PositionDefender:   s.formation.MaxDefenders,
		player.PositionMidfielder: s.formation.MaxMidfielders,
		player.PositionForward:    s.formation.MaxForwards,
	}

	selected := map[player.Position][]candidate{}
	taken := map[player.Position]int{}
	total := 0

	for _, pos := range []player.Position{player.PositionGoalkeeper, player.PositionDefender, player.PositionMidfielder, player.PositionForward} {
		need := roleMin[pos]
		pool := byRole[pos]
		if len(pool) < need {
			return prediction.LineupForecast{}, fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientSquad, need, pos, len(pool))
		}
		selected[pos] = append(selected[pos], pool[:need]...)
		taken[pos] = need
		total += need
	}

	// Merge the leftover candidates of every role and take the best
	// remaining players up to each role's cap.
	var leftovers []candidate
	for pos, pool := range byRole {
		if taken[pos] < len(pool) {
			leftovers = append(leftovers, pool[taken[pos]:]...)
		}
	}
	sort.SliceStable(leftovers, func(i, j int) bool {
		if leftovers[i].forecast.ExpectedPoints != leftovers[j].forecast.ExpectedPoints {
			return leftovers[i].forecast.ExpectedPoints > leftovers[j].forecast.ExpectedPoints
		}
		return leftovers[i].index < leftovers[j].index
	})

	for _, c := range leftovers {
		if total == 11 {
			break
		}
		pos := c.forecast.Position
		if taken[pos] >= roleMax[pos] {
			continue
		}
		selected[pos] = append(selected[pos], c)
		taken[pos]++
		total++
	}

	if total != 11 {
		return prediction.LineupForecast{}, fmt.Errorf("%w: only %d eligible players for an eleven", ErrInsufficientSquad, total)
	}

	lineup := prediction.LineupForecast{
		Goalkeeper:  selected[player.PositionGoalkeeper][0].forecast,
		Defenders:   unwrap(selected[player.PositionDefender]),
		Midfielders: unwrap(selected[player.PositionMidfielder]),
		Forwards:    unwrap(selected[player.PositionForward]),
		Formation: fmt.Sprintf("%d-%d-%d",
			taken[player.PositionDefender],
			taken[player.PositionMidfielder],
			taken[player.PositionForward]),
	}
	for _, f := range lineup.Starters() {
		lineup.Total += f.ExpectedPoints
	}

	return lineup, nil
}

func unwrap(cands []candidate) []prediction.PlayerForecast {
	out := make([]prediction.PlayerForecast, len(cands))
	for i, c := range cands {
		out[i] = c.forecast
	}
	return out
}
