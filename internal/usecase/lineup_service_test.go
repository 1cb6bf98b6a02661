package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
)

func forecastFor(id string, pos player.Position, points float64) prediction.PlayerForecast {
	return prediction.PlayerForecast{
		PlayerID:       id,
		PlayerName:     id,
		Position:       pos,
		ExpectedPoints: points,
	}
}

func fullSquad() []prediction.PlayerForecast {
	squad := []prediction.PlayerForecast{
		forecastFor("gk1", player.PositionGoalkeeper, 4.1),
		forecastFor("gk2", player.PositionGoalkeeper, 3.2),
	}
	for i := 0; i < 5; i++ {
		squad = append(squad, forecastFor(fmt.Sprintf("def%d", i+1), player.PositionDefender, 5.5-float64(i)*0.5))
	}
	for i := 0; i < 5; i++ {
		squad = append(squad, forecastFor(fmt.Sprintf("mid%d", i+1), player.PositionMidfielder, 6.5-float64(i)*0.4))
	}
	for i := 0; i < 3; i++ {
		squad = append(squad, forecastFor(fmt.Sprintf("fwd%d", i+1), player.PositionForward, 7.0-float64(i)*1.2))
	}
	return squad
}

func TestSelectOptimalPicksEleven(t *testing.T) {
	svc := NewLineupService(nil, prediction.DefaultFormationRules())

	lineup, err := svc.SelectOptimal(t.Context(), fullSquad())
	if err != nil {
		t.Fatalf("SelectOptimal returned error: %v", err)
	}

	if got := len(lineup.Starters()); got != 11 {
		t.Fatalf("expected 11 starters, got %d", got)
	}
	if lineup.Goalkeeper.PlayerID != "gk1" {
		t.Fatalf("expected the stronger keeper, got %s", lineup.Goalkeeper.PlayerID)
	}
	if len(lineup.Defenders) < 3 || len(lineup.Defenders) > 5 {
		t.Fatalf("defender count out of bounds: %d", len(lineup.Defenders))
	}
	if len(lineup.Midfielders) < 2 || len(lineup.Midfielders) > 5 {
		t.Fatalf("midfielder count out of bounds: %d", len(lineup.Midfielders))
	}
	if len(lineup.Forwards) < 1 || len(lineup.Forwards) > 3 {
		t.Fatalf("forward count out of bounds: %d", len(lineup.Forwards))
	}

	wantFormation := fmt.Sprintf("%d-%d-%d", len(lineup.Defenders), len(lineup.Midfielders), len(lineup.Forwards))
	if lineup.Formation != wantFormation {
		t.Fatalf("formation label %s does not match selection %s", lineup.Formation, wantFormation)
	}

	var total float64
	for _, f := range lineup.Starters() {
		total += f.ExpectedPoints
	}
	if lineup.Total != total {
		t.Fatalf("total %g does not match summed starters %g", lineup.Total, total)
	}
}

func TestSelectOptimalMaximisesPoints(t *testing.T) {
	svc := NewLineupService(nil, prediction.DefaultFormationRules())
	squad := fullSquad()

	lineup, err := svc.SelectOptimal(t.Context(), squad)
	if err != nil {
		t.Fatalf("SelectOptimal returned error: %v", err)
	}

	best := bruteForceBest(squad)
	if lineup.Total != best {
		t.Fatalf("expected optimal total %g, got %g", best, lineup.Total)
	}
}

// bruteForceBest tries every defender/midfielder/forward count split and
// takes the top players per role, which is optimal for a fixed split.
func bruteForceBest(squad []prediction.PlayerForecast) float64 {
	topN := func(pos player.Position, n int) (float64, bool) {
		var pool []float64
		for _, f := range squad {
			if f.Position == pos {
				pool = append(pool, f.ExpectedPoints)
			}
		}
		if len(pool) < n {
			return 0, false
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < len(pool); j++ {
				if pool[j] > pool[i] {
					pool[i], pool[j] = pool[j], pool[i]
				}
			}
		}
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += pool[i]
		}
		return sum, true
	}

	best := 0.0
	for d := 3; d <= 5; d++ {
		for m := 2; m <= 5; m++ {
			f := 10 - d - m
			if f < 1 || f > 3 {
				continue
			}
			gkSum, okGK := topN(player.PositionGoalkeeper, 1)
			dSum, okD := topN(player.PositionDefender, d)
			mSum, okM := topN(player.PositionMidfielder, m)
			fSum, okF := topN(player.PositionForward, f)
			if !okGK || !okD || !okM || !okF {
				continue
			}
			if total := gkSum + dSum + mSum + fSum; total > best {
				best = total
			}
		}
	}
	return best
}

func TestSelectOptimalBreaksTiesByInputOrder(t *testing.T) {
	svc := NewLineupService(nil, prediction.DefaultFormationRules())

	squad := fullSquad()
	// Two forwards with identical points: the earlier one must win the
	// final greedy slot.
	squad = append(squad,
		forecastFor("fwd-tie-a", player.PositionForward, 4.6),
		forecastFor("fwd-tie-b", player.PositionForward, 4.6),
	)

	first, err := svc.SelectOptimal(t.Context(), squad)
	if err != nil {
		t.Fatalf("SelectOptimal returned error: %v", err)
	}
	second, err := svc.SelectOptimal(t.Context(), squad)
	if err != nil {
		t.Fatalf("second SelectOptimal returned error: %v", err)
	}

	firstIDs := strings.Join(starterIDs(first), ",")
	secondIDs := strings.Join(starterIDs(second), ",")
	if firstIDs != secondIDs {
		t.Fatalf("selection not deterministic: %s vs %s", firstIDs, secondIDs)
	}
	for _, id := range starterIDs(first) {
		if id == "fwd-tie-b" {
			t.Fatal("tie must resolve to the earlier input, not fwd-tie-b")
		}
	}
}

func TestSelectOptimalReportsUnmetRole(t *testing.T) {
	svc := NewLineupService(nil, prediction.DefaultFormationRules())

	squad := []prediction.PlayerForecast{
		forecastFor("gk1", player.PositionGoalkeeper, 4.0),
		forecastFor("def1", player.PositionDefender, 5.0),
		forecastFor("def2", player.PositionDefender, 4.0),
	}
	for i := 0; i < 5; i++ {
		squad = append(squad, forecastFor(fmt.Sprintf("mid%d", i), player.PositionMidfielder, 5.0))
	}
	for i := 0; i < 3; i++ {
		squad = append(squad, forecastFor(fmt.Sprintf("fwd%d", i), player.PositionForward, 5.0))
	}

	_, err := svc.SelectOptimal(t.Context(), squad)
	if !errors.Is(err, ErrInsufficientSquad) {
		t.Fatalf("expected ErrInsufficientSquad, got %v", err)
	}
	if !strings.Contains(err.Error(), "DEF") {
		t.Fatalf("error must name the unmet role, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "have 2") {
		t.Fatalf("error must name the shortfall, got %q", err.Error())
	}
}

func TestSelectOptimalRejectsInvalidPosition(t *testing.T) {
	svc := NewLineupService(nil, prediction.DefaultFormationRules())

	_, err := svc.SelectOptimal(t.Context(), []prediction.PlayerForecast{
		{PlayerID: "p1", Position: "COACH", ExpectedPoints: 9},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func starterIDs(lineup prediction.LineupForecast) []string {
	out := make([]string, 0, 11)
	for _, f := range lineup.Starters() {
		out = append(out, f.PlayerID)
	}
	return out
}
