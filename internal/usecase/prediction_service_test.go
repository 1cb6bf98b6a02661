package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/tier"
	"github.com/rzldimam28/score-predictor/internal/infrastructure/repository/memory"
	"github.com/rzldimam28/score-predictor/internal/platform/cache"
	"github.com/rzldimam28/score-predictor/internal/platform/id"
)

type predictionFixture struct {
	players   []player.Player
	records   []matchrecord.Record
	standings []standing.Row
	reports   *memory.ReportRepository
}

func newPredictionService(t *testing.T, fx predictionFixture) *PredictionService {
	t.Helper()

	playerRepo := memory.NewPlayerRepository(fx.players)
	standingRepo := memory.NewStandingRepository(fx.standings)
	if fx.reports == nil {
		fx.reports = memory.NewReportRepository()
	}

	stats := NewStatsService(
		memory.NewMatchRecordRepository(fx.records),
		playerRepo,
		standingRepo,
		tier.DefaultBands(),
		prediction.DefaultParams(),
		cache.NewStore(time.Minute),
	)

	return NewPredictionService(
		playerRepo,
		standingRepo,
		fx.reports,
		stats,
		scoring.DefaultRules(),
		prediction.DefaultParams(),
		tier.DefaultBands(),
		id.NewRandomGenerator(),
		nil,
	)
}

func seasonRecords(playerID string, games, goalsEvery int) []matchrecord.Record {
	base := time.Date(2025, time.December, 6, 15, 0, 0, 0, time.UTC)
	records := make([]matchrecord.Record, 0, games)
	for i := 0; i < games; i++ {
		goals := 0
		if goalsEvery > 0 && i%goalsEvery == 0 {
			goals = 1
		}
		rec := appearance(playerID, "fx-"+string(rune('a'+i)), 5+i%10, 90, goals, base.Add(time.Duration(i)*7*24*time.Hour))
		records = append(records, rec)
	}
	return records
}

func testStandings() []standing.Row {
	at := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	return []standing.Row{
		// League averages out to 1.0 goals per team per game.
		{TeamID: "team-solid", Rank: 1, Played: 10, GoalsFor: 14, GoalsAgainst: 6, CapturedAt: at},
		{TeamID: "team-mid", Rank: 10, Played: 10, GoalsFor: 10, GoalsAgainst: 10, CapturedAt: at},
		{TeamID: "team-leaky", Rank: 19, Played: 10, GoalsFor: 6, GoalsAgainst: 20, CapturedAt: at},
		{TeamID: "team-pad", Rank: 20, Played: 10, GoalsFor: 10, GoalsAgainst: 4, CapturedAt: at},
	}
}

func TestPredictValidatesInput(t *testing.T) {
	svc := newPredictionService(t, predictionFixture{})

	if _, err := svc.Predict(t.Context(), "", "team-mid", true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty player id, got %v", err)
	}
	if _, err := svc.Predict(t.Context(), "p1", "", true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty opponent id, got %v", err)
	}
	if _, err := svc.Predict(t.Context(), "ghost", "team-mid", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown player, got %v", err)
	}
}

func TestPredictFallsBackToLeagueAverageProfile(t *testing.T) {
	rookie := player.Player{ID: "rookie", TeamID: "team-solid", Name: "Rookie", Position: player.PositionForward}
	veteran := player.Player{ID: "vet", TeamID: "team-solid", Name: "Veteran", Position: player.PositionForward}

	svc := newPredictionService(t, predictionFixture{
		players:   []player.Player{rookie, veteran},
		records:   seasonRecords("vet", 10, 2),
		standings: testStandings(),
	})

	forecast, err := svc.Predict(t.Context(), "rookie", "team-mid", true)
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}

	if !forecast.LeagueAverage {
		t.Fatal("expected league-average fallback for a player with no history")
	}
	if forecast.ConfidenceLabel != prediction.ConfidenceLow {
		t.Fatalf("expected low confidence, got %s", forecast.ConfidenceLabel)
	}
	if forecast.SampleGames != 0 {
		t.Fatalf("expected zero sample games, got %d", forecast.SampleGames)
	}
	if forecast.ExpectedPoints <= 0 {
		t.Fatalf("fallback must still produce a positive expectation, got %g", forecast.ExpectedPoints)
	}
}

func TestPredictRewardsLeakyOpponents(t *testing.T) {
	striker := player.Player{ID: "fwd", TeamID: "team-solid", Name: "Striker", Position: player.PositionForward}

	svc := newPredictionService(t, predictionFixture{
		players:   []player.Player{striker},
		records:   seasonRecords("fwd", 12, 2),
		standings: testStandings(),
	})

	vsLeaky, err := svc.Predict(t.Context(), "fwd", "team-leaky", true)
	if err != nil {
		t.Fatalf("Predict vs leaky opponent returned error: %v", err)
	}
	vsSolid, err := svc.Predict(t.Context(), "fwd", "team-solid", true)
	if err != nil {
		t.Fatalf("Predict vs solid opponent returned error: %v", err)
	}

	if vsLeaky.Breakdown[scoring.EventGoals] <= vsSolid.Breakdown[scoring.EventGoals] {
		t.Fatalf("expected more goal points against the leaky defence: leaky=%g solid=%g",
			vsLeaky.Breakdown[scoring.EventGoals], vsSolid.Breakdown[scoring.EventGoals])
	}
	if vsLeaky.OpponentTier != 5 || vsSolid.OpponentTier != 1 {
		t.Fatalf("expected tiers 5 and 1, got %d and %d", vsLeaky.OpponentTier, vsSolid.OpponentTier)
	}
}

func TestPredictPrefersOpponentTierRecord(t *testing.T) {
	striker := player.Player{ID: "fwd", TeamID: "team-solid", Name: "Striker", Position: player.PositionForward}

	// The leaky side concedes two per game across the season, but its
	// record against top-tier opposition is spotless.
	leakyVsTopTier := []matchrecord.Record{
		{
			PlayerID: "lk1", FixtureID: "lk-fx-1", Gameweek: 1,
			TeamID: "team-leaky", OpponentTeamID: "team-solid", OpponentRank: 1,
			KickoffAt: time.Date(2025, time.November, 1, 15, 0, 0, 0, time.UTC),
			Minutes:   90, Goals: 1, CleanSheet: true, FantasyPoints: 8,
		},
		{
			PlayerID: "lk1", FixtureID: "lk-fx-2", Gameweek: 2,
			TeamID: "team-leaky", OpponentTeamID: "team-pad", OpponentRank: 2,
			KickoffAt: time.Date(2025, time.November, 8, 15, 0, 0, 0, time.UTC),
			Minutes:   90, Goals: 1, CleanSheet: true, FantasyPoints: 8,
		},
	}

	naive := newPredictionService(t, predictionFixture{
		players:   []player.Player{striker},
		records:   seasonRecords("fwd", 12, 2),
		standings: testStandings(),
	})
	aware := newPredictionService(t, predictionFixture{
		players:   []player.Player{striker},
		records:   append(seasonRecords("fwd", 12, 2), leakyVsTopTier...),
		standings: testStandings(),
	})

	fromSeason, err := naive.Predict(t.Context(), "fwd", "team-leaky", true)
	if err != nil {
		t.Fatalf("Predict without tier record returned error: %v", err)
	}
	fromTier, err := aware.Predict(t.Context(), "fwd", "team-leaky", true)
	if err != nil {
		t.Fatalf("Predict with tier record returned error: %v", err)
	}

	if fromTier.Breakdown[scoring.EventGoals] >= fromSeason.Breakdown[scoring.EventGoals] {
		t.Fatalf("expected the tier-conditioned defence to cut the goal expectation: tier=%g season=%g",
			fromTier.Breakdown[scoring.EventGoals], fromSeason.Breakdown[scoring.EventGoals])
	}
}

func TestPredictHomeAdvantage(t *testing.T) {
	striker := player.Player{ID: "fwd", TeamID: "team-solid", Name: "Striker", Position: player.PositionForward}

	svc := newPredictionService(t, predictionFixture{
		players:   []player.Player{striker},
		records:   seasonRecords("fwd", 12, 2),
		standings: testStandings(),
	})

	home, err := svc.Predict(t.Context(), "fwd", "team-mid", true)
	if err != nil {
		t.Fatalf("home Predict returned error: %v", err)
	}
	away, err := svc.Predict(t.Context(), "fwd", "team-mid", false)
	if err != nil {
		t.Fatalf("away Predict returned error: %v", err)
	}

	if home.Breakdown[scoring.EventGoals] <= away.Breakdown[scoring.EventGoals] {
		t.Fatalf("expected home goal expectation above away: home=%g away=%g",
			home.Breakdown[scoring.EventGoals], away.Breakdown[scoring.EventGoals])
	}
}

func TestPredictUnknownOpponentStaysNeutral(t *testing.T) {
	striker := player.Player{ID: "fwd", TeamID: "team-solid", Name: "Striker", Position: player.PositionForward}

	svc := newPredictionService(t, predictionFixture{
		players:   []player.Player{striker},
		records:   seasonRecords("fwd", 12, 2),
		standings: testStandings(),
	})

	known, err := svc.Predict(t.Context(), "fwd", "team-mid", true)
	if err != nil {
		t.Fatalf("Predict vs known opponent returned error: %v", err)
	}
	unknown, err := svc.Predict(t.Context(), "fwd", "team-ghost", true)
	if err != nil {
		t.Fatalf("Predict vs unknown opponent returned error: %v", err)
	}

	if unknown.OpponentTier != 0 {
		t.Fatalf("expected tier 0 for unknown opponent, got %d", unknown.OpponentTier)
	}
	if unknown.TierGames != 0 {
		t.Fatalf("expected no tier sample for unknown opponent, got %d", unknown.TierGames)
	}
	if unknown.Confidence >= known.Confidence {
		t.Fatalf("expected confidence penalty for unknown opponent: known=%g unknown=%g",
			known.Confidence, unknown.Confidence)
	}
}

func TestPredictSquadPreservesInputOrder(t *testing.T) {
	players := []player.Player{
		{ID: "gk", TeamID: "team-solid", Name: "Keeper", Position: player.PositionGoalkeeper},
		{ID: "fwd", TeamID: "team-solid", Name: "Striker", Position: player.PositionForward},
	}
	records := append(seasonRecords("gk", 8, 0), seasonRecords("fwd", 8, 2)...)

	svc := newPredictionService(t, predictionFixture{
		players:   players,
		records:   records,
		standings: testStandings(),
	})

	forecasts, err := svc.PredictSquad(t.Context(), []SquadPlayerInput{
		{PlayerID: "fwd", OpponentTeamID: "team-mid", Home: true},
		{PlayerID: "gk", OpponentTeamID: "team-mid", Home: true},
	})
	if err != nil {
		t.Fatalf("PredictSquad returned error: %v", err)
	}

	if len(forecasts) != 2 {
		t.Fatalf("expected 2 forecasts, got %d", len(forecasts))
	}
	if forecasts[0].PlayerID != "fwd" || forecasts[1].PlayerID != "gk" {
		t.Fatalf("expected input order preserved, got %s then %s", forecasts[0].PlayerID, forecasts[1].PlayerID)
	}
}

func TestBuildReportPersistsForecasts(t *testing.T) {
	striker := player.Player{ID: "fwd", TeamID: "team-solid", Name: "Striker", Position: player.PositionForward}
	reports := memory.NewReportRepository()

	svc := newPredictionService(t, predictionFixture{
		players:   []player.Player{striker},
		records:   seasonRecords("fwd", 8, 2),
		standings: testStandings(),
		reports:   reports,
	})

	report, err := svc.BuildReport(t.Context(), 21, []SquadPlayerInput{
		{PlayerID: "fwd", OpponentTeamID: "team-mid", Home: true},
	})
	if err != nil {
		t.Fatalf("BuildReport returned error: %v", err)
	}
	if report.ID == "" {
		t.Fatal("expected a generated report id")
	}

	loaded, err := svc.GetReport(t.Context(), report.ID)
	if err != nil {
		t.Fatalf("GetReport returned error: %v", err)
	}
	if len(loaded.Forecasts) != 1 || loaded.Gameweek != 21 {
		t.Fatalf("unexpected stored report: %+v", loaded)
	}

	if _, err := svc.GetReport(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing report, got %v", err)
	}
}
