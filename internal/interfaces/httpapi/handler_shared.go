package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/team"
	"github.com/rzldimam28/score-predictor/internal/platform/logging"
	"github.com/rzldimam28/score-predictor/internal/usecase"
)

type Handler struct {
	predictionService *usecase.PredictionService
	lineupService     *usecase.LineupService
	matchupService    *usecase.MatchupService
	exportService     *usecase.ExportService
	standingsService  *usecase.StandingsService
	statsService      *usecase.StatsService
	playerRepo        player.Repository
	teamRepo          team.Repository
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	predictionService *usecase.PredictionService,
	lineupService *usecase.LineupService,
	matchupService *usecase.MatchupService,
	exportService *usecase.ExportService,
	standingsService *usecase.StandingsService,
	statsService *usecase.StatsService,
	playerRepo player.Repository,
	teamRepo team.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		predictionService: predictionService,
		lineupService:     lineupService,
		matchupService:    matchupService,
		exportService:     exportService,
		standingsService:  standingsService,
		statsService:      statsService,
		playerRepo:        playerRepo,
		teamRepo:          teamRepo,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type squadPlayerRequest struct {
	PlayerID       string `json:"player_id" validate:"required"`
	OpponentTeamID string `json:"opponent_team_id"`
	Home           bool   `json:"home"`
}

type predictSquadRequest struct {
	Players []squadPlayerRequest `json:"players" validate:"required,min=1,dive"`
}

type optimalLineupRequest struct {
	Players []squadPlayerRequest `json:"players" validate:"required,min=11,dive"`
}

type winProbabilityRequest struct {
	Home []squadPlayerRequest `json:"home" validate:"required,min=11,dive"`
	Away []squadPlayerRequest `json:"away" validate:"required,min=11,dive"`
}

type buildReportRequest struct {
	Gameweek int                  `json:"gameweek" validate:"required,gt=0"`
	Players  []squadPlayerRequest `json:"players" validate:"required,min=1,dive"`
}

type ingestMatchRecordsRequest struct {
	Records []matchRecordRequest `json:"records" validate:"required,min=1,dive"`
}

type matchRecordRequest struct {
	PlayerID        string    `json:"player_id" validate:"required"`
	FixtureID       string    `json:"fixture_id" validate:"required"`
	Gameweek        int       `json:"gameweek" validate:"gte=0"`
	TeamID          string    `json:"team_id"`
	OpponentTeamID  string    `json:"opponent_team_id"`
	OpponentRank    int       `json:"opponent_rank" validate:"required,gt=0"`
	Home            bool      `json:"home"`
	KickoffAt       time.Time `json:"kickoff_at"`
	Minutes         int       `json:"minutes" validate:"gte=0"`
	Goals           int       `json:"goals" validate:"gte=0"`
	Assists         int       `json:"assists" validate:"gte=0"`
	CleanSheet      bool      `json:"clean_sheet"`
	GoalsConceded   int       `json:"goals_conceded" validate:"gte=0"`
	Saves           int       `json:"saves" validate:"gte=0"`
	PenaltiesSaved  int       `json:"penalties_saved" validate:"gte=0"`
	PenaltiesMissed int       `json:"penalties_missed" validate:"gte=0"`
	YellowCards     int       `json:"yellow_cards" validate:"gte=0"`
	RedCards        int       `json:"red_cards" validate:"gte=0"`
	OwnGoals        int       `json:"own_goals" validate:"gte=0"`
	BonusPoints     int       `json:"bonus_points" validate:"gte=0"`
	FantasyPoints   int       `json:"fantasy_points"`
}

type playerForecastDTO struct {
	PlayerID        string             `json:"player_id"`
	PlayerName      string             `json:"player_name"`
	TeamID          string             `json:"team_id"`
	Position        string             `json:"position"`
	OpponentTeamID  string             `json:"opponent_team_id,omitempty"`
	OpponentTier    int                `json:"opponent_tier"`
	Home            bool               `json:"home"`
	ExpectedPoints  float64            `json:"expected_points"`
	Breakdown       map[string]float64 `json:"breakdown"`
	Confidence      float64            `json:"confidence"`
	ConfidenceLabel string             `json:"confidence_label"`
	SampleGames     int                `json:"sample_games"`
	TierGames       int                `json:"tier_games"`
	LeagueAverage   bool               `json:"league_average"`
}

type lineupForecastDTO struct {
	Goalkeeper  playerForecastDTO   `json:"goalkeeper"`
	Defenders   []playerForecastDTO `json:"defenders"`
	Midfielders []playerForecastDTO `json:"midfielders"`
	Forwards    []playerForecastDTO `json:"forwards"`
	Formation   string              `json:"formation"`
	Total       float64             `json:"total"`
}

type matchupForecastDTO struct {
	HomeTotal          float64 `json:"home_total"`
	AwayTotal          float64 `json:"away_total"`
	HomeSigma          float64 `json:"home_sigma"`
	AwaySigma          float64 `json:"away_sigma"`
	HomeWinProbability float64 `json:"home_win_probability"`
	AwayWinProbability float64 `json:"away_win_probability"`
}

type standingDTO struct {
	TeamID       string    `json:"team_id"`
	Rank         int       `json:"rank"`
	Played       int       `json:"played"`
	Won          int       `json:"won"`
	Draw         int       `json:"draw"`
	Lost         int       `json:"lost"`
	GoalsFor     int       `json:"goals_for"`
	GoalsAgainst int       `json:"goals_against"`
	Points       int       `json:"points"`
	CapturedAt   time.Time `json:"captured_at"`
}

type reportDTO struct {
	ID        string              `json:"id"`
	Gameweek  int                 `json:"gameweek"`
	CreatedAt time.Time           `json:"created_at"`
	Forecasts []playerForecastDTO `json:"forecasts"`
}

type teamDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short,omitempty"`
}

type playerDTO struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

func toSquadInputs(items []squadPlayerRequest) []usecase.SquadPlayerInput {
	out := make([]usecase.SquadPlayerInput, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.SquadPlayerInput{
			PlayerID:       item.PlayerID,
			OpponentTeamID: item.OpponentTeamID,
			Home:           item.Home,
		})
	}
	return out
}

func forecastToDTO(f prediction.PlayerForecast) playerForecastDTO {
	breakdown := make(map[string]float64, len(f.Breakdown))
	for event, points := range f.Breakdown {
		breakdown[string(event)] = points
	}

	return playerForecastDTO{
		PlayerID:        f.PlayerID,
		PlayerName:      f.PlayerName,
		TeamID:          f.TeamID,
		Position:        string(f.Position),
		OpponentTeamID:  f.OpponentTeamID,
		OpponentTier:    f.OpponentTier,
		Home:            f.Home,
		ExpectedPoints:  f.ExpectedPoints,
		Breakdown:       breakdown,
		Confidence:      f.Confidence,
		ConfidenceLabel: f.ConfidenceLabel,
		SampleGames:     f.SampleGames,
		TierGames:       f.TierGames,
		LeagueAverage:   f.LeagueAverage,
	}
}

func forecastsToDTO(items []prediction.PlayerForecast) []playerForecastDTO {
	out := make([]playerForecastDTO, 0, len(items))
	for _, item := range items {
		out = append(out, forecastToDTO(item))
	}
	return out
}

func lineupToDTO(l prediction.LineupForecast) lineupForecastDTO {
	return lineupForecastDTO{
		Goalkeeper:  forecastToDTO(l.Goalkeeper),
		Defenders:   forecastsToDTO(l.Defenders),
		Midfielders: forecastsToDTO(l.Midfielders),
		Forwards:    forecastsToDTO(l.Forwards),
		Formation:   l.Formation,
		Total:       l.Total,
	}
}

func matchupToDTO(m prediction.MatchupForecast) matchupForecastDTO {
	return matchupForecastDTO{
		HomeTotal:          m.HomeTotal,
		AwayTotal:          m.AwayTotal,
		HomeSigma:          m.HomeSigma,
		AwaySigma:          m.AwaySigma,
		HomeWinProbability: m.HomeWinProbability,
		AwayWinProbability: m.AwayWinProbability,
	}
}

func standingToDTO(row standing.Row) standingDTO {
	return standingDTO{
		TeamID:       row.TeamID,
		Rank:         row.Rank,
		Played:       row.Played,
		Won:          row.Won,
		Draw:         row.Draw,
		Lost:         row.Lost,
		GoalsFor:     row.GoalsFor,
		GoalsAgainst: row.GoalsAgainst,
		Points:       row.Points,
		CapturedAt:   row.CapturedAt,
	}
}

func reportToDTO(report prediction.Report) reportDTO {
	return reportDTO{
		ID:        report.ID,
		Gameweek:  report.Gameweek,
		CreatedAt: report.CreatedAt,
		Forecasts: forecastsToDTO(report.Forecasts),
	}
}
