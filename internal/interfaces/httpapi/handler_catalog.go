package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/playerstats"
	"github.com/rzldimam28/score-predictor/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamRepo.ListAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamDTO{ID: t.ID, Name: t.Name, Short: t.Short})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	teamID := strings.TrimSpace(r.URL.Query().Get("team_id"))

	var players []player.Player
	var err error
	if teamID != "" {
		players, err = h.playerRepo.ListByTeam(ctx, teamID)
	} else {
		players, err = h.playerRepo.ListAll(ctx)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerDTO{
			ID:       p.ID,
			TeamID:   p.TeamID,
			Name:     p.Name,
			Position: string(p.Position),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type tierSplitDTO struct {
	Tier  int      `json:"tier"`
	Games int      `json:"games"`
	Rates ratesDTO `json:"rates"`
}

type ratesDTO struct {
	Goals           float64 `json:"goals"`
	Assists         float64 `json:"assists"`
	CleanSheets     float64 `json:"clean_sheets"`
	Saves           float64 `json:"saves"`
	GoalsConceded   float64 `json:"goals_conceded"`
	PenaltiesSaved  float64 `json:"penalties_saved"`
	PenaltiesMissed float64 `json:"penalties_missed"`
	OwnGoals        float64 `json:"own_goals"`
	YellowCards     float64 `json:"yellow_cards"`
	RedCards        float64 `json:"red_cards"`
	Bonus           float64 `json:"bonus"`
}

type playerProfileDTO struct {
	PlayerID       string         `json:"player_id"`
	Position       string         `json:"position"`
	Games          int            `json:"games"`
	RawGames       int            `json:"raw_games"`
	RawTotals      ratesDTO       `json:"raw_totals"`
	TotalMinutes   int            `json:"total_minutes"`
	MinutesPerGame float64        `json:"minutes_per_game"`
	Overall        ratesDTO       `json:"overall"`
	PerTier        []tierSplitDTO `json:"per_tier"`
	RecentPoints   []float64      `json:"recent_points"`
	LeagueAverage  bool           `json:"league_average"`
}

func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerProfile")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	if playerID == "" {
		writeError(ctx, w, fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput))
		return
	}

	players, err := h.playerRepo.GetByIDs(ctx, []string{playerID})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if len(players) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: player %s", usecase.ErrNotFound, playerID))
		return
	}

	profile, err := h.statsService.ProfileFor(ctx, players[0])
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

func profileToDTO(profile playerstats.Profile) playerProfileDTO {
	perTier := make([]tierSplitDTO, 0, len(profile.PerTier))
	for tier, split := range profile.PerTier {
		perTier = append(perTier, tierSplitDTO{
			Tier:  tier,
			Games: split.Games,
			Rates: ratesToDTO(split.Rates),
		})
	}
	sort.Slice(perTier, func(i, j int) bool { return perTier[i].Tier < perTier[j].Tier })

	return playerProfileDTO{
		PlayerID:       profile.PlayerID,
		Position:       string(profile.Position),
		Games:          profile.Games,
		RawGames:       profile.RawGames,
		RawTotals:      ratesToDTO(profile.RawTotals),
		TotalMinutes:   profile.TotalMinutes,
		MinutesPerGame: profile.MinutesPerGame,
		Overall:        ratesToDTO(profile.Overall),
		PerTier:        perTier,
		RecentPoints:   profile.RecentPoints,
		LeagueAverage:  profile.LeagueAverage,
	}
}

func ratesToDTO(rates playerstats.Rates) ratesDTO {
	return ratesDTO{
		Goals:           rates.Goals,
		Assists:         rates.Assists,
		CleanSheets:     rates.CleanSheets,
		Saves:           rates.Saves,
		GoalsConceded:   rates.GoalsConceded,
		PenaltiesSaved:  rates.PenaltiesSaved,
		PenaltiesMissed: rates.PenaltiesMissed,
		OwnGoals:        rates.OwnGoals,
		YellowCards:     rates.YellowCards,
		RedCards:        rates.RedCards,
		Bonus:           rates.Bonus,
	}
}
