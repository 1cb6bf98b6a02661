package memory

import (
	"fmt"
	"time"

	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/team"
)

// SeedData is a small self-consistent league used for local development
// when no database is configured.
type SeedData struct {
	Teams     []team.Team
	Players   []player.Player
	Standings []standing.Row
	Records   []matchrecord.Record
}

// NewSeedData builds a four-team league with six gameweeks of history.
// The data is deterministic so repeated boots behave identically.
func NewSeedData() SeedData {
	teams := []team.Team{
		{ID: "team-arsenal", Name: "Arsenal", Short: "ARS"},
		{ID: "team-liverpool", Name: "Liverpool", Short: "LIV"},
		{ID: "team-brighton", Name: "Brighton", Short: "BHA"},
		{ID: "team-luton", Name: "Luton", Short: "LUT"},
	}

	standings := []standing.Row{
		{TeamID: "team-arsenal", Rank: 1, Played: 6, Won: 5, Draw: 1, GoalsFor: 14, GoalsAgainst: 3, Points: 16},
		{TeamID: "team-liverpool", Rank: 2, Played: 6, Won: 4, Draw: 2, GoalsFor: 12, GoalsAgainst: 5, Points: 14},
		{TeamID: "team-brighton", Rank: 9, Played: 6, Won: 2, Draw: 2, Lost: 2, GoalsFor: 9, GoalsAgainst: 9, Points: 8},
		{TeamID: "team-luton", Rank: 18, Played: 6, Won: 0, Draw: 1, Lost: 5, GoalsFor: 3, GoalsAgainst: 13, Points: 1},
	}
	capturedAt := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	for i := range standings {
		standings[i].CapturedAt = capturedAt
	}

	positionsPerTeam := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionDefender,
		player.PositionDefender,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionMidfielder,
		player.PositionMidfielder,
		player.PositionMidfielder,
		player.PositionForward,
		player.PositionForward,
	}

	var players []player.Player
	for _, t := range teams {
		for i, pos := range positionsPerTeam {
			players = append(players, player.Player{
				ID:       fmt.Sprintf("%s-p%02d", t.ID, i+1),
				TeamID:   t.ID,
				Name:     fmt.Sprintf("%s Player %02d", t.Short, i+1),
				Position: pos,
			})
		}
	}

	rankOf := map[string]int{}
	for _, row := range standings {
		rankOf[row.TeamID] = row.Rank
	}

	var records []matchrecord.Record
	kickoff := time.Date(2025, time.November, 22, 15, 0, 0, 0, time.UTC)
	for gw := 1; gw <= 6; gw++ {
		for tIdx, t := range teams {
			opponent := teams[(tIdx+gw)%len(teams)]
			if opponent.ID == t.ID {
				opponent = teams[(tIdx+1)%len(teams)]
			}
			for _, p := range players {
				if p.TeamID != t.ID {
					continue
				}
				records = append(records, seedRecord(p, opponent.ID, rankOf[opponent.ID], gw, tIdx, kickoff))
			}
		}
		kickoff = kickoff.Add(7 * 24 * time.Hour)
	}

	return SeedData{
		Teams:     teams,
		Players:   players,
		Standings: standings,
		Records:   records,
	}
}

func seedRecord(p player.Player, opponentID string, opponentRank, gameweek, teamIdx int, kickoff time.Time) matchrecord.Record {
	rec := matchrecord.Record{
		PlayerID:       p.ID,
		FixtureID:      fmt.Sprintf("gw%d-%s", gameweek, p.TeamID),
		Gameweek:       gameweek,
		TeamID:         p.TeamID,
		OpponentTeamID: opponentID,
		OpponentRank:   opponentRank,
		Home:           (gameweek+teamIdx)%2 == 0,
		KickoffAt:      kickoff,
		Minutes:        90,
	}

	// Stronger sides (low teamIdx) produce more attacking returns;
	// everyone's output dips against low-rank opponents.
	attacking := 4 - teamIdx
	switch p.Position {
	case player.PositionGoalkeeper:
		rec.Saves = 2 + (gameweek+teamIdx)%4
		rec.CleanSheet = (gameweek+teamIdx)%3 == 0 && opponentRank > 4
		if !rec.CleanSheet {
			rec.GoalsConceded = 1 + (gameweek+teamIdx)%2
		}
		rec.FantasyPoints = 2 + rec.Saves/3
	case player.PositionDefender:
		rec.CleanSheet = (gameweek+teamIdx)%3 == 0 && opponentRank > 4
		if !rec.CleanSheet {
			rec.GoalsConceded = 1 + (gameweek+teamIdx)%2
		}
		rec.Goals = boolToInt(gameweek%6 == teamIdx)
		rec.FantasyPoints = 2 + 6*rec.Goals
	case player.PositionMidfielder:
		rec.Goals = boolToInt((gameweek+teamIdx)%4 < attacking)
		rec.Assists = boolToInt((gameweek+teamIdx)%3 == 0)
		rec.FantasyPoints = 2 + 5*rec.Goals + 3*rec.Assists
	case player.PositionForward:
		rec.Goals = boolToInt((gameweek+teamIdx)%3 < attacking)
		rec.Assists = boolToInt((gameweek+teamIdx)%5 == 0)
		rec.FantasyPoints = 2 + 4*rec.Goals + 3*rec.Assists
	}

	if rec.CleanSheet && p.Position != player.PositionForward {
		rec.FantasyPoints += 4
	}
	if rec.FantasyPoints >= 8 {
		rec.BonusPoints = 2
		rec.FantasyPoints += 2
	}
	if (gameweek+teamIdx)%5 == 4 && p.Position != player.PositionGoalkeeper {
		rec.YellowCards = 1
		rec.FantasyPoints--
	}

	return rec
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
