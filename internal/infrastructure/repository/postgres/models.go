package postgres

import (
	"time"

	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/team"
)

type teamTableModel struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Short string `db:"short"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:    m.ID,
		Name:  m.Name,
		Short: m.Short,
	}
}

type playerTableModel struct {
	ID       string `db:"id"`
	TeamID   string `db:"team_id"`
	Name     string `db:"name"`
	Position string `db:"position"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:       m.ID,
		TeamID:   m.TeamID,
		Name:     m.Name,
		Position: player.Position(m.Position),
	}
}

type matchRecordTableModel struct {
	PlayerID        string    `db:"player_id"`
	FixtureID       string    `db:"fixture_id"`
	Gameweek        int       `db:"gameweek"`
	TeamID          string    `db:"team_id"`
	OpponentTeamID  string    `db:"opponent_team_id"`
	OpponentRank    int       `db:"opponent_rank"`
	Home            bool      `db:"home"`
	KickoffAt       time.Time `db:"kickoff_at"`
	Minutes         int       `db:"minutes"`
	Goals           int       `db:"goals"`
	Assists         int       `db:"assists"`
	CleanSheet      bool      `db:"clean_sheet"`
	GoalsConceded   int       `db:"goals_conceded"`
	Saves           int       `db:"saves"`
	PenaltiesSaved  int       `db:"penalties_saved"`
	PenaltiesMissed int       `db:"penalties_missed"`
	YellowCards     int       `db:"yellow_cards"`
	RedCards        int       `db:"red_cards"`
	OwnGoals        int       `db:"own_goals"`
	BonusPoints     int       `db:"bonus_points"`
	FantasyPoints   int       `db:"fantasy_points"`
}

func (m matchRecordTableModel) toDomain() matchrecord.Record {
	return matchrecord.Record{
		PlayerID:        m.PlayerID,
		FixtureID:       m.FixtureID,
		Gameweek:        m.Gameweek,
		TeamID:          m.TeamID,
		OpponentTeamID:  m.OpponentTeamID,
		OpponentRank:    m.OpponentRank,
		Home:            m.Home,
		KickoffAt:       m.KickoffAt,
		Minutes:         m.Minutes,
		Goals:           m.Goals,
		Assists:         m.Assists,
		CleanSheet:      m.CleanSheet,
		GoalsConceded:   m.GoalsConceded,
		Saves:           m.Saves,
		PenaltiesSaved:  m.PenaltiesSaved,
		PenaltiesMissed: m.PenaltiesMissed,
		YellowCards:     m.YellowCards,
		RedCards:        m.RedCards,
		OwnGoals:        m.OwnGoals,
		BonusPoints:     m.BonusPoints,
		FantasyPoints:   m.FantasyPoints,
	}
}

type standingTableModel struct {
	TeamID       string    `db:"team_id"`
	Rank         int       `db:"rank"`
	Played       int       `db:"played"`
	Won          int       `db:"won"`
	Draw         int       `db:"draw"`
	Lost         int       `db:"lost"`
	GoalsFor     int       `db:"goals_for"`
	GoalsAgainst int       `db:"goals_against"`
	Points       int       `db:"points"`
	CapturedAt   time.Time `db:"captured_at"`
}

func (m standingTableModel) toDomain() standing.Row {
	return standing.Row{
		TeamID:       m.TeamID,
		Rank:         m.Rank,
		Played:       m.Played,
		Won:          m.Won,
		Draw:         m.Draw,
		Lost:         m.Lost,
		GoalsFor:     m.GoalsFor,
		GoalsAgainst: m.GoalsAgainst,
		Points:       m.Points,
		CapturedAt:   m.CapturedAt,
	}
}

type reportTableModel struct {
	ID        string    `db:"id"`
	Gameweek  int       `db:"gameweek"`
	CreatedAt time.Time `db:"created_at"`
	Forecasts []byte    `db:"forecasts"`
}
