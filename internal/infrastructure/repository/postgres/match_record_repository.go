package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
)

type MatchRecordRepository struct {
	db *sqlx.DB
}

func NewMatchRecordRepository(db *sqlx.DB) *MatchRecordRepository {
	return &MatchRecordRepository{db: db}
}

const selectRecordColumns = `
SELECT player_id, fixture_id, gameweek, team_id, opponent_team_id, opponent_rank,
       home, kickoff_at, minutes, goals, assists, clean_sheet, goals_conceded,
       saves, penalties_saved, penalties_missed, yellow_cards, red_cards,
       own_goals, bonus_points, fantasy_points
FROM match_records`

const upsertRecord = `
INSERT INTO match_records (
	player_id, fixture_id, gameweek, team_id, opponent_team_id, opponent_rank,
	home, kickoff_at, minutes, goals, assists, clean_sheet, goals_conceded,
	saves, penalties_saved, penalties_missed, yellow_cards, red_cards,
	own_goals, bonus_points, fantasy_points
) VALUES (
	:player_id, :fixture_id, :gameweek, :team_id, :opponent_team_id, :opponent_rank,
	:home, :kickoff_at, :minutes, :goals, :assists, :clean_sheet, :goals_conceded,
	:saves, :penalties_saved, :penalties_missed, :yellow_cards, :red_cards,
	:own_goals, :bonus_points, :fantasy_points
)
ON CONFLICT (player_id, fixture_id) DO UPDATE SET
	gameweek = EXCLUDED.gameweek,
	team_id = EXCLUDED.team_id,
	opponent_team_id = EXCLUDED.opponent_team_id,
	opponent_rank = EXCLUDED.opponent_rank,
	home = EXCLUDED.home,
	kickoff_at = EXCLUDED.kickoff_at,
	minutes = EXCLUDED.minutes,
	goals = EXCLUDED.goals,
	assists = EXCLUDED.assists,
	clean_sheet = EXCLUDED.clean_sheet,
	goals_conceded = EXCLUDED.goals_conceded,
	saves = EXCLUDED.saves,
	penalties_saved = EXCLUDED.penalties_saved,
	penalties_missed = EXCLUDED.penalties_missed,
	yellow_cards = EXCLUDED.yellow_cards,
	red_cards = EXCLUDED.red_cards,
	own_goals = EXCLUDED.own_goals,
	bonus_points = EXCLUDED.bonus_points,
	fantasy_points = EXCLUDED.fantasy_points`

func (r *MatchRecordRepository) ListByPlayer(ctx context.Context, playerID string) ([]matchrecord.Record, error) {
	var rows []matchRecordTableModel
	query := selectRecordColumns + `
WHERE player_id = $1
ORDER BY kickoff_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, playerID); err != nil {
		return nil, fmt.Errorf("select match records for player %s: %w", playerID, err)
	}

	return toRecords(rows), nil
}

func (r *MatchRecordRepository) ListByPlayers(ctx context.Context, playerIDs []string) (map[string][]matchrecord.Record, error) {
	out := make(map[string][]matchrecord.Record, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(selectRecordColumns+`
WHERE player_id IN (?)
ORDER BY kickoff_at DESC`, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("build select match records by players: %w", err)
	}

	var rows []matchRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select match records by players: %w", err)
	}

	for _, id := range playerIDs {
		out[id] = []matchrecord.Record{}
	}
	for _, row := range rows {
		out[row.PlayerID] = append(out[row.PlayerID], row.toDomain())
	}

	return out, nil
}

func (r *MatchRecordRepository) ListByTeam(ctx context.Context, teamID string) ([]matchrecord.Record, error) {
	var rows []matchRecordTableModel
	query := selectRecordColumns + `
WHERE team_id = $1
ORDER BY kickoff_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, teamID); err != nil {
		return nil, fmt.Errorf("select match records for team %s: %w", teamID, err)
	}

	return toRecords(rows), nil
}

func (r *MatchRecordRepository) ListAll(ctx context.Context) ([]matchrecord.Record, error) {
	var rows []matchRecordTableModel
	query := selectRecordColumns + `
ORDER BY kickoff_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select match records: %w", err)
	}

	return toRecords(rows), nil
}

func (r *MatchRecordRepository) UpsertBatch(ctx context.Context, records []matchrecord.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin match record upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		model := toRecordModel(rec)
		if _, err := tx.NamedExecContext(ctx, upsertRecord, model); err != nil {
			return fmt.Errorf("upsert match record %s/%s: %w", rec.PlayerID, rec.FixtureID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match record upsert: %w", err)
	}

	return nil
}

func toRecords(rows []matchRecordTableModel) []matchrecord.Record {
	out := make([]matchrecord.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out
}

func toRecordModel(rec matchrecord.Record) matchRecordTableModel {
	return matchRecordTableModel{
		PlayerID:        rec.PlayerID,
		FixtureID:       rec.FixtureID,
		Gameweek:        rec.Gameweek,
		TeamID:          rec.TeamID,
		OpponentTeamID:  rec.OpponentTeamID,
		OpponentRank:    rec.OpponentRank,
		Home:            rec.Home,
		KickoffAt:       rec.KickoffAt,
		Minutes:         rec.Minutes,
		Goals:           rec.Goals,
		Assists:         rec.Assists,
		CleanSheet:      rec.CleanSheet,
		GoalsConceded:   rec.GoalsConceded,
		Saves:           rec.Saves,
		PenaltiesSaved:  rec.PenaltiesSaved,
		PenaltiesMissed: rec.PenaltiesMissed,
		YellowCards:     rec.YellowCards,
		RedCards:        rec.RedCards,
		OwnGoals:        rec.OwnGoals,
		BonusPoints:     rec.BonusPoints,
		FantasyPoints:   rec.FantasyPoints,
	}
}
