package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rzldimam28/score-predictor/internal/domain/standing"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

const selectStandings = `
SELECT team_id, rank, played, won, draw, lost, goals_for, goals_against, points, captured_at
FROM standings
ORDER BY rank`

const selectStandingByTeam = `
SELECT team_id, rank, played, won, draw, lost, goals_for, goals_against, points, captured_at
FROM standings
WHERE team_id = $1`

const insertStanding = `
INSERT INTO standings (
	team_id, rank, played, won, draw, lost, goals_for, goals_against, points, captured_at
) VALUES (
	:team_id, :rank, :played, :won, :draw, :lost, :goals_for, :goals_against, :points, :captured_at
)`

func (r *StandingRepository) Latest(ctx context.Context) ([]standing.Row, error) {
	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, selectStandings); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *StandingRepository) GetByTeam(ctx context.Context, teamID string) (standing.Row, bool, error) {
	var row standingTableModel
	if err := r.db.GetContext(ctx, &row, selectStandingByTeam, teamID); err != nil {
		if isNotFound(err) {
			return standing.Row{}, false, nil
		}
		return standing.Row{}, false, fmt.Errorf("select standing for team %s: %w", teamID, err)
	}

	return row.toDomain(), true, nil
}

// ReplaceAll swaps the snapshot in one transaction so readers never see
// a partially refreshed table.
func (r *StandingRepository) ReplaceAll(ctx context.Context, rows []standing.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin standings replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM standings`); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}
	for _, row := range rows {
		model := standingTableModel{
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
		if _, err := tx.NamedExecContext(ctx, insertStanding, model); err != nil {
			return fmt.Errorf("insert standing for team %s: %w", row.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit standings replace: %w", err)
	}

	return nil
}
