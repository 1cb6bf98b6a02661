package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rzldimam28/score-predictor/internal/domain/team"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const selectTeams = `
SELECT id, name, short
FROM teams
ORDER BY name`

const selectTeamByID = `
SELECT id, name, short
FROM teams
WHERE id = $1`

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, selectTeams); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, selectTeamByID, teamID); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team %s: %w", teamID, err)
	}

	return row.toDomain(), true, nil
}
