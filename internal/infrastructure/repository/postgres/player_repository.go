package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const selectPlayers = `
SELECT id, team_id, name, position
FROM players
ORDER BY team_id, name`

const selectPlayersByTeam = `
SELECT id, team_id, name, position
FROM players
WHERE team_id = $1
ORDER BY name`

const selectPlayersByIDs = `
SELECT id, team_id, name, position
FROM players
WHERE id IN (?)`

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, selectPlayers); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	return toPlayers(rows), nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, selectPlayersByTeam, teamID); err != nil {
		return nil, fmt.Errorf("select players for team %s: %w", teamID, err)
	}

	return toPlayers(rows), nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := sqlx.In(selectPlayersByIDs, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("build select players by ids: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	return toPlayers(rows), nil
}

func toPlayers(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out
}
