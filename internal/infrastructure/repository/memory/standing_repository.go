package memory

import (
	"context"
	"sync"

	"github.com/rzldimam28/score-predictor/internal/domain/standing"
)

type StandingRepository struct {
	mu     sync.RWMutex
	rows   []standing.Row
	byTeam map[string]standing.Row
}

func NewStandingRepository(rows []standing.Row) *StandingRepository {
	repo := &StandingRepository{}
	repo.replace(rows)

	return repo
}

func (r *StandingRepository) Latest(_ context.Context) ([]standing.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standing.Row, 0, len(r.rows))
	out = append(out, r.rows...)

	return out, nil
}

func (r *StandingRepository) GetByTeam(_ context.Context, teamID string) (standing.Row, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byTeam[teamID]
	return row, ok, nil
}

func (r *StandingRepository) ReplaceAll(_ context.Context, rows []standing.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.replace(rows)
	return nil
}

func (r *StandingRepository) replace(rows []standing.Row) {
	copied := make([]standing.Row, 0, len(rows))
	copied = append(copied, rows...)

	byTeam := make(map[string]standing.Row, len(copied))
	for _, row := range copied {
		byTeam[row.TeamID] = row
	}

	r.rows = copied
	r.byTeam = byTeam
}
