package memory

import (
	"context"
	"sync"

	"github.com/rzldimam28/score-predictor/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams []team.Team
	index map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	index := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		index[t.ID] = t
	}

	return &TeamRepository{
		teams: teams,
		index: index,
	}
}

func (r *TeamRepository) ListAll(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	out = append(out, r.teams...)

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.index[teamID]
	return t, ok, nil
}
