package memory

import (
	"context"
	"sync"

	"github.com/rzldimam28/score-predictor/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
	index   map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[string]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = p
	}

	return &PlayerRepository{
		players: players,
		index:   index,
	}
}

func (r *PlayerRepository) ListAll(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	out = append(out, r.players...)

	return out, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.index[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}
