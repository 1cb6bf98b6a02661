package memory

import (
	"context"
	"sync"

	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
)

type MatchRecordRepository struct {
	mu       sync.RWMutex
	byPlayer map[string][]matchrecord.Record
}

func NewMatchRecordRepository(records []matchrecord.Record) *MatchRecordRepository {
	repo := &MatchRecordRepository{
		byPlayer: make(map[string][]matchrecord.Record),
	}
	for _, rec := range records {
		repo.byPlayer[rec.PlayerID] = append(repo.byPlayer[rec.PlayerID], rec)
	}

	return repo
}

func (r *MatchRecordRepository) ListByPlayer(_ context.Context, playerID string) ([]matchrecord.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.byPlayer[playerID]
	out := make([]matchrecord.Record, 0, len(records))
	out = append(out, records...)

	return out, nil
}

func (r *MatchRecordRepository) ListByPlayers(_ context.Context, playerIDs []string) (map[string][]matchrecord.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]matchrecord.Record, len(playerIDs))
	for _, id := range playerIDs {
		records := r.byPlayer[id]
		copied := make([]matchrecord.Record, 0, len(records))
		out[id] = append(copied, records...)
	}

	return out, nil
}

func (r *MatchRecordRepository) ListByTeam(_ context.Context, teamID string) ([]matchrecord.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchrecord.Record, 0)
	for _, records := range r.byPlayer {
		for _, rec := range records {
			if rec.TeamID == teamID {
				out = append(out, rec)
			}
		}
	}

	return out, nil
}

func (r *MatchRecordRepository) ListAll(_ context.Context) ([]matchrecord.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchrecord.Record, 0)
	for _, records := range r.byPlayer {
		out = append(out, records...)
	}

	return out, nil
}

func (r *MatchRecordRepository) UpsertBatch(_ context.Context, records []matchrecord.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		existing := r.byPlayer[rec.PlayerID]
		replaced := false
		for i, cur := range existing {
			if cur.FixtureID == rec.FixtureID {
				existing[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, rec)
		}
		r.byPlayer[rec.PlayerID] = existing
	}

	return nil
}
