package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rzldimam28/score-predictor/internal/domain/standing"
)

// StandingsProvider fetches the current league table from an upstream
// source. Implementations live outside the engine.
type StandingsProvider interface {
	FetchTable(ctx context.Context) ([]standing.Row, error)
}

// StandingsService keeps the local league table snapshot current.
// Projections read ranks and goal rates from the snapshot, never from
// the upstream directly.
type StandingsService struct {
	provider     StandingsProvider
	standingRepo standing.Repository
	stats        *StatsService
	now          func() time.Time
}

func NewStandingsService(provider StandingsProvider, standingRepo standing.Repository, stats *StatsService) *StandingsService {
	return &StandingsService{
		provider:     provider,
		standingRepo: standingRepo,
		stats:        stats,
		now:          time.Now,
	}
}

// Refresh pulls the upstream table and swaps the stored snapshot
// wholesale, then drops derived aggregates so the next projection sees
// the new ranks.
func (s *StandingsService) Refresh(ctx context.Context) ([]standing.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "StandingsService.Refresh")
	defer span.End()

	rows, err := s.provider.FetchTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch league table: %v", ErrDependencyUnavailable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: upstream returned an empty league table", ErrDependencyUnavailable)
	}

	capturedAt := s.now().UTC()
	for i := range rows {
		rows[i].CapturedAt = capturedAt
		if err := rows[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, i, err)
		}
	}

	if err := s.standingRepo.ReplaceAll(ctx, rows); err != nil {
		return nil, fmt.Errorf("replace standings: %w", err)
	}

	s.stats.Invalidate(ctx)
	return rows, nil
}

// Table returns the stored league table snapshot.
func (s *StandingsService) Table(ctx context.Context) ([]standing.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "StandingsService.Table")
	defer span.End()

	rows, err := s.standingRepo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}

	return rows, nil
}
