package prediction

import "context"

// Repository describes projection report persistence needs from use cases.
type Repository interface {
	Save(ctx context.Context, report Report) error
	GetByID(ctx context.Context, reportID string) (Report, bool, error)
	ListByGameweek(ctx context.Context, gameweek int) ([]Report, error)
}
