package standing

import "context"

// Repository describes league table persistence needs from use cases.
type Repository interface {
	Latest(ctx context.Context) ([]Row, error)
	GetByTeam(ctx context.Context, teamID string) (Row, bool, error)
	ReplaceAll(ctx context.Context, rows []Row) error
}
