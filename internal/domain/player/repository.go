package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Player, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
}
