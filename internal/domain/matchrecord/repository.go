package matchrecord

import "context"

// Repository describes match history persistence needs from use cases.
type Repository interface {
	ListByPlayer(ctx context.Context, playerID string) ([]Record, error)
	ListByPlayers(ctx context.Context, playerIDs []string) (map[string][]Record, error)
	ListByTeam(ctx context.Context, teamID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	UpsertBatch(ctx context.Context, records []Record) error
}
