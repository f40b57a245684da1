package settings

import "context"

type Repository interface {
	// Get devuelve ErrNotFound si la granja nunca guardó configuración.
	Get(ctx context.Context, farmID string) (FarmSettings, error)
	Save(ctx context.Context, s FarmSettings) error
}
