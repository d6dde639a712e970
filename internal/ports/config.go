package ports

import (
	"context"

	"lsudt/internal/types"
)

// ConfigSourcePort loads the user's labeling configuration. Implementations
// re-read their backing store on every call so retry loops pick up edits.
type ConfigSourcePort interface {
	LoadConfig(ctx context.Context) ([]types.ConfigFile, error)
}
