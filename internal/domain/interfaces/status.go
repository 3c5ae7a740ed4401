package interfaces

import (
	"context"

	domaintypes "oxy/internal/domain/types"
)

// StatusClient queries a running process through its admin endpoint.
type StatusClient interface {
	Health(ctx context.Context) (domaintypes.Health, error)
}
