package listings

import (
	"context"

	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
)

type addressLoader interface {
	GetUserAddress(ctx context.Context, id uuid.UUID) (types.Coordinates, error)
}

// ResolveLocation returns the saved address coordinates when addressID is
// set, otherwise the validated raw coordinates.
func ResolveLocation(ctx context.Context, loader addressLoader, addressID *uuid.UUID, coords *types.Coordinates) (types.Coordinates, error) {
	switch {
	case addressID != nil && *addressID != uuid.Nil:
		return loader.GetUserAddress(ctx, *addressID)
	case coords != nil:
		if err := coords.Validate(); err != nil {
			return types.Coordinates{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinates")
		}
		return *coords, nil
	default:
		return types.Coordinates{}, pkgerrors.New(pkgerrors.CodeValidation, "user address id or coordinates required")
	}
}
