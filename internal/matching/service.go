package matching

import (
	"context"
	"fmt"

	"github.com/angelmondragon/haulmarket/internal/listings"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service resolves request identifiers and runs the matching engine.
type Service interface {
	GetCandidates(ctx context.Context, input CandidateInput) ([]listings.Listing, error)
	// Rematch returns the replacement listing id for an order group, or nil.
	// With apply set the order group is reassigned in the same call.
	Rematch(ctx context.Context, orderGroupID uuid.UUID, apply bool) (*uuid.UUID, error)
}

// CandidateInput names the customer location either by saved address or by
// raw coordinates.
type CandidateInput struct {
	ProductID             uuid.UUID
	UserAddressID         *uuid.UUID
	Location              *types.Coordinates
	WasteTypeID           *uuid.UUID
	RelatedMainProductIDs []uuid.UUID
}

type service struct {
	tx     txRunner
	repo   listings.Repository
	engine *Engine
	logg   *logger.Logger
}

func NewService(tx txRunner, repo listings.Repository, engine *Engine, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("matching engine required")
	}
	return &service{tx: tx, repo: repo, engine: engine, logg: logg}, nil
}

func (s *service) GetCandidates(ctx context.Context, input CandidateInput) ([]listings.Listing, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.repo.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}
	location, err := listings.ResolveLocation(ctx, s.repo, input.UserAddressID, input.Location)
	if err != nil {
		return nil, err
	}
	return s.engine.GetCandidates(ctx, CandidateRequest{
		ProductID:             input.ProductID,
		Location:              location,
		WasteTypeID:           input.WasteTypeID,
		RelatedMainProductIDs: input.RelatedMainProductIDs,
	})
}

func (s *service) Rematch(ctx context.Context, orderGroupID uuid.UUID, apply bool) (*uuid.UUID, error) {
	if orderGroupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order group id required")
	}
	og, err := s.repo.GetOrderGroup(ctx, orderGroupID)
	if err != nil {
		return nil, err
	}
	replacement, err := s.engine.Rematch(ctx, *og)
	if err != nil || replacement == nil {
		return nil, err
	}

	if apply {
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).ReassignOrderGroup(ctx, og.ID, replacement.ID)
		})
		if err != nil {
			return nil, err
		}
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_group_id": og.ID.String(),
			"listing_id":     replacement.ID.String(),
		}), "order group reassigned")
	}
	id := replacement.ID
	return &id, nil
}
