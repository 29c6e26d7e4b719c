package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/haulmarket/internal/listings"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type quoteStore interface {
	GetListing(ctx context.Context, id uuid.UUID) (*listings.Listing, error)
	GetUserAddress(ctx context.Context, id uuid.UUID) (types.Coordinates, error)
	GetOrderGroup(ctx context.Context, id uuid.UUID) (*listings.OrderGroup, error)
}

// Service loads listings and order groups and prices them.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*Breakdown, error)
	// QuoteOrderGroup reprices an order group with the values captured when it
	// was booked and its own take rate.
	QuoteOrderGroup(ctx context.Context, orderGroupID uuid.UUID, customerFacing bool) (*Breakdown, error)
}

type QuoteInput struct {
	ListingID       uuid.UUID
	UserAddressID   *uuid.UUID
	Location        *types.Coordinates
	StartDate       time.Time
	EndDate         time.Time
	WasteTypeID     *uuid.UUID
	TimesPerWeek    *int
	ShiftCount      *int
	TonnageQuantity decimal.NullDecimal
	Discount        decimal.NullDecimal
	CustomerFacing  bool
}

type service struct {
	store  quoteStore
	engine *Engine
}

func NewService(store quoteStore, engine *Engine) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("quote store required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	return &service{store: store, engine: engine}, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*Breakdown, error) {
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	listing, err := s.store.GetListing(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	location, err := listings.ResolveLocation(ctx, s.store, input.UserAddressID, input.Location)
	if err != nil {
		return nil, err
	}
	return s.engine.GetPrice(ctx, Request{
		Listing:         *listing,
		Location:        location,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		WasteTypeID:     input.WasteTypeID,
		TimesPerWeek:    input.TimesPerWeek,
		ShiftCount:      input.ShiftCount,
		TonnageQuantity: input.TonnageQuantity,
		Discount:        input.Discount,
		CustomerFacing:  input.CustomerFacing,
	})
}

func (s *service) QuoteOrderGroup(ctx context.Context, orderGroupID uuid.UUID, customerFacing bool) (*Breakdown, error) {
	og, err := s.store.GetOrderGroup(ctx, orderGroupID)
	if err != nil {
		return nil, err
	}
	if og.EndDate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order group has no end date")
	}
	listing, err := s.store.GetListing(ctx, og.ListingID)
	if err != nil {
		return nil, err
	}

	return s.engine.GetPrice(ctx, Request{
		Listing:         withBookedValues(*listing, *og),
		Location:        og.Address,
		StartDate:       og.StartDate,
		EndDate:         *og.EndDate,
		WasteTypeID:     og.WasteTypeID,
		TimesPerWeek:    og.TimesPerWeek,
		ShiftCount:      og.ShiftCount,
		TonnageQuantity: og.TonnageQuantity,
		CustomerFacing:  customerFacing,
		TakeRate:        decimal.NewNullDecimal(og.TakeRate),
	})
}

// withBookedValues replaces the listing's two-step rental and material row
// with the prices captured on the order group.
func withBookedValues(l listings.Listing, og listings.OrderGroup) listings.Listing {
	if og.Rental != nil {
		l.Rental = listings.RentalTwoStep{
			IncludedDays:          og.Rental.IncludedDays,
			PricePerDayIncluded:   decimal.NewNullDecimal(og.Rental.PricePerDayIncluded),
			PricePerDayAdditional: decimal.NewNullDecimal(og.Rental.PricePerDayAdditional),
		}
	}
	if og.Material != nil && og.WasteTypeID != nil {
		l.Material = &listings.Material{WasteTypes: []listings.MaterialWasteType{{
			WasteTypeID:     *og.WasteTypeID,
			PricePerTon:     og.Material.PricePerTon,
			TonnageIncluded: decimal.NewNullDecimal(og.Material.TonnageIncluded),
		}}}
	}
	return l
}
