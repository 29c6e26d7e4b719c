package matching

import (
	"context"
	"slices"
	"sync"

	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/angelmondragon/haulmarket/pkg/distance"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/pagination"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

// north returns the point miles due north of the origin.
func north(miles float64) types.Coordinates {
	return types.Coordinates{Lat: miles / distance.MilesPerDegree, Lng: 0}
}

var (
	dumpsterProductID = uuid.MustParse("6f1c1a2e-0000-4000-8000-000000000001")
	toiletProductID   = uuid.MustParse("6f1c1a2e-0000-4000-8000-000000000002")
	concreteID        = uuid.MustParse("6f1c1a2e-0000-4000-8000-0000000000c1")
	yardWasteID       = uuid.MustParse("6f1c1a2e-0000-4000-8000-0000000000c2")
)

var dumpsters = listings.MainProduct{
	ID:              uuid.MustParse("6f1c1a2e-0000-4000-8000-0000000000a1"),
	Name:            "Dumpster",
	HasRental:       true,
	HasMaterial:     true,
	IncludedTonnage: dec("2"),
}

var toilets = listings.MainProduct{
	ID:        uuid.MustParse("6f1c1a2e-0000-4000-8000-0000000000a2"),
	Name:      "Portable Toilet",
	HasRental: true,
}

// dumpsterListing is a complete, active dumpster listing at the origin with a
// 10 mile radius that prices concrete.
func dumpsterListing(includedDays int, tonnage string) listings.Listing {
	return listings.Listing{
		ID:               uuid.New(),
		ProductID:        dumpsterProductID,
		SellerLocationID: uuid.New(),
		MainProduct:      dumpsters,
		Active:           true,
		ServiceRadius:    dec("10"),
		Rental: listings.RentalTwoStep{
			IncludedDays:          includedDays,
			PricePerDayIncluded:   dec("50"),
			PricePerDayAdditional: dec("20"),
		},
		Material: &listings.Material{WasteTypes: []listings.MaterialWasteType{{
			WasteTypeID:     concreteID,
			PricePerTon:     decimal.NewFromInt(60),
			TonnageIncluded: dec(tonnage),
		}}},
	}
}

func toiletListing(locationID uuid.UUID) listings.Listing {
	return listings.Listing{
		ID:               uuid.New(),
		ProductID:        toiletProductID,
		SellerLocationID: locationID,
		MainProduct:      toilets,
		Active:           true,
		ServiceRadius:    dec("10"),
		Rental: listings.RentalTwoStep{
			IncludedDays:          1,
			PricePerDayIncluded:   dec("15"),
			PricePerDayAdditional: dec("15"),
		},
	}
}

type stubRepo struct {
	mu             sync.Mutex
	listings       []listings.Listing
	wasteTypes     map[uuid.UUID][]uuid.UUID
	wasteTypeCalls int
	wasteTypeErr   error
	products       map[uuid.UUID]listings.Product
	addresses      map[uuid.UUID]types.Coordinates
	orderGroups    map[uuid.UUID]listings.OrderGroup
	reassigned     map[uuid.UUID]uuid.UUID
	txBound        bool
}

func newStubRepo(rows ...listings.Listing) *stubRepo {
	return &stubRepo{
		listings: rows,
		wasteTypes: map[uuid.UUID][]uuid.UUID{
			dumpsters.ID: {concreteID, yardWasteID},
		},
		products: map[uuid.UUID]listings.Product{
			dumpsterProductID: {ID: dumpsterProductID, MainProductID: dumpsters.ID, Name: "30 Yard Dumpster"},
			toiletProductID:   {ID: toiletProductID, MainProductID: toilets.ID, Name: "Standard Unit"},
		},
		addresses:   map[uuid.UUID]types.Coordinates{},
		orderGroups: map[uuid.UUID]listings.OrderGroup{},
		reassigned:  map[uuid.UUID]uuid.UUID{},
	}
}

func (s *stubRepo) ListCandidates(_ context.Context, productID uuid.UUID, related []uuid.UUID) ([]listings.Listing, error) {
	out := []listings.Listing{}
	for _, l := range s.listings {
		if l.ProductID == productID || slices.Contains(related, l.MainProduct.ID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *stubRepo) ListByStatus(_ context.Context, status listings.Status, _ pagination.Params) (pagination.Page[listings.Listing], error) {
	out := []listings.Listing{}
	for _, l := range s.listings {
		if l.Status() == status {
			out = append(out, l)
		}
	}
	return pagination.Page[listings.Listing]{Items: out}, nil
}

func (s *stubRepo) GetListing(_ context.Context, id uuid.UUID) (*listings.Listing, error) {
	for _, l := range s.listings {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
}

func (s *stubRepo) GetProduct(_ context.Context, id uuid.UUID) (*listings.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

func (s *stubRepo) MainProductWasteTypes(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wasteTypeCalls++
	if s.wasteTypeErr != nil {
		return nil, s.wasteTypeErr
	}
	return s.wasteTypes[id], nil
}

func (s *stubRepo) GetUserAddress(_ context.Context, id uuid.UUID) (types.Coordinates, error) {
	c, ok := s.addresses[id]
	if !ok {
		return types.Coordinates{}, pkgerrors.New(pkgerrors.CodeNotFound, "user address not found")
	}
	return c, nil
}

func (s *stubRepo) GetOrderGroup(_ context.Context, id uuid.UUID) (*listings.OrderGroup, error) {
	og, ok := s.orderGroups[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order group not found")
	}
	return &og, nil
}

func (s *stubRepo) ReassignOrderGroup(_ context.Context, orderGroupID, listingID uuid.UUID) error {
	if _, ok := s.orderGroups[orderGroupID]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order group not found")
	}
	s.reassigned[orderGroupID] = listingID
	return nil
}

func (s *stubRepo) WithTx(*gorm.DB) listings.Repository {
	s.txBound = true
	return s
}

func (s *stubRepo) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wasteTypeCalls
}

type stubTx struct {
	calls int
	err   error
}

func (s *stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return fn(&gorm.DB{})
}

type drivingFunc func(ctx context.Context, origin types.Coordinates, dests []types.Coordinates) []distance.Result

func (f drivingFunc) DrivingBatch(ctx context.Context, origin types.Coordinates, dests []types.Coordinates) []distance.Result {
	return f(ctx, origin, dests)
}

func ids(rows []listings.Listing) []uuid.UUID {
	out := make([]uuid.UUID, len(rows))
	for i, l := range rows {
		out[i] = l.ID
	}
	return out
}

func newTestEngine(repo *stubRepo, opts Options) *Engine {
	e, err := NewEngine(repo, opts)
	if err != nil {
		panic(err)
	}
	return e
}
