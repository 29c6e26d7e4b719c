// Package matching selects the seller listings that can serve a customer
// request and finds replacements when a seller declines an order.
package matching

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/angelmondragon/haulmarket/internal/listings"
	"github.com/angelmondragon/haulmarket/pkg/distance"
	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/metrics"
	"github.com/angelmondragon/haulmarket/pkg/redis"
	"github.com/angelmondragon/haulmarket/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exclusion reasons reported to metrics.
const (
	excludedInactive        = "inactive"
	excludedIncomplete      = "incomplete"
	excludedCrossSell       = "cross_sell_location"
	excludedOutOfRange      = "out_of_range"
	excludedWasteType       = "waste_type"
	excludedDriving         = "driving_distance"
	excludedDeclining       = "declining_listing"
	excludedShapeMismatch   = "shape_mismatch"
	excludedInsufficientCap = "insufficient_capacity"
)

type candidateStore interface {
	ListCandidates(ctx context.Context, productID uuid.UUID, relatedMainProductIDs []uuid.UUID) ([]listings.Listing, error)
	MainProductWasteTypes(ctx context.Context, mainProductID uuid.UUID) ([]uuid.UUID, error)
}

type drivingResolver interface {
	DrivingBatch(ctx context.Context, origin types.Coordinates, destinations []types.Coordinates) []distance.Result
}

// CandidateRequest describes a customer looking for a product at a location.
type CandidateRequest struct {
	ProductID             uuid.UUID
	Location              types.Coordinates
	WasteTypeID           *uuid.UUID
	RelatedMainProductIDs []uuid.UUID
}

// Options configures an Engine. Zero values disable the memo and driving
// verification.
type Options struct {
	MemoTTL               time.Duration
	MemoCapacity          int
	SharedMemo            redis.Store
	Driving               drivingResolver
	VerifyDrivingDistance bool
	DrivingCandidateCap   int
	Metrics               *metrics.EngineMetrics
	Logger                *logger.Logger
}

// Engine filters listings by product, completeness, distance and waste type.
type Engine struct {
	store         candidateStore
	memo          *wasteTypeMemo
	driving       drivingResolver
	verifyDriving bool
	drivingCap    int
	metrics       *metrics.EngineMetrics
	logg          *logger.Logger
}

// NewEngine wires the candidate store and options into an Engine. Driving
// verification (opts.VerifyDrivingDistance) needs opts.Driving.
func NewEngine(store candidateStore, opts Options) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("candidate store required")
	}
	if opts.VerifyDrivingDistance && opts.Driving == nil {
		return nil, fmt.Errorf("driving resolver required when driving verification is enabled")
	}
	e := &Engine{
		store:         store,
		driving:       opts.Driving,
		verifyDriving: opts.VerifyDrivingDistance,
		drivingCap:    opts.DrivingCandidateCap,
		metrics:       opts.Metrics,
		logg:          opts.Logger,
	}
	e.memo = newWasteTypeMemo(store.MainProductWasteTypes, opts.MemoTTL, opts.MemoCapacity, opts.SharedMemo, opts.Metrics, opts.Logger)
	return e, nil
}

// InvalidateWasteTypes forgets the memoized waste types of a main product.
func (e *Engine) InvalidateWasteTypes(ctx context.Context, mainProductID uuid.UUID) {
	e.memo.Invalidate(ctx, mainProductID)
}

// GetCandidates returns the listings able to serve req, in store order.
// An empty result means no coverage and is not an error.
func (e *Engine) GetCandidates(ctx context.Context, req CandidateRequest) ([]listings.Listing, error) {
	start := time.Now()
	defer func() { e.metrics.ObserveDuration(metrics.OpGetCandidates, time.Since(start)) }()

	out, err := e.candidates(ctx, req)
	if err != nil {
		e.metrics.IncFailure(metrics.OpGetCandidates)
		return nil, err
	}
	e.metrics.ObserveCandidates(len(out))
	e.logg.Info(e.logg.WithFields(ctx, map[string]any{
		"product_id": req.ProductID.String(),
		"candidates": len(out),
	}), "matching candidates resolved")
	return out, nil
}

func (e *Engine) candidates(ctx context.Context, req CandidateRequest) ([]listings.Listing, error) {
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := req.Location.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer location")
	}

	rows, err := e.store.ListCandidates(ctx, req.ProductID, req.RelatedMainProductIDs)
	if err != nil {
		return nil, err
	}

	carriesProduct := make(map[uuid.UUID]bool)
	for _, l := range rows {
		if l.ProductID == req.ProductID && l.Active {
			carriesProduct[l.SellerLocationID] = true
		}
	}

	out := make([]listings.Listing, 0, len(rows))
	for _, l := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		requested := l.ProductID == req.ProductID
		switch {
		case !l.Active:
			e.metrics.IncExcluded(excludedInactive)
			continue
		case !l.IsComplete():
			e.metrics.IncExcluded(excludedIncomplete)
			continue
		case !requested && !carriesProduct[l.SellerLocationID]:
			e.metrics.IncExcluded(excludedCrossSell)
			continue
		case !WithinServiceRadius(l, req.Location):
			e.metrics.IncExcluded(excludedOutOfRange)
			continue
		}
		if requested {
			ok, err := e.wasteTypeCompatible(ctx, l, req.WasteTypeID)
			if err != nil {
				return nil, err
			}
			if !ok {
				e.metrics.IncExcluded(excludedWasteType)
				continue
			}
		}
		out = append(out, l)
	}

	if e.verifyDriving && len(out) > 0 {
		out = e.verifyDrivingDistance(ctx, req.Location, out)
	}
	return out, nil
}

// WithinServiceRadius reports whether customer lies strictly inside the
// listing's service radius. A missing or non-positive radius never matches.
func WithinServiceRadius(l listings.Listing, customer types.Coordinates) bool {
	if !l.ServiceRadius.Valid || !l.ServiceRadius.Decimal.IsPositive() {
		return false
	}
	return distance.GreatCircleMiles(l.Location, customer) < l.ServiceRadius.Decimal.InexactFloat64()
}

// wasteTypeCompatible applies the closed-world waste type policy: a main
// product without configured waste types accepts anything, otherwise the
// listing must price the requested type.
func (e *Engine) wasteTypeCompatible(ctx context.Context, l listings.Listing, wasteTypeID *uuid.UUID) (bool, error) {
	accepted, err := e.memo.WasteTypes(ctx, l.MainProduct.ID)
	if err != nil {
		return false, err
	}
	if len(accepted) == 0 {
		return true, nil
	}
	if wasteTypeID == nil || !slices.Contains(accepted, *wasteTypeID) {
		return false, nil
	}
	_, ok := l.Material.ForWasteType(*wasteTypeID)
	return ok, nil
}

// verifyDrivingDistance re-checks up to drivingCap survivors against driving
// distance with a single batched lookup. Unavailable distances and survivors
// past the cap keep their great-circle verdict.
func (e *Engine) verifyDrivingDistance(ctx context.Context, customer types.Coordinates, survivors []listings.Listing) []listings.Listing {
	n := len(survivors)
	if e.drivingCap > 0 && n > e.drivingCap {
		n = e.drivingCap
	}
	dests := make([]types.Coordinates, n)
	for i := 0; i < n; i++ {
		dests[i] = survivors[i].Location
	}
	results := e.driving.DrivingBatch(ctx, customer, dests)

	out := make([]listings.Listing, 0, len(survivors))
	for i, l := range survivors {
		if i < n && i < len(results) {
			if !results[i].Available {
				e.metrics.IncDrivingFallback()
			} else if results[i].Value >= l.ServiceRadius.Decimal.InexactFloat64() {
				e.metrics.IncExcluded(excludedDriving)
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// Rematch finds a replacement for an order group whose seller declined. The
// declining listing is never offered again. Candidates must carry the same
// two-step rental and material shapes as the order, with at least as many
// included days and as much included tonnage; the tightest fit wins.
// A nil listing means no replacement exists.
func (e *Engine) Rematch(ctx context.Context, og listings.OrderGroup) (*listings.Listing, error) {
	start := time.Now()
	defer func() { e.metrics.ObserveDuration(metrics.OpRematch, time.Since(start)) }()

	candidates, err := e.candidates(ctx, CandidateRequest{
		ProductID:   og.ProductID,
		Location:    og.Address,
		WasteTypeID: og.WasteTypeID,
	})
	if err != nil {
		e.metrics.IncFailure(metrics.OpRematch)
		return nil, err
	}

	type fit struct {
		listing listings.Listing
		days    int
		tonnage decimal.Decimal
	}
	fits := make([]fit, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == og.ListingID {
			e.metrics.IncExcluded(excludedDeclining)
			continue
		}
		days, tonnage, reason := rematchCapacity(og, c)
		if reason != "" {
			e.metrics.IncExcluded(reason)
			continue
		}
		fits = append(fits, fit{listing: c, days: days, tonnage: tonnage})
	}

	ctx = e.logg.WithOrderGroupID(ctx, og.ID.String())
	if len(fits) == 0 {
		e.logg.Info(ctx, "rematch found no replacement listing")
		return nil, nil
	}

	sort.SliceStable(fits, func(i, j int) bool {
		if fits[i].days != fits[j].days {
			return fits[i].days < fits[j].days
		}
		return fits[i].tonnage.LessThan(fits[j].tonnage)
	})
	chosen := fits[0].listing
	e.logg.Info(e.logg.WithListingID(ctx, chosen.ID.String()), "rematch selected replacement listing")
	return &chosen, nil
}

// rematchCapacity returns the candidate's included days and tonnage, or the
// exclusion reason when it cannot continue the order.
func rematchCapacity(og listings.OrderGroup, c listings.Listing) (int, decimal.Decimal, string) {
	var (
		days    int
		tonnage decimal.Decimal
	)

	rental, hasRental := c.TwoStepRental()
	if (og.Rental != nil) != hasRental {
		return 0, decimal.Zero, excludedShapeMismatch
	}
	if og.Rental != nil {
		if rental.IncludedDays < og.Rental.IncludedDays {
			return 0, decimal.Zero, excludedInsufficientCap
		}
		days = rental.IncludedDays
	}

	if (og.Material != nil) != (c.Material != nil) {
		return 0, decimal.Zero, excludedShapeMismatch
	}
	if og.Material != nil {
		var rowIncluded decimal.NullDecimal
		if og.WasteTypeID != nil {
			row, ok := c.Material.ForWasteType(*og.WasteTypeID)
			if !ok {
				return 0, decimal.Zero, excludedShapeMismatch
			}
			rowIncluded = row.TonnageIncluded
		}
		tonnage = listings.EffectiveTonnageIncluded(c.MainProduct.IncludedTonnage, rowIncluded)
		needed := decimal.Zero
		if og.TonnageQuantity.Valid {
			needed = og.TonnageQuantity.Decimal
		}
		if tonnage.LessThan(needed) {
			return 0, decimal.Zero, excludedInsufficientCap
		}
	}
	return days, tonnage, ""
}
