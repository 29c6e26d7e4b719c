package distance

import (
	"context"
	"strconv"
	"time"

	"github.com/angelmondragon/haulmarket/pkg/logger"
	"github.com/angelmondragon/haulmarket/pkg/maps"
	"github.com/angelmondragon/haulmarket/pkg/redis"
	"github.com/angelmondragon/haulmarket/pkg/types"
)

const drivingCacheTTL = 24 * time.Hour

// DrivingClient resolves driving distances for one origin and many destinations.
type DrivingClient interface {
	DrivingMiles(ctx context.Context, origin types.Coordinates, destinations []types.Coordinates) ([]maps.DrivingDistance, error)
}

// Result is a driving distance in the requested unit. Available is false when
// the mapping service could not confirm the distance; callers then fall back
// to GreatCircleMiles.
type Result struct {
	Value     float64
	Available bool
}

// Resolver turns mapping-service failures into unavailable results so a provider
// outage never fails a matching request.
type Resolver struct {
	client DrivingClient
	cache  redis.Store
	logg   *logger.Logger
}

// NewResolver builds a resolver. A nil client yields unavailable results; a
// nil cache disables the shared distance cache.
func NewResolver(client DrivingClient, cache redis.Store, logg *logger.Logger) *Resolver {
	return &Resolver{client: client, cache: cache, logg: logg}
}

// Driving returns the driving distance from a to b in unit.
func (r *Resolver) Driving(ctx context.Context, a, b types.Coordinates, unit Unit) Result {
	results := r.DrivingBatch(ctx, a, []types.Coordinates{b})
	if !results[0].Available {
		return Result{}
	}
	return Result{Value: FromMiles(results[0].Value, unit), Available: true}
}

// DrivingBatch resolves driving miles from origin to every destination with at
// most one upstream call. The result is index-aligned with destinations.
func (r *Resolver) DrivingBatch(ctx context.Context, origin types.Coordinates, destinations []types.Coordinates) []Result {
	out := make([]Result, len(destinations))
	if r == nil || r.client == nil || len(destinations) == 0 {
		return out
	}

	missing := make([]int, 0, len(destinations))
	for i, dest := range destinations {
		if miles, ok := r.cached(ctx, origin, dest); ok {
			out[i] = Result{Value: miles, Available: true}
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return out
	}

	lookup := make([]types.Coordinates, len(missing))
	for j, idx := range missing {
		lookup[j] = destinations[idx]
	}
	distances, err := r.client.DrivingMiles(ctx, origin, lookup)
	if err != nil {
		r.logg.Warn(ctx, "driving distance unavailable, using great-circle distance: "+err.Error())
		return out
	}

	for j, idx := range missing {
		if j >= len(distances) || !distances[j].OK {
			continue
		}
		out[idx] = Result{Value: distances[j].Miles, Available: true}
		r.store(ctx, origin, destinations[idx], distances[j].Miles)
	}
	return out
}

func (r *Resolver) cached(ctx context.Context, origin, dest types.Coordinates) (float64, bool) {
	if r.cache == nil {
		return 0, false
	}
	raw, err := r.cache.Get(ctx, r.cache.DrivingDistanceKey(origin.String(), dest.String()))
	if err != nil {
		if !redis.IsMiss(err) {
			r.logg.Warn(ctx, "driving distance cache read failed: "+err.Error())
		}
		return 0, false
	}
	miles, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return miles, true
}

func (r *Resolver) store(ctx context.Context, origin, dest types.Coordinates, miles float64) {
	if r.cache == nil {
		return
	}
	key := r.cache.DrivingDistanceKey(origin.String(), dest.String())
	if err := r.cache.Set(ctx, key, strconv.FormatFloat(miles, 'f', -1, 64), drivingCacheTTL); err != nil {
		r.logg.Warn(ctx, "driving distance cache write failed: "+err.Error())
	}
}
