// Package distance computes distances between seller locations and customers.
package distance

import (
	"math"

	"github.com/angelmondragon/haulmarket/pkg/types"
)

// MilesPerDegree is the length of one degree of arc used by the
// spherical-law-of-cosines conversion.
const MilesPerDegree = 69.09

const (
	kilometersPerMile = 1.609344
	metersPerMile     = 1609.344
)

// Unit selects the unit a driving distance is reported in.
type Unit string

const (
	UnitMiles      Unit = "M"
	UnitKilometers Unit = "K"
	UnitMeters     Unit = "m"
)

// GreatCircleMiles returns the great-circle distance between a and b in miles.
// The acos argument is clamped to [-1, 1] so rounding near identical or
// antipodal points never produces NaN.
func GreatCircleMiles(a, b types.Coordinates) float64 {
	latA := degreesToRadians(a.Lat)
	latB := degreesToRadians(b.Lat)
	lonDiff := degreesToRadians(a.Lng - b.Lng)

	cosAngle := math.Sin(latA)*math.Sin(latB) + math.Cos(latA)*math.Cos(latB)*math.Cos(lonDiff)
	cosAngle = math.Max(-1, math.Min(1, cosAngle))

	return radiansToDegrees(math.Acos(cosAngle)) * MilesPerDegree
}

// FromMiles converts a mileage into unit. Unknown units return miles.
func FromMiles(miles float64, unit Unit) float64 {
	switch unit {
	case UnitKilometers:
		return miles * kilometersPerMile
	case UnitMeters:
		return miles * metersPerMile
	default:
		return miles
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
