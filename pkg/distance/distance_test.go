package distance

import (
	"math"
	"testing"

	"github.com/angelmondragon/haulmarket/pkg/types"
)

func TestGreatCircleMiles_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a         types.Coordinates
		b         types.Coordinates
		wantMiles float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Coordinates{Lat: 30.2672, Lng: -97.7431},
			b:         types.Coordinates{Lat: 30.2672, Lng: -97.7431},
			wantMiles: 0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of latitude",
			a:         types.Coordinates{Lat: 0, Lng: 0},
			b:         types.Coordinates{Lat: 1, Lng: 0},
			wantMiles: MilesPerDegree,
			tolerance: 0.0001,
		},
		{
			name:      "Austin to Dallas (~182mi)",
			a:         types.Coordinates{Lat: 30.2672, Lng: -97.7431},
			b:         types.Coordinates{Lat: 32.7767, Lng: -96.7970},
			wantMiles: 182,
			tolerance: 5,
		},
		{
			name:      "New York to Los Angeles (~2450mi)",
			a:         types.Coordinates{Lat: 40.7128, Lng: -74.0060},
			b:         types.Coordinates{Lat: 34.0522, Lng: -118.2437},
			wantMiles: 2450,
			tolerance: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GreatCircleMiles(tt.a, tt.b)
			if math.Abs(got-tt.wantMiles) > tt.tolerance {
				t.Errorf("GreatCircleMiles() = %f, want %f (±%f)", got, tt.wantMiles, tt.tolerance)
			}
		})
	}
}

func TestGreatCircleMiles_Symmetry(t *testing.T) {
	a := types.Coordinates{Lat: 25.0, Lng: -80.0}
	b := types.Coordinates{Lat: 26.0, Lng: -81.0}
	d1 := GreatCircleMiles(a, b)
	d2 := GreatCircleMiles(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("distance is not symmetric: %f vs %f", d1, d2)
	}
}

func TestGreatCircleMiles_NeverNaN(t *testing.T) {
	points := []types.Coordinates{
		{Lat: 45.123456789, Lng: -93.987654321},
		{Lat: 90, Lng: 0},
		{Lat: -90, Lng: 180},
		{Lat: 0, Lng: 180},
		{Lat: 0, Lng: -180},
	}
	for _, a := range points {
		for _, b := range points {
			if got := GreatCircleMiles(a, b); math.IsNaN(got) {
				t.Fatalf("NaN distance for %v -> %v", a, b)
			}
		}
	}
}

func TestGreatCircleMiles_RadiusBoundary(t *testing.T) {
	origin := types.Coordinates{}
	near := types.Coordinates{Lat: 9.99 / MilesPerDegree}
	far := types.Coordinates{Lat: 10.01 / MilesPerDegree}

	if d := GreatCircleMiles(origin, near); !(d < 10) {
		t.Fatalf("expected %f to be inside a 10 mile radius", d)
	}
	if d := GreatCircleMiles(origin, far); d < 10 {
		t.Fatalf("expected %f to be outside a 10 mile radius", d)
	}
}

func TestFromMiles(t *testing.T) {
	if got := FromMiles(10, UnitMiles); got != 10 {
		t.Fatalf("miles: got %f", got)
	}
	if got := FromMiles(10, UnitKilometers); math.Abs(got-16.09344) > 1e-9 {
		t.Fatalf("kilometers: got %f", got)
	}
	if got := FromMiles(1, UnitMeters); math.Abs(got-1609.344) > 1e-9 {
		t.Fatalf("meters: got %f", got)
	}
	if got := FromMiles(3, Unit("furlongs")); got != 3 {
		t.Fatalf("unknown unit should fall back to miles, got %f", got)
	}
}
