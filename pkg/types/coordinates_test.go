package types

import (
	"math"
	"testing"
)

func TestCoordinatesValidate(t *testing.T) {
	cases := []struct {
		name    string
		coords  Coordinates
		wantErr bool
	}{
		{name: "origin", coords: Coordinates{}, wantErr: false},
		{name: "bounds", coords: Coordinates{Lat: -90, Lng: 180}, wantErr: false},
		{name: "lat too high", coords: Coordinates{Lat: 90.1}, wantErr: true},
		{name: "lng too low", coords: Coordinates{Lng: -180.5}, wantErr: true},
		{name: "nan", coords: Coordinates{Lat: math.NaN()}, wantErr: true},
		{name: "inf", coords: Coordinates{Lng: math.Inf(1)}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.coords.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestCoordinatesString(t *testing.T) {
	got := Coordinates{Lat: 30.2672, Lng: -97.7431}.String()
	if got != "30.2672,-97.7431" {
		t.Fatalf("unexpected string %q", got)
	}
}
