package utils

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversine(t *testing.T) {
	saoPaulo := orb.Point{-46.63, -23.55}
	rio := orb.Point{-43.17, -22.91}

	t.Run("distance to self is zero", func(t *testing.T) {
		if d := Haversine(saoPaulo, saoPaulo); d != 0 {
			t.Errorf("Haversine(p, p) = %v, expected 0", d)
		}
	})

	t.Run("symmetry", func(t *testing.T) {
		d1 := Haversine(saoPaulo, rio)
		d2 := Haversine(rio, saoPaulo)
		if math.Abs(d1-d2) > 1e-9 {
			t.Errorf("Haversine not symmetric: %v vs %v", d1, d2)
		}
	})

	t.Run("known distance", func(t *testing.T) {
		// São Paulo to Rio de Janeiro is roughly 360 km.
		d := Haversine(saoPaulo, rio)
		if d < 350 || d > 370 {
			t.Errorf("Haversine(SP, RJ) = %v km, expected ~360", d)
		}
	})

	t.Run("antipodal is half circumference", func(t *testing.T) {
		d := Haversine(orb.Point{0, 0}, orb.Point{180, 0})
		want := math.Pi * EarthRadiusKm
		if math.Abs(d-want) > 1 {
			t.Errorf("antipodal distance = %v, expected %v", d, want)
		}
	})
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"valid", -23.55, -46.63, false},
		{"lat upper bound", 90, 0, false},
		{"lat lower bound", -90, 0, false},
		{"lon bounds", 0, 180, false},
		{"lat too high", 90.01, 0, true},
		{"lat too low", -91, 0, true},
		{"lon too high", 0, 180.5, true},
		{"lon too low", 0, -181, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.lat, tt.lon)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%v, %v) error = %v, wantErr %v",
					tt.lat, tt.lon, err, tt.wantErr)
			}
		})
	}
}
