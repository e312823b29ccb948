package geo

import (
	"math"
	"testing"
)

func TestHaversineIdentity(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{28.6139, 77.2090},
		{-33.8688, 151.2093},
		{90, 0},
	}
	for _, p := range points {
		if d := Haversine(p[0], p[1], p[0], p[1]); d != 0 {
			t.Fatalf("Haversine(%v,%v,same) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{28.6139, 77.2090, 19.0760, 72.8777},
		{40.7128, -74.0060, 51.5074, -0.1278},
		{-1.2921, 36.8219, 59.3293, 18.0686},
	}
	for _, p := range pairs {
		ab := Haversine(p[0], p[1], p[2], p[3])
		ba := Haversine(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Fatalf("asymmetric: %v vs %v", ab, ba)
		}
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Delhi to Mumbai, roughly 1150 km as the crow flies.
	d := Haversine(28.6139, 77.2090, 19.0760, 72.8777)
	if d < 1000 || d > 1300 {
		t.Fatalf("Delhi-Mumbai = %v km, want within [1000,1300]", d)
	}
}

func TestBearingRangeAndAsymmetry(t *testing.T) {
	b1 := Bearing(28.6139, 77.2090, 19.0760, 72.8777)
	b2 := Bearing(19.0760, 72.8777, 28.6139, 77.2090)
	if b1 < 0 || b1 >= 360 || b2 < 0 || b2 >= 360 {
		t.Fatalf("bearings out of range: %v, %v", b1, b2)
	}
	if math.Abs(b1-b2) < 1e-6 {
		t.Fatalf("bearing should not be symmetric: %v vs %v", b1, b2)
	}
	// Due north along a meridian.
	if n := Bearing(0, 10, 5, 10); math.Abs(n) > 1e-6 {
		t.Fatalf("northward bearing = %v, want 0", n)
	}
	// Due east on the equator.
	if e := Bearing(0, 10, 0, 15); math.Abs(e-90) > 1e-6 {
		t.Fatalf("eastward bearing = %v, want 90", e)
	}
}
