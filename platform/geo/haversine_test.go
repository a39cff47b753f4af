package geo

import (
	"math"
	"testing"
)

func TestHaversineMilesZeroDistance(t *testing.T) {
	d := HaversineMiles(30.2672, -97.7431, 30.2672, -97.7431)
	if d != 0 {
		t.Fatalf("expected 0 distance for identical points, got %f", d)
	}
}

func TestHaversineMilesKnownDistance(t *testing.T) {
	// Austin, TX to Dallas, TX is roughly 182 miles great-circle.
	d := HaversineMiles(30.2672, -97.7431, 32.7767, -96.7970)
	if d < 175 || d > 190 {
		t.Fatalf("expected Austin-Dallas distance near 182 miles, got %f", d)
	}
}

func TestHaversineMilesSymmetry(t *testing.T) {
	a := HaversineMiles(30.2672, -97.7431, 29.7604, -95.3698)
	b := HaversineMiles(29.7604, -95.3698, 30.2672, -97.7431)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("expected symmetric distances, got %f and %f", a, b)
	}
}

func TestHaversineMilesAntipodal(t *testing.T) {
	// Antipodal points are half the Earth's circumference apart.
	d := HaversineMiles(0, 0, 0, 180)
	want := math.Pi * EarthRadiusMiles
	if math.Abs(d-want) > 0.001 {
		t.Fatalf("expected antipodal distance %f, got %f", want, d)
	}
}
