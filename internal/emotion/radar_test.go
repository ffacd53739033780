package emotion

import (
	"math"
	"testing"
)

func TestRadarLayout(t *testing.T) {
	labels := []string{"a", "b", "c", "d"}
	points := RadarLayout(labels, map[string]int{"a": 100, "b": 50, "c": 0, "d": 250}, 80)
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}
	if math.Abs(points[0].X) > 1e-9 || math.Abs(points[0].Y+80) > 1e-9 {
		t.Fatalf("expected first point at top, got (%v,%v)", points[0].X, points[0].Y)
	}
	if math.Abs(points[1].Angle-points[0].Angle-math.Pi/2) > 1e-9 {
		t.Fatalf("expected angle step pi/2, got %v", points[1].Angle-points[0].Angle)
	}
	if points[1].Radius != 40 || points[2].Radius != 0 {
		t.Fatalf("expected radius proportional to value, got %v/%v", points[1].Radius, points[2].Radius)
	}
	if points[3].Radius != 80 {
		t.Fatalf("expected radius clamped to max, got %v", points[3].Radius)
	}
	if RadarLayout(nil, nil, 10) != nil {
		t.Fatalf("expected nil layout for no labels")
	}
}

func TestFlowerIsMonotonic(t *testing.T) {
	dist := NewScores()
	dist[Joy], dist[Sadness] = 60, 40
	points := Flower(dist, 100)
	if len(points) != 8 || points[0].Label != "Joy" {
		t.Fatalf("expected 8 petals starting with Joy, got %+v", points)
	}
	if !(points[0].Radius > points[4].Radius && points[4].Radius > points[1].Radius) {
		t.Fatalf("expected radius monotonic in percentage")
	}
}

func TestRadarLayout_NonFiniteRadius(t *testing.T) {
	labels := []string{"a", "b"}
	values := map[string]int{"a": 100, "b": 60}
	for _, r := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, p := range RadarLayout(labels, values, r) {
			if p.Radius != 0 || p.X != 0 || p.Y != 0 {
				t.Fatalf("radius %v: expected collapsed point, got %+v", r, p)
			}
		}
	}
}
