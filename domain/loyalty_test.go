package domain

import "testing"

func TestTierForThresholds(t *testing.T) {
	cases := []struct {
		spend float64
		want  string
	}{
		{-50, "bronze"},
		{0, "bronze"},
		{999.99, "bronze"},
		{1000, "silver"},
		{4999, "silver"},
		{5000, "gold"},
		{15000, "platinum"},
		{1e9, "platinum"},
	}
	for _, c := range cases {
		if got := TierFor(c.spend); got.Name != c.want {
			t.Fatalf("TierFor(%v) = %s, want %s", c.spend, got.Name, c.want)
		}
	}
}

func TestPointsFor(t *testing.T) {
	if got := PointsFor(1234, DefaultPointsRate); got != 123 {
		t.Fatalf("expected 123 points, got %d", got)
	}
	if got := PointsFor(99, 100); got != 0 {
		t.Fatalf("spend below rate should yield 0, got %d", got)
	}
	if got := PointsFor(500, 0); got != 0 {
		t.Fatalf("non-positive rate should yield 0, got %d", got)
	}
	if got := PointsFor(-10, DefaultPointsRate); got != 0 {
		t.Fatalf("negative spend should yield 0, got %d", got)
	}
}
