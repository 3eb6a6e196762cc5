package game

import "testing"

func TestCircleOverlapsSymmetricAndReflexive(t *testing.T) {
	circles := []Circle{
		{Center: Vec2{0, 0}, Radius: 10},
		{Center: Vec2{15, 0}, Radius: 5},
		{Center: Vec2{30, 40}, Radius: 1},
		{Center: Vec2{-3, 4}, Radius: 0},
		{Center: Vec2{100, 100}, Radius: 200},
	}
	for i, a := range circles {
		if !a.Overlaps(a) {
			t.Fatalf("circle %d does not overlap itself", i)
		}
		for j, b := range circles {
			if a.Overlaps(b) != b.Overlaps(a) {
				t.Fatalf("overlap(%d,%d) != overlap(%d,%d)", i, j, j, i)
			}
		}
	}
}

func TestCircleOverlapsBoundaryInclusive(t *testing.T) {
	a := Circle{Center: Vec2{0, 0}, Radius: 4}
	b := Circle{Center: Vec2{10, 0}, Radius: 6}
	if !a.Overlaps(b) {
		t.Fatalf("touching circles should overlap")
	}
	b.Center.X = 10.001
	if a.Overlaps(b) {
		t.Fatalf("separated circles should not overlap")
	}
}

func TestBoundsStrictContainment(t *testing.T) {
	b := Bounds{TopLeft: Vec2{0, 0}, Width: 100, Height: 50}

	if !b.Contains(Vec2{50, 25}) {
		t.Fatalf("centre should be inside")
	}
	for _, p := range []Vec2{{0, 25}, {100, 25}, {50, 0}, {50, 50}} {
		if b.Contains(p) {
			t.Fatalf("edge point %v should be outside", p)
		}
	}

	if !b.ContainsCircle(Circle{Center: Vec2{50, 25}, Radius: 10}) {
		t.Fatalf("small circle should be inside")
	}
	if b.ContainsCircle(Circle{Center: Vec2{95, 25}, Radius: 5}) {
		t.Fatalf("circle touching the edge should be outside")
	}
}

func TestGrowMatchesEatingFormula(t *testing.T) {
	for _, r := range []float64{0, 1, 5, 20, 40, 123.5} {
		b := Blob{Size: 40}
		b.Eat(r)
		if want := grow(40, r); b.Size != want {
			t.Fatalf("eat(%v) = %v, want %v", r, b.Size, want)
		}
	}
}
