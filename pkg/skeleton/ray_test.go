package skeleton

import (
	"math"
	"testing"
)

func coordAlmostEqual(t *testing.T, got, want Coordinate) {
	t.Helper()
	if math.Abs(got.X-want.X) > testEps || math.Abs(got.Y-want.Y) > testEps {
		t.Fatalf("coordinate = %v, want %v", got, want)
	}
}

func TestNewRayUnitAngle(t *testing.T) {
	r := NewRay(Coordinate{1, 1}, Coordinate{4, 5})
	if math.Abs(r.Angle.norm()-1) > testEps {
		t.Fatalf("angle norm = %v, want 1", r.Angle.norm())
	}
	coordAlmostEqual(t, r.Angle, Coordinate{0.6, 0.8})
}

func TestRayIntersect(t *testing.T) {
	r := NewRay(Coordinate{0, 0}, Coordinate{1, 0})
	o := NewRay(Coordinate{2, -1}, Coordinate{2, 1})
	if !r.IsIntersect(o) {
		t.Fatal("rays must intersect")
	}
	coordAlmostEqual(t, r.Intersect(o), Coordinate{2, 0})
}

func TestRayIsIntersectBehind(t *testing.T) {
	// несущие прямые пересекаются, но точка лежит позади первого луча
	r := NewRay(Coordinate{0, 0}, Coordinate{1, 0})
	o := NewRay(Coordinate{-2, -1}, Coordinate{-2, 1})
	if r.IsIntersect(o) {
		t.Fatal("intersection behind the ray origin must not count")
	}
	if !r.Reverse().IsIntersect(o) {
		t.Fatal("reversed ray must see the intersection")
	}
}

func TestRayIsIntersectParallel(t *testing.T) {
	r := NewRay(Coordinate{0, 0}, Coordinate{1, 0})
	o := NewRay(Coordinate{0, 1}, Coordinate{1, 1})
	if r.IsIntersect(o) {
		t.Fatal("parallel rays must not intersect")
	}
}

func TestRayOrientation(t *testing.T) {
	r := NewRay(Coordinate{0, 0}, Coordinate{1, 0})
	if got := r.Orientation(Coordinate{5, 1}); got != 1 {
		t.Fatalf("left point orientation = %d, want 1", got)
	}
	if got := r.Orientation(Coordinate{5, -1}); got != -1 {
		t.Fatalf("right point orientation = %d, want -1", got)
	}
	if got := r.Orientation(Coordinate{5, 0}); got != 0 {
		t.Fatalf("collinear point orientation = %d, want 0", got)
	}
}

func TestBisectorRightAngle(t *testing.T) {
	// выпуклый угол квадрата: биссектриса при сжатии идет внутрь
	left := NewRay(Coordinate{0, 0}, Coordinate{0, 1})
	right := NewRay(Coordinate{0, 0}, Coordinate{1, 0})

	in := left.Bisector(right, Coordinate{0, 0}, true)
	coordAlmostEqual(t, in.Angle, Coordinate{math.Sqrt2 / 2, math.Sqrt2 / 2})

	out := left.Bisector(right, Coordinate{0, 0}, false)
	coordAlmostEqual(t, out.Angle, Coordinate{-math.Sqrt2 / 2, -math.Sqrt2 / 2})
}

func TestBisectorParallelFronts(t *testing.T) {
	// встречные параллельные фронты: нормали гасятся, вершина скользит
	// вдоль фронта
	left := Ray{Origin: Coordinate{0, 0}, Angle: Coordinate{0, 1}}
	right := Ray{Origin: Coordinate{1, 0}, Angle: Coordinate{0, 1}}

	b := left.Bisector(right, Coordinate{0.5, 0.5}, true)
	coordAlmostEqual(t, b.Angle, Coordinate{0, 1})
}

func TestDistRay(t *testing.T) {
	r := NewRay(Coordinate{0, 0}, Coordinate{1, 0})
	if got := (Coordinate{3, 2}).DistRay(r); math.Abs(got-2) > testEps {
		t.Fatalf("dist = %v, want 2", got)
	}
	// расстояние считается до несущей прямой, не до отрезка
	if got := (Coordinate{-3, 2}).DistRay(r); math.Abs(got-2) > testEps {
		t.Fatalf("dist = %v, want 2", got)
	}
}

func TestPointByRatioScaledAxis(t *testing.T) {
	axis := Ray{Origin: Coordinate{0, 0}, Angle: Coordinate{1, 1}}
	coordAlmostEqual(t, axis.PointByRatio(0.2), Coordinate{0.2, 0.2})
}
