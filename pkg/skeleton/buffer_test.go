package skeleton

import (
	"math"
	"reflect"
	"testing"

	"github.com/0x0FACED/go-skeleton/pkg/logger"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const testEps = 1e-6

func square(x0, y0, side float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{x0, y0}, {x0 + side, y0}, {x0 + side, y0 + side}, {x0, y0 + side}, {x0, y0},
	}}
}

func pointsAlmostEqual(a, b orb.Point) bool {
	return math.Abs(a.X()-b.X()) < testEps && math.Abs(a.Y()-b.Y()) < testEps
}

func ringAlmostEqual(t *testing.T, got, want orb.Ring) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ring length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range got {
		if !pointsAlmostEqual(got[i], want[i]) {
			t.Fatalf("ring[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func ringBounds(r orb.Ring) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range r {
		minX = math.Min(minX, p.X())
		minY = math.Min(minY, p.Y())
		maxX = math.Max(maxX, p.X())
		maxY = math.Max(maxY, p.Y())
	}
	return
}

func TestBufferPolygonDeflateSquare(t *testing.T) {
	res := BufferPolygon(square(0, 0, 1), -0.2)

	if len(res) != 1 {
		t.Fatalf("polygons = %d, want 1", len(res))
	}
	if len(res[0]) != 1 {
		t.Fatalf("rings = %d, want 1", len(res[0]))
	}
	ringAlmostEqual(t, res[0][0], orb.Ring{
		{0.2, 0.2}, {0.8, 0.2}, {0.8, 0.8}, {0.2, 0.8}, {0.2, 0.2},
	})
}

func TestBufferPolygonInflateSquare(t *testing.T) {
	res := BufferPolygon(square(0, 0, 4), 0.5)

	if len(res) != 1 || len(res[0]) != 1 {
		t.Fatalf("unexpected result shape: %v", res)
	}
	ringAlmostEqual(t, res[0][0], orb.Ring{
		{-0.5, -0.5}, {4.5, -0.5}, {4.5, 4.5}, {-0.5, 4.5}, {-0.5, -0.5},
	})
}

func TestBufferPolygonZeroDistance(t *testing.T) {
	res := BufferPolygon(square(0, 0, 4), 0)

	if len(res) != 1 || len(res[0]) != 1 {
		t.Fatalf("unexpected result shape: %v", res)
	}
	ringAlmostEqual(t, res[0][0], square(0, 0, 4)[0])
}

func TestBufferPolygonOverDeflate(t *testing.T) {
	// квадрат полностью схлопывается раньше, чем фронт дойдет до 0.6
	res := BufferPolygon(square(0, 0, 1), -0.6)

	if len(res) != 0 {
		t.Fatalf("polygons = %d, want 0 (%v)", len(res), res)
	}
}

func TestBufferPolygonDeflateAtCollapseTime(t *testing.T) {
	res := BufferPolygon(square(0, 0, 1), -0.5)

	if len(res) != 0 {
		t.Fatalf("polygons = %d, want 0 (%v)", len(res), res)
	}
}

func TestBufferPolygonSplit(t *testing.T) {
	// невыпуклый контур: при сжатии вершина (2,1) врезается в нижнее
	// ребро и контур распадается на две части
	arrow := orb.Polygon{orb.Ring{
		{0, 0}, {4, 0}, {4, 4}, {2, 1}, {0, 4}, {0, 0},
	}}
	res := BufferPolygon(arrow, -0.45)

	if len(res) != 2 {
		t.Fatalf("polygons = %d, want 2 (%v)", len(res), res)
	}
	for i, p := range res {
		if len(p) != 1 {
			t.Fatalf("polygon %d has %d rings, want 1", i, len(p))
		}
		if p[0].Orientation() != orb.CCW {
			t.Fatalf("polygon %d exterior is not counter-clockwise", i)
		}
		if planar.Area(p) <= 0 {
			t.Fatalf("polygon %d has non-positive area", i)
		}
	}
}

func TestBufferMultiPolygonMerge(t *testing.T) {
	// два квадрата с зазором 1: при раздувании на 0.9 фронты
	// сталкиваются и контуры сливаются в один
	mp := orb.MultiPolygon{square(0, 0, 2), square(3, 0, 2)}
	res := BufferMultiPolygon(mp, 0.9)

	if len(res) != 1 {
		t.Fatalf("polygons = %d, want 1 (%v)", len(res), res)
	}
	if len(res[0]) != 1 {
		t.Fatalf("rings = %d, want 1", len(res[0]))
	}
	minX, minY, maxX, maxY := ringBounds(res[0][0])
	if math.Abs(minX+0.9) > testEps || math.Abs(minY+0.9) > testEps ||
		math.Abs(maxX-5.9) > testEps || math.Abs(maxY-2.9) > testEps {
		t.Fatalf("bounds = (%v %v %v %v), want (-0.9 -0.9 5.9 2.9)", minX, minY, maxX, maxY)
	}
	if area := planar.Area(res[0]); math.Abs(area-6.8*3.8) > testEps {
		t.Fatalf("area = %v, want %v", area, 6.8*3.8)
	}
}

func TestBufferPolygonWithHole(t *testing.T) {
	p := orb.Polygon{
		orb.Ring{{0, 0}, {6, 0}, {6, 6}, {0, 6}, {0, 0}},
		orb.Ring{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}},
	}
	res := BufferPolygon(p, 0.5)

	if len(res) != 1 {
		t.Fatalf("polygons = %d, want 1 (%v)", len(res), res)
	}
	if len(res[0]) != 2 {
		t.Fatalf("rings = %d, want exterior and hole", len(res[0]))
	}
	ringAlmostEqual(t, res[0][0], orb.Ring{
		{-0.5, -0.5}, {6.5, -0.5}, {6.5, 6.5}, {-0.5, 6.5}, {-0.5, -0.5},
	})
	// дырка сжимается внутрь
	ringAlmostEqual(t, res[0][1], orb.Ring{
		{2.5, 2.5}, {2.5, 3.5}, {3.5, 3.5}, {3.5, 2.5}, {2.5, 2.5},
	})
	if res[0][1].Orientation() != orb.CW {
		t.Fatal("hole ring is not clockwise")
	}
}

func TestBufferPolygonNormalizesWinding(t *testing.T) {
	// тот же квадрат, но обход по часовой: результат не должен зависеть
	// от направления обхода входа
	cw := orb.Polygon{orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}}
	res := BufferPolygon(cw, -0.2)

	if len(res) != 1 || len(res[0]) != 1 {
		t.Fatalf("unexpected result shape: %v", res)
	}
	minX, minY, maxX, maxY := ringBounds(res[0][0])
	if math.Abs(minX-0.2) > testEps || math.Abs(minY-0.2) > testEps ||
		math.Abs(maxX-0.8) > testEps || math.Abs(maxY-0.8) > testEps {
		t.Fatalf("bounds = (%v %v %v %v), want (0.2 0.2 0.8 0.8)", minX, minY, maxX, maxY)
	}
}

func TestBufferPolygonDoesNotMutateInput(t *testing.T) {
	cw := orb.Polygon{orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}}
	want := orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}

	BufferPolygon(cw, -0.2)

	if !reflect.DeepEqual(cw[0], want) {
		t.Fatalf("input ring was mutated: %v", cw[0])
	}
}

func TestBufferPolygonRoundTrip(t *testing.T) {
	res := BufferPolygon(square(0, 0, 4), 0.5)
	if len(res) != 1 {
		t.Fatalf("inflate result: %v", res)
	}
	back := BufferPolygon(res[0], -0.5)

	if len(back) != 1 || len(back[0]) != 1 {
		t.Fatalf("unexpected round trip shape: %v", back)
	}
	ringAlmostEqual(t, back[0][0], square(0, 0, 4)[0])
}

func TestBufferPolygonRoundTripHexagon(t *testing.T) {
	hex := make(orb.Ring, 0, 7)
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		hex = append(hex, orb.Point{2 * math.Cos(a), 2 * math.Sin(a)})
	}
	hex = append(hex, hex[0])

	res := BufferPolygon(orb.Polygon{hex}, 0.5)
	if len(res) != 1 {
		t.Fatalf("inflate result: %v", res)
	}
	back := BufferPolygon(res[0], -0.5)

	if len(back) != 1 || len(back[0]) != 1 {
		t.Fatalf("unexpected round trip shape: %v", back)
	}
	ringAlmostEqual(t, back[0][0], hex)
}

// Сегменты пересекаются "по-настоящему": строго по разные стороны
// друг от друга. Касания, общие концы и коллинеарные наложения
// пересечением не считаются.
func properCross(a, b, c, d orb.Point) bool {
	sign := func(p, q, r orb.Point) int {
		cross := (q.X()-p.X())*(r.Y()-p.Y()) - (q.Y()-p.Y())*(r.X()-p.X())
		if math.Abs(cross) < testEps {
			return 0
		}
		if cross > 0 {
			return 1
		}
		return -1
	}
	return sign(a, b, c)*sign(a, b, d) < 0 && sign(c, d, a)*sign(c, d, b) < 0
}

func ringIsSimple(r orb.Ring) bool {
	n := len(r) - 1 // кольцо замкнуто
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if properCross(r[i], r[i+1], r[j], r[j+1]) {
				return false
			}
		}
	}
	return true
}

func TestBufferOutputsAreSimpleAndWellOriented(t *testing.T) {
	arrow := orb.Polygon{orb.Ring{
		{0, 0}, {4, 0}, {4, 4}, {2, 1}, {0, 4}, {0, 0},
	}}
	withHole := orb.Polygon{
		orb.Ring{{0, 0}, {6, 0}, {6, 6}, {0, 6}, {0, 0}},
		orb.Ring{{2, 2}, {2, 4}, {4, 4}, {4, 2}, {2, 2}},
	}
	cases := []struct {
		name     string
		input    orb.MultiPolygon
		distance float64
	}{
		{"deflate square", orb.MultiPolygon{square(0, 0, 1)}, -0.2},
		{"deflate arrow", orb.MultiPolygon{arrow}, -0.45},
		{"merge two squares", orb.MultiPolygon{square(0, 0, 2), square(3, 0, 2)}, 0.9},
		{"inflate square with hole", orb.MultiPolygon{withHole}, 0.5},
	}

	for _, tc := range cases {
		res := BufferMultiPolygon(tc.input, tc.distance)
		if len(res) == 0 {
			t.Fatalf("%s: empty result", tc.name)
		}
		for i, p := range res {
			if p[0].Orientation() != orb.CCW {
				t.Errorf("%s: polygon %d exterior is not counter-clockwise", tc.name, i)
			}
			for j, ring := range p {
				if j > 0 && ring.Orientation() != orb.CW {
					t.Errorf("%s: polygon %d hole %d is not clockwise", tc.name, i, j)
				}
				if !ringIsSimple(ring) {
					t.Errorf("%s: polygon %d ring %d self-intersects", tc.name, i, j)
				}
			}
		}
	}
}

func TestBufferPolygonDeterministic(t *testing.T) {
	arrow := orb.Polygon{orb.Ring{
		{0, 0}, {4, 0}, {4, 4}, {2, 1}, {0, 4}, {0, 0},
	}}
	first := BufferPolygon(arrow, -0.45)
	second := BufferPolygon(arrow, -0.45)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between runs:\n%v\n%v", first, second)
	}
}

func TestSkeletonReplayAtSeveralDistances(t *testing.T) {
	// дорогая фаза один раз, реконструкция на нескольких расстояниях
	polys := normalizePolygons(orb.MultiPolygon{square(0, 0, 1)})
	sk := CreateSkeleton(polys, true, logger.Nop())

	for _, d := range []float64{0.1, 0.2, 0.3} {
		vq := sk.VertexQueueAt(d)
		res := sk.ApplyVertexQueue(vq, d)
		if len(res) != 1 {
			t.Fatalf("d=%v: polygons = %d, want 1", d, len(res))
		}
		if area, want := planar.Area(res[0]), (1-2*d)*(1-2*d); math.Abs(area-want) > testEps {
			t.Fatalf("d=%v: area = %v, want %v", d, area, want)
		}
	}

	if vq := sk.VertexQueueAt(0.7); len(sk.ApplyVertexQueue(vq, 0.7)) != 0 {
		t.Fatal("expected empty result past the collapse time")
	}
}
