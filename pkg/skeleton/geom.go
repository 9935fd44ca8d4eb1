package skeleton

import (
	"math"
)

// Координата на плоскости. Используется и для позиций вершин,
// и для точек событий, и для направляющих векторов лучей.
type Coordinate struct {
	X float64
	Y float64
}

func (c Coordinate) add(o Coordinate) Coordinate {
	return Coordinate{c.X + o.X, c.Y + o.Y}
}

func (c Coordinate) sub(o Coordinate) Coordinate {
	return Coordinate{c.X - o.X, c.Y - o.Y}
}

func (c Coordinate) scale(k float64) Coordinate {
	return Coordinate{c.X * k, c.Y * k}
}

// Векторное (косое) произведение. Знак говорит, с какой стороны
// от вектора c лежит вектор o.
func (c Coordinate) outerProduct(o Coordinate) float64 {
	return c.X*o.Y - c.Y*o.X
}

func (c Coordinate) norm() float64 {
	return math.Hypot(c.X, c.Y)
}

func (c Coordinate) normalize() Coordinate {
	n := c.norm()
	return Coordinate{c.X / n, c.Y / n}
}

// Поворот на 90 градусов против часовой стрелки.
func (c Coordinate) rot90() Coordinate {
	return Coordinate{-c.Y, c.X}
}

// Евклидово расстояние до другой точки.
func (c Coordinate) DistCoord(o Coordinate) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}

// Расстояние от точки до прямой, на которой лежит луч.
func (c Coordinate) DistRay(r Ray) float64 {
	return math.Abs(r.Angle.normalize().outerProduct(c.sub(r.Origin)))
}

func (c Coordinate) equal(o Coordinate) bool {
	return equalWithEpsilon(c.X, o.X) && equalWithEpsilon(c.Y, o.Y)
}

const eps = 1e-9

func equalWithEpsilon(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func lessThanWithEpsilon(a, b float64) bool {
	return b-a > eps
}

func greaterThanWithEpsilon(a, b float64) bool {
	return a-b > eps
}

func lessOrEqualWithEpsilon(a, b float64) bool {
	return !greaterThanWithEpsilon(a, b)
}

func greaterOrEqualWithEpsilon(a, b float64) bool {
	return !lessThanWithEpsilon(a, b)
}
