package skeleton

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Запись о вершине волнового фронта. Записи складываются в арену
// только добавлением: история никогда не мутируется и не удаляется,
// благодаря этому скелет можно "проигрывать" на любое расстояние.
//
// Вариантов три:
//   - treeVertex: живая (или историческая) вершина фронта;
//   - splitVertex: отметка вершины, в которой случился сплит;
//   - rootVertex: терминальная вершина полностью схлопнувшейся петли.
type vertexRecord interface {
	location() Coordinate
	timeElapsed() float64
}

type treeVertex struct {
	// ось движения вершины; Angle отмасштабирован так,
	// что параметр оси равен пройденному расстоянию сдвига
	axis Ray
	// опорные ребра полигона слева и справа от вершины
	leftRay  Ray
	rightRay Ray
	// в какую запись вершина влилась при merge/split (-1, пока жива)
	parent  int
	elapsed float64
}

func (v *treeVertex) location() Coordinate { return v.axis.Origin }
func (v *treeVertex) timeElapsed() float64 { return v.elapsed }

type splitVertex struct {
	loc     Coordinate
	elapsed float64
}

func (v *splitVertex) location() Coordinate { return v.loc }
func (v *splitVertex) timeElapsed() float64 { return v.elapsed }

type rootVertex struct {
	loc     Coordinate
	elapsed float64
}

func (v *rootVertex) location() Coordinate { return v.loc }
func (v *rootVertex) timeElapsed() float64 { return v.elapsed }

// Ось живой вершины. Вызов на splitVertex/rootVertex - нарушение
// контракта, как и в остальных unwrap-хелперах ниже.
func axisOf(v vertexRecord) Ray {
	t, ok := v.(*treeVertex)
	if !ok {
		panic(fmt.Sprintf("skeleton: expected treeVertex, got %T", v))
	}
	return t.axis
}

func baseRaysOf(v vertexRecord) (Ray, Ray) {
	t, ok := v.(*treeVertex)
	if !ok {
		panic(fmt.Sprintf("skeleton: expected treeVertex, got %T", v))
	}
	return t.leftRay, t.rightRay
}

func setParent(v vertexRecord, parent int) {
	t, ok := v.(*treeVertex)
	if !ok {
		panic(fmt.Sprintf("skeleton: expected treeVertex, got %T", v))
	}
	t.parent = parent
}

// Стартовая вершина фронта для тройки соседних вершин кольца.
// Ось - биссектриса двух смежных ребер; масштабируем ее так, чтобы
// единица параметра соответствовала единице сдвига фронта
// (делим на перпендикулярную скорость относительно правого ребра).
func initTreeVertex(lv, cv, rv Coordinate, orient bool) *treeVertex {
	r1 := NewRay(cv, lv)
	r2 := NewRay(cv, rv)
	axis := r1.Bisector(r2, cv, orient)
	axis.Angle = axis.Angle.scale(1 / axis.PointByRatio(1).DistRay(r2))
	return &treeVertex{
		axis:     axis,
		leftRay:  r1,
		rightRay: r2,
		parent:   -1,
		elapsed:  0,
	}
}

// Вершина, рожденная событием (merge или split). Опорные ребра приходят
// от вершин-предков, поэтому их несущие прямые всегда совпадают с
// исходными ребрами полигона, а время вершины - это просто расстояние
// от точки рождения до левого ребра.
func newTreeVertex(location Coordinate, leftRay, rightRay Ray, orient bool) *treeVertex {
	axis := leftRay.Bisector(rightRay, location, orient)
	speed := math.Abs(axis.PointByRatio(1).DistRay(leftRay) - axis.PointByRatio(0).DistRay(leftRay))
	if speed >= eps {
		axis.Angle = axis.Angle.scale(1 / speed)
	}
	// если перпендикулярная скорость нулевая (встречные параллельные
	// фронты), оставляем единичное скольжение вдоль фронта
	return &treeVertex{
		axis:     axis,
		leftRay:  leftRay,
		rightRay: rightRay,
		parent:   -1,
		elapsed:  location.DistRay(leftRay),
	}
}

func newSplitVertex(location Coordinate, elapsed float64) *splitVertex {
	return &splitVertex{loc: location, elapsed: elapsed}
}

func newRootVertex(location Coordinate, elapsed float64) *rootVertex {
	return &rootVertex{loc: location, elapsed: elapsed}
}

// Точки кольца без замыкающего дубликата первой точки.
func ringCoords(ring orb.Ring) []Coordinate {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	out := make([]Coordinate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Coordinate{ring[i].X(), ring[i].Y()})
	}
	return out
}

// Одна стартовая запись на каждую вершину каждого кольца (внешние
// контуры и дырки подряд). Порядок обязан совпадать с порядком узлов
// в VertexQueue: i-й узел ссылается на i-ю запись.
func initializeFromPolygons(polys []orb.Polygon, orient bool) []vertexRecord {
	var ret []vertexRecord
	for _, p := range polys {
		for _, ring := range p {
			pts := ringCoords(ring)
			n := len(pts)
			for cur := 0; cur < n; cur++ {
				prv := (cur + n - 1) % n
				nxt := (cur + 1) % n
				ret = append(ret, initTreeVertex(pts[prv], pts[cur], pts[nxt], orient))
			}
		}
	}
	return ret
}
