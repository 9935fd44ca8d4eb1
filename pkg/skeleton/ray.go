package skeleton

import (
	"math"
)

// Направленный луч: точка привязки + направляющий вектор.
// Лучи у нас двух сортов: "опорные" лучи вдоль ребер полигона
// (единичное направление) и оси движения вершин волнового фронта,
// у которых Angle отмасштабирован так, что PointByRatio(t) дает позицию
// вершины после t единиц сдвига фронта.
type Ray struct {
	Origin Coordinate
	Angle  Coordinate
}

// Луч из src в сторону dst с единичным направлением.
func NewRay(src, dst Coordinate) Ray {
	return Ray{Origin: src, Angle: dst.sub(src).normalize()}
}

func (r Ray) PointByRatio(t float64) Coordinate {
	return r.Origin.add(r.Angle.scale(t))
}

func (r Ray) Reverse() Ray {
	return Ray{Origin: r.Origin, Angle: r.Angle.scale(-1)}
}

// (Квази-)параллельность проверяется через косое произведение
// нормированных направлений, а не через точный ноль.
func (r Ray) IsParallel(o Ray) bool {
	return math.Abs(r.Angle.normalize().outerProduct(o.Angle.normalize())) < eps
}

// Параметры точки пересечения прямых, несущих оба луча,
// в единицах Angle каждого луча.
func (r Ray) intersectParams(o Ray) (float64, float64) {
	d := o.Origin.sub(r.Origin)
	den := r.Angle.outerProduct(o.Angle)
	return d.outerProduct(o.Angle) / den, d.outerProduct(r.Angle) / den
}

// Точка пересечения несущих прямых. Для параллельных лучей не определена,
// вызывающий обязан сначала проверить IsParallel/IsIntersect.
func (r Ray) Intersect(o Ray) Coordinate {
	t, _ := r.intersectParams(o)
	return r.PointByRatio(t)
}

// Пересекаются ли лучи именно как лучи: точка пересечения должна лежать
// впереди по ходу обоих. Без этой проверки расходящиеся оси соседних
// вершин давали бы ложные события "позади" фронта.
func (r Ray) IsIntersect(o Ray) bool {
	if r.IsParallel(o) {
		return false
	}
	t1, t2 := r.intersectParams(o)
	return t1 >= -eps && t2 >= -eps
}

// С какой стороны от луча лежит точка: +1 слева, -1 справа, 0 на прямой.
func (r Ray) Orientation(p Coordinate) int {
	c := r.Angle.normalize().outerProduct(p.sub(r.Origin))
	if math.Abs(c) < eps {
		return 0
	}
	if c > 0 {
		return 1
	}
	return -1
}

// Биссектриса двух опорных лучей, привязанная к origin.
// r играет роль "левого" ребра (направлен назад по обходу),
// o - "правого" (направлен вперед). Направление складывается из
// внутренних нормалей обоих ребер, поэтому выпуклые и рефлексные
// вершины обрабатываются единообразно; orient=false разворачивает
// результат наружу (режим раздувания).
func (r Ray) Bisector(o Ray, origin Coordinate, orient bool) Ray {
	a1 := r.Angle.normalize()
	a2 := o.Angle.normalize()
	n := a1.scale(-1).rot90().add(a2.rot90())
	if n.norm() < eps {
		// Встречные параллельные фронты: нормали гасят друг друга,
		// и вершина-стык скользит вдоль самих фронтов.
		return Ray{Origin: origin, Angle: a1.add(a2).normalize()}
	}
	dir := n.normalize()
	if !orient {
		dir = dir.scale(-1)
	}
	return Ray{Origin: origin, Angle: dir}
}
