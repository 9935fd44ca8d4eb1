package skeleton

import (
	"math"

	"github.com/0x0FACED/go-skeleton/pkg/logger"
	"github.com/paulmach/orb"
)

// BufferPolygon строит буфер полигона на заданном расстоянии.
// Положительное расстояние раздувает полигон, отрицательное - сжимает.
// Углы выпуклых вершин получаются острыми (miter).
func BufferPolygon(p orb.Polygon, distance float64) orb.MultiPolygon {
	return BufferMultiPolygon(orb.MultiPolygon{p}, distance)
}

// BufferMultiPolygon строит буфер мультиполигона на заданном
// расстоянии. При сжатии полигоны могут распадаться на части,
// при раздувании - сливаться.
func BufferMultiPolygon(mp orb.MultiPolygon, distance float64) orb.MultiPolygon {
	return BufferMultiPolygonWithLogger(mp, distance, logger.Nop())
}

// BufferMultiPolygonWithLogger - то же самое, но с логом хода
// симуляции для отладки и демо.
func BufferMultiPolygonWithLogger(mp orb.MultiPolygon, distance float64, log *logger.ZapLogger) orb.MultiPolygon {
	orient := distance < 0
	offset := math.Abs(distance)
	polys := normalizePolygons(mp)
	sk := CreateSkeleton(polys, orient, log)
	vq := sk.VertexQueueAt(offset)
	return sk.ApplyVertexQueue(vq, offset)
}

// Вход приводится к каноническому порядку обхода: внешние кольца
// против часовой стрелки, дырки по часовой. Исходные данные не
// трогаем, кольца копируются.
func normalizePolygons(mp orb.MultiPolygon) []orb.Polygon {
	polys := make([]orb.Polygon, 0, len(mp))
	for _, p := range mp {
		np := make(orb.Polygon, 0, len(p))
		for i, ring := range p {
			nr := make(orb.Ring, len(ring))
			copy(nr, ring)
			if i == 0 && nr.Orientation() == orb.CW {
				nr.Reverse()
			}
			if i > 0 && nr.Orientation() == orb.CCW {
				nr.Reverse()
			}
			np = append(np, nr)
		}
		polys = append(polys, np)
	}
	return polys
}
