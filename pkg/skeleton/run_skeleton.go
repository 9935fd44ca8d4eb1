package skeleton

import (
	"sort"

	"github.com/0x0FACED/go-skeleton/pkg/logger"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"
)

// Прямой скелет набора полигонов. Строится один раз (дорогая фаза),
// после чего реконструкция буфера на любом расстоянии - дешевый
// повтор записанного таймлайна плюс чтение позиций с осей.
type Skeleton struct {
	rayVector  []vertexRecord
	eventQueue []event
	initial    VertexQueue
}

// Рабочее состояние симуляции. Живет только внутри CreateSkeleton.
type skel struct {
	rays   []vertexRecord
	events []event
	vq     *VertexQueue
	pq     priorityQueue
	orient bool
	logger *logger.ZapLogger
}

// Основная функция - база
// Симуляция волнового фронта: вершины скользят по своим осям,
// события схлопывания и разреза перестраивают топологию, примененные
// события записываются в таймлайн.
func CreateSkeleton(polys []orb.Polygon, orient bool, log *logger.ZapLogger) *Skeleton {
	s := &skel{
		rays:   initializeFromPolygons(polys, orient),
		vq:     &VertexQueue{},
		orient: orient,
		logger: log,
	}
	s.vq.initializeFromPolygons(polys)
	initial := s.vq.clone()

	log.Info("[skel] Симуляция запущена", zap.Int("vertexes", len(s.rays)), zap.Bool("orient", orient))

	// начальная очередь: shrink для каждой пары соседей,
	// split для каждой рефлексной вершины
	for _, slot := range s.vq.slots() {
		s.makeShrinkEvent(slot.ptr, true)
		s.makeSplitEvent(slot.ptr)
	}

	log.Info("[skel] Начальная очередь собрана", zap.Int("events", s.pq.len()))

	var counter int
	for {
		ev, ok := s.pq.pop()
		if !ok {
			break
		}
		log.Info("[skel-for] ===============================================================================================")
		log.Info("[skel-for] Текущая итерация", zap.Int("c", counter), zap.Int("queue", s.pq.len()), zap.Float64("time", ev.time()))
		counter++
		if ev.split != nil {
			s.handleSplit(ev.split)
		} else {
			s.handleShrink(ev.shrink)
		}
		s.vq.cleanup()
	}

	log.Info("[skel] Симуляция завершена", zap.Int("events", len(s.events)), zap.Int("vertexes", len(s.rays)))

	return &Skeleton{
		rayVector:  s.rays,
		eventQueue: s.events,
		initial:    *initial,
	}
}

// Схлопывание ребра: соседние вершины встречаются, рождается одна
// общая вершина фронта с осью-биссектрисой внешних ребер пары.
func (s *skel) handleShrink(ev *shrinkEvent) {
	// событие могло протухнуть: узел уже удален или перепривязан
	if s.vq.content[ev.leftVertex.getIndex()].done ||
		s.vq.content[ev.rightVert.getIndex()].done ||
		s.vq.getRealIndex(ev.leftVertex) != ev.leftReal ||
		s.vq.getRealIndex(ev.rightVert) != ev.rightReal {
		s.logger.Info("[skel-shrink] Протухшее событие пропущено", zap.Int("left", ev.leftReal), zap.Int("right", ev.rightReal))
		return
	}
	newIndex := len(s.rays)
	leftRay, _ := baseRaysOf(s.rays[ev.leftReal])
	_, rightRay := baseRaysOf(s.rays[ev.rightReal])
	setParent(s.rays[ev.leftReal], newIndex)
	setParent(s.rays[ev.rightReal], newIndex)
	newEvent := vertexEvent{
		t:         ev.t,
		mergeFrom: ev.leftVertex,
		mergeTo:   realIndex(newIndex),
	}
	s.rays = append(s.rays, newTreeVertex(ev.location, leftRay, rightRay, s.orient))

	s.logger.Info("[skel-shrink] Схлопывание", zap.Int("left", ev.leftReal), zap.Int("right", ev.rightReal), zap.Int("new", newIndex), zap.Float64("time", ev.t))

	first, _, n := applyEvent(s.vq, newEvent)
	if n != 1 {
		panic("skeleton: vertex event must yield a single survivor")
	}
	if first.real {
		// петля схлопнулась в точку: оставшаяся вершина тоже
		// заканчивается здесь, новая запись становится корнем
		s.logger.Info("[skel-shrink] Петля схлопнулась", zap.Int("other", first.getRealIndex()))
		setParent(s.rays[first.getRealIndex()], newIndex)
		s.rays[newIndex] = newRootVertex(s.rays[newIndex].location(), s.rays[newIndex].timeElapsed())
	} else {
		s.makeShrinkEvent(first, false)
	}
	s.events = append(s.events, newEvent)
}

// Разрез: рефлексная вершина врезается в противоположное ребро,
// петля распадается на две. Геометрия пересчитывается заново и
// должна совпасть с тем, что лежало в очереди, иначе событие протухло.
func (s *skel) handleSplit(ev *splitEvent) {
	if s.vq.content[ev.anchorVert.getIndex()].done ||
		s.vq.getRealIndex(ev.anchorVert) != ev.anchorReal {
		s.logger.Info("[skel-split] Протухшее событие пропущено", zap.Int("anchor", ev.anchorReal))
		return
	}
	s.vq.cleanup()
	cands := s.findSplitVertex(ev.anchorVert, false)
	if len(cands) != 1 || !equalWithEpsilon(cands[0].dist, ev.t) || !cands[0].loc.equal(ev.location) {
		s.logger.Info("[skel-split] Кандидат не подтвердился", zap.Int("anchor", ev.anchorReal), zap.Int("candidates", len(cands)))
		return
	}
	target := cands[0]
	newIndex1 := len(s.rays)
	newIndex2 := newIndex1 + 1
	anchorLeft, anchorRight := baseRaysOf(s.rays[ev.anchorReal])
	_, targetRight := baseRaysOf(s.rays[target.svReal])
	s.rays = append(s.rays,
		newTreeVertex(ev.location, anchorLeft, targetRight, s.orient),
		newTreeVertex(ev.location, targetRight.Reverse(), anchorRight, s.orient),
		newSplitVertex(ev.location, s.rays[ev.anchorReal].timeElapsed()),
	)
	newEvent := edgeEvent{
		t:            ev.t,
		splitFrom:    ev.anchorVert,
		splitInto:    target.sv,
		splitToLeft:  realIndex(newIndex1),
		splitToRight: realIndex(newIndex2),
	}

	s.logger.Info("[skel-split] Разрез", zap.Int("anchor", ev.anchorReal), zap.Int("target", target.svReal), zap.Float64("time", ev.t))

	cv1, cv2, n := applyEvent(s.vq, newEvent)
	if n != 2 {
		panic("skeleton: edge event must yield two loops")
	}
	setParent(s.rays[ev.anchorReal], newIndex2+1)
	s.makeShrinkEvent(cv1, false)
	s.makeShrinkEvent(cv2, false)
	s.events = append(s.events, newEvent)
}

// Применить записанное событие к топологии. Общая точка симуляции и
// реконструкции: повтор таймлайна делает ровно те же перестройки.
func applyEvent(vq *VertexQueue, e event) (indexType, indexType, int) {
	switch ev := e.(type) {
	case vertexEvent:
		cv := vq.removeAndSet(ev.mergeFrom, ev.mergeTo)
		if vq.lv(cv) == vq.rv(cv) {
			// петля из двух узлов: обе записи заканчиваются
			lv := vq.lv(cv)
			vq.content[lv.getIndex()].done = true
			vq.content[cv.getIndex()].done = true
			return vq.content[lv.getIndex()].index, indexType{}, 1
		}
		return cv, indexType{}, 1
	case edgeEvent:
		n1, n2 := vq.splitAndSet(ev.splitFrom, ev.splitInto, ev.splitToLeft, ev.splitToRight)
		vq.cleanup()
		return n1, n2, 2
	}
	return indexType{}, indexType{}, 0
}

type splitCandidate struct {
	dist   float64
	loc    Coordinate
	sv     indexType
	svReal int
}

// Поиск ребра, в которое врезается ось рефлексной вершины cv.
// На инициализации (isInit) возвращаются все кандидаты, по ходу
// симуляции - только ближайший.
func (s *skel) findSplitVertex(cv indexType, isInit bool) []splitCandidate {
	var ret []splitCandidate
	cvReal := s.vq.getRealIndex(cv)
	leftRay, rightRay := baseRaysOf(s.rays[cvReal])
	// только рефлексные вершины режут петлю
	if s.orient && lessOrEqualWithEpsilon(leftRay.Angle.outerProduct(rightRay.Angle), 0) {
		return ret
	}
	if !s.orient && greaterOrEqualWithEpsilon(leftRay.Angle.outerProduct(rightRay.Angle), 0) {
		return ret
	}
	cvAxis := axisOf(s.rays[cvReal])

	for _, slot := range s.vq.slots() {
		sv := slot.ptr
		srv := s.vq.rv(sv)
		srvReal := s.vq.getRealIndex(srv)
		// смежные с cv ребра не рассматриваются
		if sv == cv || sv == s.vq.rv(cv) || srv == cv || srv == s.vq.lv(cv) {
			continue
		}
		_, base := baseRaysOf(s.rays[slot.real])
		var leftIntersection, rightIntersection Coordinate
		if !leftRay.IsParallel(base) {
			leftIntersection = leftRay.Intersect(base)
		}
		if !rightRay.IsParallel(base) {
			rightIntersection = rightRay.Intersect(base)
		}
		var realIntersection Coordinate
		if leftRay.IsParallel(base) {
			riRay := rightRay.Bisector(base.Reverse(), rightIntersection, !s.orient)
			if !riRay.IsIntersect(cvAxis) {
				continue
			}
			realIntersection = riRay.Intersect(cvAxis)
		} else {
			liRay := leftRay.Bisector(base, leftIntersection, s.orient)
			if !liRay.IsIntersect(cvAxis) {
				continue
			}
			realIntersection = liRay.Intersect(cvAxis)
		}
		if isInit {
			if s.orient && base.Orientation(realIntersection) < 0 {
				continue
			}
			if !s.orient && base.Orientation(realIntersection) > 0 {
				continue
			}
		} else if s.orient {
			if axisOf(s.rays[slot.real]).Orientation(realIntersection) >= 0 {
				continue
			}
			if base.Orientation(realIntersection) < 0 {
				continue
			}
			if axisOf(s.rays[srvReal]).Orientation(realIntersection) < 0 {
				continue
			}
		} else {
			if axisOf(s.rays[slot.real]).Orientation(realIntersection) <= 0 {
				continue
			}
			if base.Orientation(realIntersection) > 0 {
				continue
			}
			if axisOf(s.rays[srvReal]).Orientation(realIntersection) > 0 {
				continue
			}
		}
		ret = append(ret, splitCandidate{
			dist:   realIntersection.DistRay(rightRay),
			loc:    realIntersection,
			sv:     sv,
			svReal: slot.real,
		})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].dist != ret[j].dist {
			return ret[i].dist < ret[j].dist
		}
		if ret[i].loc.X != ret[j].loc.X {
			return ret[i].loc.X < ret[j].loc.X
		}
		if ret[i].loc.Y != ret[j].loc.Y {
			return ret[i].loc.Y < ret[j].loc.Y
		}
		return ret[i].svReal < ret[j].svReal
	})
	if !isInit && len(ret) > 1 {
		ret = ret[:1]
	}
	return ret
}

func (s *skel) makeSplitEvent(cv indexType) {
	cands := s.findSplitVertex(cv, true)
	cvReal := s.vq.getRealIndex(cv)
	for _, c := range cands {
		s.pq.insert(simEvent{split: &splitEvent{
			t:          c.dist,
			location:   c.loc,
			anchorVert: cv,
			anchorReal: cvReal,
		}})
	}
}

// Кандидаты на схлопывание: пара (cv, rv(cv)), а после перестроек
// еще и пара (lv(cv), cv). Пересечение осей должно лежать впереди
// по обоим лучам, иначе вершины расходятся.
func (s *skel) makeShrinkEvent(cv indexType, isInit bool) {
	if s.vq.rv(cv) == s.vq.lv(cv) {
		return
	}
	lv := cv
	for i := 0; i < 2; i++ {
		rv := s.vq.rv(lv)
		lvReal := s.vq.getRealIndex(lv)
		rvReal := s.vq.getRealIndex(rv)
		lvRay := axisOf(s.rays[lvReal])
		rvRay := axisOf(s.rays[rvReal])
		if lvRay.IsIntersect(rvRay) {
			cp := lvRay.Intersect(rvRay)
			leftBase, _ := baseRaysOf(s.rays[lvReal])
			s.pq.insert(simEvent{shrink: &shrinkEvent{
				t:          cp.DistRay(leftBase),
				location:   cp,
				leftVertex: lv,
				rightVert:  rv,
				leftReal:   lvReal,
				rightReal:  rvReal,
				tieBreak:   lvRay.Origin.DistCoord(rvRay.Origin),
			}})
		}
		if isInit {
			break
		}
		lv = s.vq.lv(cv)
	}
}

// Топология фронта на момент time: повтор записанного таймлайна
// поверх копии начальной очереди.
func (s *Skeleton) VertexQueueAt(time float64) *VertexQueue {
	ret := s.initial.clone()
	for _, e := range s.eventQueue {
		if e.time() > time {
			break
		}
		applyEvent(ret, e)
		ret.cleanup()
	}
	return ret
}

// Чтение буфера: каждая живая вершина очереди проецируется на свою
// ось на остаток пути, петли замыкаются в кольца. Кольца против
// часовой - внешние контуры, по часовой - дырки, раскладываются
// по вложенности.
func (s *Skeleton) ApplyVertexQueue(vq *VertexQueue, offsetDistance float64) orb.MultiPolygon {
	var rings []orb.Ring
	var cur orb.Ring
	curLoop := -1
	for _, slot := range vq.slots() {
		if slot.loop != curLoop {
			if curLoop >= 0 {
				rings = append(rings, closeRing(cur))
			}
			curLoop = slot.loop
			cur = nil
		}
		rec := s.rayVector[slot.real]
		crd := axisOf(rec).PointByRatio(offsetDistance - rec.timeElapsed())
		cur = append(cur, orb.Point{crd.X, crd.Y})
	}
	if curLoop >= 0 {
		rings = append(rings, closeRing(cur))
	}

	var res orb.MultiPolygon
	for _, r := range rings {
		if r.Orientation() == orb.CCW {
			res = append(res, orb.Polygon{r})
		}
	}
	for _, r := range rings {
		if r.Orientation() != orb.CW {
			continue
		}
		for i := range res {
			if planar.RingContains(res[i][0], r[0]) {
				res[i] = append(res[i], r)
				break
			}
		}
	}
	return res
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}
