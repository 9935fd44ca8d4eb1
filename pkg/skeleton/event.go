package skeleton

// Записанное событие таймлайна. Таймлайн воспроизводится как есть:
// при реконструкции повторная геометрия не считается, применяются
// только записанные перестройки топологии.
type event interface {
	time() float64
}

// Схлопывание ребра фронта: узел mergeFrom убирается, его сосед
// перепривязывается на запись mergeTo.
type vertexEvent struct {
	t         float64
	mergeFrom indexType
	mergeTo   indexType
}

func (e vertexEvent) time() float64 { return e.t }

// Разрез петли рефлексной вершиной: узел splitFrom перепривязывается
// на splitToLeft, после splitInto вставляется узел с splitToRight.
type edgeEvent struct {
	t            float64
	splitFrom    indexType
	splitInto    indexType
	splitToLeft  indexType
	splitToRight indexType
}

func (e edgeEvent) time() float64 { return e.t }

// Кандидаты в очереди симуляции. Порядок полностью детерминирован:
// время (с эпсилоном), затем split раньше shrink, затем tieBreak,
// координаты точки и реальные индексы вершин.
const (
	kindSplit = iota
	kindShrink
)

type shrinkEvent struct {
	t          float64
	location   Coordinate
	leftVertex indexType
	rightVert  indexType
	leftReal   int
	rightReal  int
	tieBreak   float64
}

type splitEvent struct {
	t          float64
	location   Coordinate
	anchorVert indexType
	anchorReal int
}

type simEvent struct {
	shrink *shrinkEvent
	split  *splitEvent
}

func (e simEvent) time() float64 {
	if e.split != nil {
		return e.split.t
	}
	return e.shrink.t
}

func (e simEvent) kind() int {
	if e.split != nil {
		return kindSplit
	}
	return kindShrink
}

// Строгое "раньше" для очереди симуляции.
func (e simEvent) less(o simEvent) bool {
	if !equalWithEpsilon(e.time(), o.time()) {
		return e.time() < o.time()
	}
	if e.kind() != o.kind() {
		return e.kind() < o.kind()
	}
	if e.kind() == kindSplit {
		a, b := e.split, o.split
		if !a.location.equal(b.location) {
			if !equalWithEpsilon(a.location.X, b.location.X) {
				return a.location.X < b.location.X
			}
			return a.location.Y < b.location.Y
		}
		return a.anchorReal < b.anchorReal
	}
	a, b := e.shrink, o.shrink
	if !equalWithEpsilon(a.tieBreak, b.tieBreak) {
		return a.tieBreak < b.tieBreak
	}
	if !a.location.equal(b.location) {
		if !equalWithEpsilon(a.location.X, b.location.X) {
			return a.location.X < b.location.X
		}
		return a.location.Y < b.location.Y
	}
	if a.leftReal != b.leftReal {
		return a.leftReal < b.leftReal
	}
	return a.rightReal < b.rightReal
}
