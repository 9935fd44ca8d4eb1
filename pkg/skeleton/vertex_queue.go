package skeleton

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Индекс с тегом, чтобы на уровне типов не путать "слот в топологии"
// (pointer index) и "запись вершины в арене" (real index).
type indexType struct {
	idx  int
	real bool
}

func pointerIndex(i int) indexType { return indexType{idx: i} }
func realIndex(i int) indexType    { return indexType{idx: i, real: true} }

func (t indexType) getIndex() int {
	if t.real {
		panic("skeleton: expected pointer index, got real index")
	}
	return t.idx
}

func (t indexType) getRealIndex() int {
	if !t.real {
		panic("skeleton: expected real index, got pointer index")
	}
	return t.idx
}

func (t indexType) String() string {
	if t.real {
		return fmt.Sprintf("real index: %d", t.idx)
	}
	return fmt.Sprintf("pointer index: %d", t.idx)
}

// Узел кольцевого двусвязного списка. index - косвенная ссылка на
// запись вершины, которую можно перепривязать по ходу симуляции;
// left/right - соседние узлы. done-узлы логически удалены и
// выметаются при cleanup.
type node struct {
	index indexType
	left  indexType
	right indexType
	done  bool
}

func newNode(index, left, right int) node {
	return node{
		index: realIndex(index),
		left:  pointerIndex(left),
		right: pointerIndex(right),
	}
}

// Топология волнового фронта: арена узлов плюс стартовые узлы петель.
// Каждая петля - отдельное кольцо фронта (на старте - по кольцу на
// каждый контур входа, включая дырки).
type VertexQueue struct {
	content     []node
	startVertex []int
}

// По узлу на каждую вершину каждого кольца, в том же порядке,
// в котором initializeFromPolygons раскладывает записи по арене.
func (q *VertexQueue) initializeFromPolygons(polys []orb.Polygon) {
	for _, p := range polys {
		for _, ring := range p {
			offset := len(q.content)
			n := len(ringCoords(ring))
			q.startVertex = append(q.startVertex, offset)
			for i := 0; i < n; i++ {
				q.content = append(q.content, newNode(
					i+offset,
					(i+n-1)%n+offset,
					(i+1)%n+offset,
				))
			}
		}
	}
}

func (q *VertexQueue) clone() *VertexQueue {
	c := &VertexQueue{
		content:     make([]node, len(q.content)),
		startVertex: make([]int, len(q.startVertex)),
	}
	copy(c.content, q.content)
	copy(c.startVertex, q.startVertex)
	return c
}

func (q *VertexQueue) getRealIndex(cv indexType) int {
	return q.content[cv.getIndex()].index.getRealIndex()
}

func (q *VertexQueue) lv(cv indexType) indexType {
	return q.content[cv.getIndex()].left
}

func (q *VertexQueue) rv(cv indexType) indexType {
	return q.content[cv.getIndex()].right
}

// Выкинуть узел из петли; соседи сшиваются напрямую, сам узел
// остается в арене с пометкой done. Возвращает правого соседа.
func (q *VertexQueue) remove(cv indexType) indexType {
	tl := q.lv(cv)
	tr := q.rv(cv)
	q.content[tl.getIndex()].right = tr
	q.content[tr.getIndex()].left = tl
	q.content[cv.getIndex()].done = true
	return tr
}

// Merge: убрать узел и перепривязать выжившего соседа на новую запись.
func (q *VertexQueue) removeAndSet(cv, nv indexType) indexType {
	if !nv.real {
		panic("skeleton: removeAndSet expects a real index for nv")
	}
	cv = q.remove(cv)
	q.content[cv.getIndex()].index = nv
	return cv
}

// Split: разрезать петлю по узлам cv и sv. cv перепривязывается на nv1,
// новый узел с nv2 встает после sv; обе половины регистрируются как
// новые петли (лишние стартовые указатели выметет cleanup).
func (q *VertexQueue) splitAndSet(cv, sv, nv1, nv2 indexType) (indexType, indexType) {
	if !nv1.real || !nv2.real {
		panic("skeleton: splitAndSet expects real indexes for nv1/nv2")
	}
	nn := newNode(0, sv.getIndex(), q.rv(cv).getIndex())
	newIndex := pointerIndex(len(q.content))
	q.content = append(q.content, nn)
	q.content[cv.getIndex()].index = nv1
	q.content[newIndex.getIndex()].index = nv2
	svx := q.rv(sv)
	cvx := q.rv(cv)
	q.content[cvx.getIndex()].left = newIndex
	q.content[sv.getIndex()].right = newIndex
	q.content[cv.getIndex()].right = svx
	q.content[svx.getIndex()].left = cv
	q.startVertex = append(q.startVertex, cv.getIndex(), newIndex.getIndex())
	return cv, newIndex
}

// Уборка: стартовый указатель каждой петли переводится на живой узел,
// петли из одной вершины и дубликаты стартовых указателей выкидываются.
// Повторное посещение узла внутри одного прохода - порча топологии,
// это фатальная ошибка, а не ошибка входных данных.
func (q *VertexQueue) cleanup() {
	visit := make([]bool, len(q.content))
	svIdx := 0
	for svIdx < len(q.startVertex) {
		cur := q.startVertex[svIdx]
		for q.content[cur].done && !visit[cur] {
			visit[cur] = true
			cur = q.content[cur].right.getIndex()
		}
		if visit[cur] || q.content[cur].left.getIndex() == q.content[cur].right.getIndex() {
			q.startVertex[svIdx] = q.startVertex[len(q.startVertex)-1]
			q.startVertex = q.startVertex[:len(q.startVertex)-1]
			continue
		}
		q.startVertex[svIdx] = cur
		visit[cur] = true
		cur = q.content[cur].right.getIndex()
		for cur != q.startVertex[svIdx] {
			if visit[cur] {
				panic(fmt.Sprintf("skeleton: cleanup revisited node %d of loop %d, start vertexes %v", cur, svIdx, q.startVertex))
			}
			visit[cur] = true
			cur = q.content[cur].right.getIndex()
		}
		svIdx++
	}
}

// Снимок обхода всех петель: (номер петли, узел, запись вершины).
type queueSlot struct {
	loop int
	ptr  indexType
	real int
}

func (q *VertexQueue) slots() []queueSlot {
	var out []queueSlot
	for svIdx, start := range q.startVertex {
		cur := start
		for {
			out = append(out, queueSlot{
				loop: svIdx,
				ptr:  pointerIndex(cur),
				real: q.content[cur].index.getRealIndex(),
			})
			cur = q.content[cur].right.getIndex()
			if cur == start {
				break
			}
		}
	}
	return out
}
