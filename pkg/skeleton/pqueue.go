package skeleton

// Двоичная min-куча событий симуляции. Стабильность не нужна:
// порядок полностью задается simEvent.less.
type priorityQueue struct {
	data []simEvent
}

func (pq *priorityQueue) len() int { return len(pq.data) }

func (pq *priorityQueue) insert(e simEvent) {
	pq.data = append(pq.data, e)
	i := len(pq.data) - 1
	for i > 0 {
		p := (i - 1) / 2
		if !pq.data[i].less(pq.data[p]) {
			break
		}
		pq.data[i], pq.data[p] = pq.data[p], pq.data[i]
		i = p
	}
}

func (pq *priorityQueue) pop() (simEvent, bool) {
	if len(pq.data) == 0 {
		return simEvent{}, false
	}
	top := pq.data[0]
	last := len(pq.data) - 1
	pq.data[0] = pq.data[last]
	pq.data = pq.data[:last]
	i := 0
	for {
		l, r := 2*i+1, 2*i+2
		min := i
		if l < len(pq.data) && pq.data[l].less(pq.data[min]) {
			min = l
		}
		if r < len(pq.data) && pq.data[r].less(pq.data[min]) {
			min = r
		}
		if min == i {
			break
		}
		pq.data[i], pq.data[min] = pq.data[min], pq.data[i]
		i = min
	}
	return top, true
}
