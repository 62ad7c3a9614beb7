package fakeexchange

import "container/heap"

// orderEntry wraps a resting order for heap operations.
type orderEntry struct {
	order *bookOrder
	index int
	isBid bool
}

// priceTimeQueue implements a decimal price-time priority queue: for
// bids the highest price sorts first, for asks the lowest, ties broken
// by earlier timestamp then lower sequence. Adapted from the teacher's
// engine.priceTimeQueue onto decimal.Decimal prices.
type priceTimeQueue []*orderEntry

func (q priceTimeQueue) Len() int { return len(q) }

func (q priceTimeQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if !a.order.Price.Equal(b.order.Price) {
		if a.isBid {
			return a.order.Price.GreaterThan(b.order.Price)
		}
		return a.order.Price.LessThan(b.order.Price)
	}
	if !a.order.Timestamp.Equal(b.order.Timestamp) {
		return a.order.Timestamp.Before(b.order.Timestamp)
	}
	return a.order.Sequence < b.order.Sequence
}

func (q priceTimeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *priceTimeQueue) Push(x any) {
	entry := x.(*orderEntry)
	entry.index = len(*q)
	*q = append(*q, entry)
}

func (q *priceTimeQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	entry.index = -1
	*q = old[0 : n-1]
	return entry
}

func (q priceTimeQueue) peek() *orderEntry {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

func (q *priceTimeQueue) remove(entry *orderEntry) *orderEntry {
	return heap.Remove(q, entry.index).(*orderEntry)
}

func (q *priceTimeQueue) findWorstIndex() int {
	if len(*q) == 0 {
		return -1
	}
	worst := 0
	for i := range *q {
		if worstIsWorse(*q, i, worst) {
			worst = i
		}
	}
	return worst
}

// worstIsWorse reports whether candidate i ranks below the current
// worst index under this queue's own Less ordering: i is worse when
// worst would sort before i (i.e. !Less(i, worst)), with ties broken
// toward the more recently arrived entry.
func worstIsWorse(q priceTimeQueue, i, worst int) bool {
	if q.Less(i, worst) {
		return false
	}
	if q.Less(worst, i) {
		return true
	}
	return q[i].order.Timestamp.After(q[worst].order.Timestamp)
}

// trimDepth evicts the worst-ranked resting orders until q.Len() is at
// most maxDepth (a maxDepth of zero or less means unbounded).
func trimDepth(q *priceTimeQueue, maxDepth int, orderIndex map[string]*orderEntry) {
	for maxDepth > 0 && q.Len() > maxDepth {
		idx := q.findWorstIndex()
		if idx < 0 {
			return
		}
		entry := heap.Remove(q, idx).(*orderEntry)
		delete(orderIndex, entry.order.ClientOrderID)
	}
}
