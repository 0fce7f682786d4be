package sequence

import "container/heap"

// PriorityItem is a handle to a queued value. Keep it to Update or Remove the entry later.
type PriorityItem[T any] struct {
	Value    T
	Priority int64
	seq      uint64
	index    int
}

// Queued reports whether the item is still in a queue.
func (it *PriorityItem[T]) Queued() bool {
	return it != nil && it.index >= 0
}

type priorityQueue[T any] struct {
	items []*PriorityItem[T]
}

func (pq *priorityQueue[T]) Len() int {
	return len(pq.items)
}

// Less orders by ascending priority; equal priorities keep insertion order.
func (pq *priorityQueue[T]) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

func (pq *priorityQueue[T]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index = i
	pq.items[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	item := x.(*PriorityItem[T])
	item.index = len(pq.items)
	pq.items = append(pq.items, item)
}

func (pq *priorityQueue[T]) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	pq.items = old[0 : n-1]
	return item
}

// PriorityQueue is a min-queue: Dequeue returns the lowest priority first.
// It is not safe for concurrent use.
type PriorityQueue[T any] struct {
	pq  priorityQueue[T]
	seq uint64
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	pq := &PriorityQueue[T]{}
	heap.Init(&pq.pq)
	return pq
}

func (pq *PriorityQueue[T]) Enqueue(value T, priority int64) *PriorityItem[T] {
	pq.seq++
	item := &PriorityItem[T]{
		Value:    value,
		Priority: priority,
		seq:      pq.seq,
	}
	heap.Push(&pq.pq, item)
	return item
}

func (pq *PriorityQueue[T]) Dequeue() (T, bool) {
	item, ok := pq.DequeueItem()
	if !ok {
		var zero T
		return zero, false
	}
	return item.Value, true
}

func (pq *PriorityQueue[T]) DequeueItem() (*PriorityItem[T], bool) {
	if pq.pq.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&pq.pq).(*PriorityItem[T]), true
}

func (pq *PriorityQueue[T]) Peek() (*PriorityItem[T], bool) {
	if pq.pq.Len() == 0 {
		return nil, false
	}
	return pq.pq.items[0], true
}

func (pq *PriorityQueue[T]) Update(item *PriorityItem[T], value T, priority int64) {
	if !item.Queued() {
		return
	}
	item.Value = value
	item.Priority = priority
	heap.Fix(&pq.pq, item.index)
}

// Remove drops item from the queue. Removing an item twice is a no-op.
func (pq *PriorityQueue[T]) Remove(item *PriorityItem[T]) bool {
	if !item.Queued() || item.index >= pq.pq.Len() || pq.pq.items[item.index] != item {
		return false
	}
	heap.Remove(&pq.pq, item.index)
	return true
}

func (pq *PriorityQueue[T]) Len() int {
	return pq.pq.Len()
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.pq.Len() == 0
}

func (pq *PriorityQueue[T]) Clear() {
	for _, item := range pq.pq.items {
		item.index = -1
	}
	pq.pq.items = nil
}
