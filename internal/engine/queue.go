package engine

import "sync"

// queue is an unbounded FIFO fed by producer callbacks and drained by the
// single consumer loop. Producers only append; draining pops oldest-first
// so rapid control movements are never reordered.
type queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends one item. Safe to call concurrently with Pop.
func (q *queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// Pop removes and returns the oldest item. The second return is false when
// the queue is empty.
func (q *queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero // drop the reference for the GC
	q.items = q.items[1:]
	return item, true
}

// Len returns the current queue depth.
func (q *queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
