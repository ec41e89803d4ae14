// Package pqueue provides an indexed binary heap.
//
// Unlike container/heap, the queue reports every element's current heap
// position through a caller-supplied callback. That lets callers keep a
// handle to an element and restore heap order in O(log n) after changing
// its priority in place (a decrease-key), without a linear search for the
// element first.
//
// The same queue type serves two orderings in the tracer: region growing
// (ascending gray level, FIFO among equals) and bottleneck path search
// (ascending accumulated path cost).
package pqueue

// InvalidIndex marks an element that is not currently inside a queue.
// Callers that track heap positions should reset their handle to this
// value when they remove the element.
const InvalidIndex = -1

// Queue is a binary heap over elements of type T. The element considered
// "higher priority" by less is returned first.
//
// The queue stores elements by value; T is typically a small handle (an
// index into a caller-owned arena) rather than application data.
type Queue[T any] struct {
	elems    []T
	less     func(a, b T) bool
	setIndex func(elem T, i int)
}

// New returns an empty queue ordered by less. After any mutation the queue
// calls setIndex for each element whose heap position changed; pass NopIndex
// when positions are not needed.
func New[T any](less func(a, b T) bool, setIndex func(elem T, i int)) *Queue[T] {
	return &Queue[T]{less: less, setIndex: setIndex}
}

// NopIndex is a setIndex callback that discards position updates.
func NopIndex[T any](T, int) {}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int { return len(q.elems) }

// Empty reports whether the queue holds no elements.
func (q *Queue[T]) Empty() bool { return len(q.elems) == 0 }

// Front returns the highest-priority element without removing it.
// It must not be called on an empty queue.
func (q *Queue[T]) Front() T { return q.elems[0] }

// Push adds an element to the queue.
func (q *Queue[T]) Push(elem T) {
	q.elems = append(q.elems, elem)
	q.siftUp(len(q.elems) - 1)
}

// Pop removes and returns the highest-priority element.
// It must not be called on an empty queue.
func (q *Queue[T]) Pop() T {
	front := q.elems[0]
	last := len(q.elems) - 1
	q.elems[0] = q.elems[last]
	var zero T
	q.elems[last] = zero
	q.elems = q.elems[:last]
	if last > 0 {
		q.siftDown(0)
	}
	return front
}

// Reposition restores heap order after the element at heap position i had
// its priority changed in place. The position is the one most recently
// reported through setIndex.
func (q *Queue[T]) Reposition(i int) {
	if !q.siftUp(i) {
		q.siftDown(i)
	}
}

// siftUp moves the element at i toward the root and reports whether it moved.
func (q *Queue[T]) siftUp(i int) bool {
	elem := q.elems[i]
	moved := false
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(elem, q.elems[parent]) {
			break
		}
		q.elems[i] = q.elems[parent]
		q.setIndex(q.elems[i], i)
		i = parent
		moved = true
	}
	q.elems[i] = elem
	q.setIndex(elem, i)
	return moved
}

func (q *Queue[T]) siftDown(i int) {
	elem := q.elems[i]
	n := len(q.elems)
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && q.less(q.elems[right], q.elems[child]) {
			child = right
		}
		if !q.less(q.elems[child], elem) {
			break
		}
		q.elems[i] = q.elems[child]
		q.setIndex(q.elems[i], i)
		i = child
	}
	q.elems[i] = elem
	q.setIndex(elem, i)
}
