package pqueue

import (
	"math/rand"
	"sort"
	"testing"
)

func TestPopOrder(t *testing.T) {
	q := New(func(a, b int) bool { return a < b }, NopIndex[int])

	values := []int{42, 7, 19, 3, 3, 88, 0, 51}
	for _, v := range values {
		q.Push(v)
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	for i, want := range sorted {
		if q.Empty() {
			t.Fatalf("queue empty after %d pops, want %d elements", i, len(sorted))
		}
		if got := q.Front(); got != want {
			t.Errorf("Front() at pop %d = %d, want %d", i, got, want)
		}
		if got := q.Pop(); got != want {
			t.Errorf("Pop() at pop %d = %d, want %d", i, got, want)
		}
	}
	if !q.Empty() {
		t.Errorf("queue not empty after popping all elements, len = %d", q.Len())
	}
}

// TestFIFOTieBreak models the region-growing ordering: primary key is a
// priority, secondary key an insertion counter, so equal priorities come
// out first-in first-out.
func TestFIFOTieBreak(t *testing.T) {
	type pos struct {
		priority int
		order    int
	}
	q := New(func(a, b pos) bool {
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.order < b.order
	}, NopIndex[pos])

	q.Push(pos{priority: 5, order: 0})
	q.Push(pos{priority: 3, order: 1})
	q.Push(pos{priority: 3, order: 2})
	q.Push(pos{priority: 3, order: 3})
	q.Push(pos{priority: 1, order: 4})

	wantOrder := []int{4, 1, 2, 3, 0}
	for i, want := range wantOrder {
		got := q.Pop()
		if got.order != want {
			t.Errorf("pop %d: got insertion order %d, want %d", i, got.order, want)
		}
	}
}

// TestReposition exercises the decrease-key pattern used by the path
// solver: costs live outside the queue, the queue holds handles, and the
// setIndex callback keeps a heap-position table current.
func TestReposition(t *testing.T) {
	costs := []float64{9, 4, 7, 2, 8}
	heapIdx := make([]int, len(costs))
	for i := range heapIdx {
		heapIdx[i] = InvalidIndex
	}

	q := New(
		func(a, b int) bool { return costs[a] < costs[b] },
		func(elem, i int) { heapIdx[elem] = i },
	)
	for i := range costs {
		q.Push(i)
	}

	// Decrease element 0's cost below everything else and reposition it.
	costs[0] = 1
	if heapIdx[0] == InvalidIndex {
		t.Fatal("element 0 has no recorded heap position")
	}
	q.Reposition(heapIdx[0])

	if got := q.Pop(); got != 0 {
		t.Errorf("Pop() after decrease-key = %d, want 0", got)
	}

	// Remaining elements still come out in cost order.
	want := []int{3, 1, 2, 4}
	for i, w := range want {
		if got := q.Pop(); got != w {
			t.Errorf("pop %d = %d, want %d", i, got, w)
		}
	}
}

func TestSetIndexTracksPositions(t *testing.T) {
	costs := make([]float64, 64)
	heapIdx := make([]int, len(costs))
	rng := rand.New(rand.NewSource(1))
	for i := range costs {
		costs[i] = rng.Float64()
		heapIdx[i] = InvalidIndex
	}

	q := New(
		func(a, b int) bool { return costs[a] < costs[b] },
		func(elem, i int) { heapIdx[elem] = i },
	)
	for i := range costs {
		q.Push(i)
	}

	inQueue := make(map[int]bool)
	for i := range costs {
		inQueue[i] = true
	}
	for !q.Empty() {
		// Every queued element's recorded position must point back at it.
		for elem := range inQueue {
			i := heapIdx[elem]
			if i < 0 || i >= q.Len() {
				t.Fatalf("element %d has out-of-range heap position %d", elem, i)
			}
			if q.elems[i] != elem {
				t.Fatalf("heap position %d holds %d, want %d", i, q.elems[i], elem)
			}
		}
		popped := q.Pop()
		delete(inQueue, popped)
	}
}
