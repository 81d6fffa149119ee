package pq

import (
	"container/heap"

	"github.com/rekap-ncsu/phasar-fork/utils"
)

// lessFunc is a comparison function between two elements of type T.
type lessFunc[T any] func(T, T) bool

// _heap satisfies the heap.Interface. It includes a list of elements,
// and a comparison function.
type _heap[T any] struct {
	list []T
	less lessFunc[T]
}

// Len returns the size of the heap.
func (h _heap[T]) Len() int {
	return len(h.list)
}

// Swap interchanges the values of the elements at the given indices.
func (h _heap[T]) Swap(i, j int) {
	l := h.list
	l[i], l[j] = l[j], l[i]
}

// Push appends a given element to the heap.
func (h *_heap[T]) Push(x any) {
	h.list = append(h.list, x.(T))
}

// Pop retrieves the last element in the heap.
func (h *_heap[T]) Pop() any {
	old := h.list
	n := len(old)
	x := old[n-1]
	h.list = old[0 : n-1]
	return x
}

// Less compares two elements in the heap at the given indices.
func (h _heap[T]) Less(i, j int) bool {
	return h.less(h.list[i], h.list[j])
}

var _ heap.Interface = (*_heap[int])(nil)

// PriorityQueue implements a priority queue that tracks membership to
// avoid duplicate entries. Elements need not be comparable with ==; a
// hasher identifies them instead.
type PriorityQueue[T any] struct {
	heap     _heap[T]
	hasher   utils.Hasher[T]
	elements map[uint32][]T
}

// Empty creates an empty priority queue for elements of a given type,
// with the given comparison function and element hasher.
func Empty[T any](hasher utils.Hasher[T], less lessFunc[T]) PriorityQueue[T] {
	return PriorityQueue[T]{
		heap:     _heap[T]{nil, less},
		hasher:   hasher,
		elements: make(map[uint32][]T),
	}
}

// IsEmpty checks whether the priority queue is empty.
func (p *PriorityQueue[T]) IsEmpty() bool {
	return len(p.heap.list) == 0
}

// GetNext pops the top element from the heap.
func (p *PriorityQueue[T]) GetNext() T {
	el := heap.Pop(&p.heap).(T)
	p.remove(el)
	return el
}

// Add inserts the given element in the heap, if not already present.
func (p *PriorityQueue[T]) Add(x T) {
	h := p.hasher.Hash(x)
	for _, el := range p.elements[h] {
		if p.hasher.Equal(x, el) {
			return
		}
	}

	p.elements[h] = append(p.elements[h], x)
	heap.Push(&p.heap, x)
}

// Rebuild re-establishes all the invariants of the heap.
func (p *PriorityQueue[T]) Rebuild() {
	heap.Init(&p.heap)
}

func (p *PriorityQueue[T]) remove(x T) {
	h := p.hasher.Hash(x)
	bucket := p.elements[h]
	for i, el := range bucket {
		if p.hasher.Equal(x, el) {
			p.elements[h] = append(bucket[:i], bucket[i+1:]...)
			if len(p.elements[h]) == 0 {
				delete(p.elements, h)
			}
			return
		}
	}
}
