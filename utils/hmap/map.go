package hmap

import "github.com/rekap-ncsu/phasar-fork/utils"

// A simple implementation of a mutable hash map for keys that are not
// comparable with ==. Used for the solver tables, where keys are
// (node, fact) pairs and facts only support Hash/Equal.

// Collisions are resolved through linked lists.

type node[K, V any] struct {
	key   K
	value V
	next  *node[K, V]
}

type Map[K, V any] struct {
	hasher utils.Hasher[K]
	mp     map[uint32]*node[K, V]
	count  int
}

// Order of V and K are swapped since K can be inferred by the argument.
func NewMap[V, K any](hasher utils.Hasher[K]) *Map[K, V] {
	return &Map[K, V]{
		hasher: hasher,
		mp:     make(map[uint32]*node[K, V]),
	}
}

func (m *Map[K, V]) Set(key K, value V) {
	h := m.hasher.Hash(key)
	if snode, found := m.mp[h]; !found {
		m.mp[h] = &node[K, V]{key, value, nil}
		m.count++
	} else {
		for {
			if m.hasher.Equal(key, snode.key) {
				snode.value = value
				return
			}

			if next := snode.next; next == nil {
				// Hash collision
				snode.next = &node[K, V]{key, value, nil}
				m.count++
				return
			} else {
				snode = next
			}
		}
	}
}

func (m *Map[K, V]) GetOk(key K) (res V, ok bool) {
	for node := m.mp[m.hasher.Hash(key)]; node != nil; node = node.next {
		if m.hasher.Equal(key, node.key) {
			return node.value, true
		}
	}

	return
}

func (m *Map[K, V]) Get(key K) V {
	v, _ := m.GetOk(key)
	return v
}

// GetOrElse returns the value bound to key, inserting and returning the
// result of mk() if the key is unbound.
func (m *Map[K, V]) GetOrElse(key K, mk func() V) V {
	if v, ok := m.GetOk(key); ok {
		return v
	}
	v := mk()
	m.Set(key, v)
	return v
}

func (m *Map[K, V]) Len() int {
	return m.count
}

// ForEach visits every binding in the map. Iteration order is
// unspecified; callers that require determinism must sort.
func (m *Map[K, V]) ForEach(do func(key K, value V)) {
	for _, snode := range m.mp {
		for ; snode != nil; snode = snode.next {
			do(snode.key, snode.value)
		}
	}
}
