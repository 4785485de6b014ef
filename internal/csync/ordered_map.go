package csync

import (
	"slices"
	"sync"
)

// OrderedMap is a thread-safe map that iterates in insertion order.
// It uses a RWMutex for concurrent read access and exclusive write access.
type OrderedMap[K comparable, V any] struct {
	data  map[K]V
	order []K
	mu    sync.RWMutex
}

// NewOrderedMap creates an empty ordered map
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		data: make(map[K]V),
	}
}

// Set stores a key-value pair. An existing key is moved to the end.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; exists {
		m.removeKey(key)
	}
	m.data[key] = value
	m.order = append(m.order, key)
}

// Get retrieves a value by key, returns the value and whether it exists
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	return value, exists
}

// Delete removes a key and reports whether it was present
func (m *OrderedMap[K, V]) Delete(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists {
		return false
	}
	delete(m.data, key)
	m.removeKey(key)
	return true
}

// Has checks if a key exists in the map
func (m *OrderedMap[K, V]) Has(key K) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.data[key]
	return exists
}

// Len returns the number of entries
func (m *OrderedMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Keys returns a copy of the keys in insertion order
func (m *OrderedMap[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

// Values returns a copy of the values in insertion order
func (m *OrderedMap[K, V]) Values() []V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values := make([]V, 0, len(m.order))
	for _, key := range m.order {
		values = append(values, m.data[key])
	}
	return values
}

// Range iterates over a snapshot of the entries in insertion order.
// If f returns false, iteration stops. f may modify the map.
func (m *OrderedMap[K, V]) Range(f func(key K, value V) bool) {
	m.mu.RLock()
	keys := slices.Clone(m.order)
	values := make([]V, len(keys))
	for i, key := range keys {
		values[i] = m.data[key]
	}
	m.mu.RUnlock()

	for i, key := range keys {
		if !f(key, values[i]) {
			break
		}
	}
}

// Clear removes all entries
func (m *OrderedMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[K]V)
	m.order = nil
}

// removeKey drops key from the order slice. Caller holds the write lock.
func (m *OrderedMap[K, V]) removeKey(key K) {
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
}
