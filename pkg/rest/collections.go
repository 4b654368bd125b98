package rest

import (
	"github.com/goccy/go-json"
)

// Collection is a group of elements
type Collection[T any] interface {
	Len() int
	Values() []T
	Add(v T)
}

// List is an ordered sequence of elements
type List[T any] interface {
	Collection[T]
	At(i int) T
}

// Set is a collection of unique elements
type Set[T any] interface {
	Collection[T]
	Contains(v T) bool
}

// Map is an ordered mapping from keys to values
type Map[K comparable, V any] interface {
	Len() int
	Get(key K) (V, bool)
	Put(key K, value V)
	Delete(key K)
	Keys() []K
}

// ArrayList is the List implementation responses are decoded into. The zero
// value is an empty list.
type ArrayList[T any] struct {
	items []T
}

// NewArrayList creates a list holding values
func NewArrayList[T any](values ...T) *ArrayList[T] {
	return &ArrayList[T]{items: append([]T(nil), values...)}
}

// Len implements Collection
func (l *ArrayList[T]) Len() int {
	return len(l.items)
}

// Values implements Collection
func (l *ArrayList[T]) Values() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Add implements Collection
func (l *ArrayList[T]) Add(v T) {
	l.items = append(l.items, v)
}

// At implements List
func (l *ArrayList[T]) At(i int) T {
	return l.items[i]
}

// MarshalJSON encodes the list as an array
func (l ArrayList[T]) MarshalJSON() ([]byte, error) {
	if l.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.items)
}

// UnmarshalJSON decodes an array, replacing the contents
func (l *ArrayList[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	l.items = items
	return nil
}
