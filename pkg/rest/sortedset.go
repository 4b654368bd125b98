package rest

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// SortedSet is the Set implementation responses are decoded into. Elements
// are kept unique and in ascending order. The zero value is an empty set
// ordered by natural order for strings and numbers and by formatted value
// otherwise.
type SortedSet[T any] struct {
	items   []T
	compare func(a, b T) int
}

// NewSortedSet creates a set ordered by compare, or natural order when nil
func NewSortedSet[T any](compare func(a, b T) int, values ...T) *SortedSet[T] {
	s := &SortedSet[T]{compare: compare}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s *SortedSet[T]) cmp(a, b T) int {
	if s.compare != nil {
		return s.compare(a, b)
	}
	return compareNatural(any(a), any(b))
}

func (s *SortedSet[T]) search(v T) (int, bool) {
	i := sort.Search(len(s.items), func(i int) bool {
		return s.cmp(s.items[i], v) >= 0
	})
	return i, i < len(s.items) && s.cmp(s.items[i], v) == 0
}

// Len implements Collection
func (s *SortedSet[T]) Len() int {
	return len(s.items)
}

// Values implements Collection
func (s *SortedSet[T]) Values() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Add implements Collection. Adding an element already present is a no-op.
func (s *SortedSet[T]) Add(v T) {
	i, found := s.search(v)
	if found {
		return
	}
	var zero T
	s.items = append(s.items, zero)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
}

// Contains implements Set
func (s *SortedSet[T]) Contains(v T) bool {
	_, found := s.search(v)
	return found
}

// MarshalJSON encodes the set as an array in order
func (s SortedSet[T]) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON decodes an array, replacing the contents
func (s *SortedSet[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	s.items = nil
	for _, v := range items {
		s.Add(v)
	}
	return nil
}

func compareNatural(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case int8:
		if y, ok := b.(int8); ok {
			return cmp.Compare(x, y)
		}
	case int16:
		if y, ok := b.(int16); ok {
			return cmp.Compare(x, y)
		}
	case int32:
		if y, ok := b.(int32); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case uint:
		if y, ok := b.(uint); ok {
			return cmp.Compare(x, y)
		}
	case uint8:
		if y, ok := b.(uint8); ok {
			return cmp.Compare(x, y)
		}
	case uint16:
		if y, ok := b.(uint16); ok {
			return cmp.Compare(x, y)
		}
	case uint32:
		if y, ok := b.(uint32); ok {
			return cmp.Compare(x, y)
		}
	case uint64:
		if y, ok := b.(uint64); ok {
			return cmp.Compare(x, y)
		}
	case float32:
		if y, ok := b.(float32); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return cmp.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}
