package rest

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// LinkedMap is the Map implementation responses are decoded into. Keys keep
// the order in which they were first inserted, including the order of the
// members of a decoded JSON object. The zero value is an empty map.
type LinkedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewLinkedMap creates an empty map
func NewLinkedMap[K comparable, V any]() *LinkedMap[K, V] {
	return &LinkedMap[K, V]{values: make(map[K]V)}
}

// Len implements Map
func (m *LinkedMap[K, V]) Len() int {
	return len(m.keys)
}

// Get implements Map
func (m *LinkedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Put implements Map. Replacing a value keeps the key's position.
func (m *LinkedMap[K, V]) Put(key K, value V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Delete implements Map
func (m *LinkedMap[K, V]) Delete(key K) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys implements Map
func (m *LinkedMap[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// MarshalJSON encodes the map as an object with members in key order
func (m LinkedMap[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := encodeKey(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping the member order
func (m *LinkedMap[K, V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		m.keys, m.values = nil, nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("cannot decode %v into an ordered map", tok)
	}

	m.keys = nil
	m.values = make(map[K]V)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		key, err := decodeKey[K](name)
		if err != nil {
			return err
		}

		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to decode value of %q: %w", name, err)
		}
		m.Put(key, value)
	}

	_, err = dec.Token()
	return err
}

func encodeKey[K comparable](key K) ([]byte, error) {
	if s, ok := any(key).(string); ok {
		return json.Marshal(s)
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 && raw[0] == '"' {
		return raw, nil
	}
	return json.Marshal(string(raw))
}

// decodeKey converts an object member name to K. String keys are used as is,
// other keys are parsed as JSON, then as a JSON string.
func decodeKey[K comparable](name string) (K, error) {
	var key K
	if p, ok := any(&key).(*string); ok {
		*p = name
		return key, nil
	}
	if err := json.Unmarshal([]byte(name), &key); err == nil {
		return key, nil
	}
	quoted, err := json.Marshal(name)
	if err != nil {
		return key, err
	}
	if err := json.Unmarshal(quoted, &key); err != nil {
		return key, fmt.Errorf("cannot use %q as a map key: %w", name, err)
	}
	return key, nil
}
