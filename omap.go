package mapwork

type entry[V any] struct {
	Key   string `json:"key"`
	Value V      `json:"value"`
}

// orderedMap is a string-keyed map preserving insertion order of keys.
// Iteration order of the registry maps must be deterministic so that the wire
// form of a descriptor is stable across runs and easy to assert on in tests.
type orderedMap[V any] struct {
	keys []string
	vals map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{vals: make(map[string]V)}
}

func (m *orderedMap[V]) Set(key string, v V) {
	if m.vals == nil {
		m.vals = make(map[string]V)
	}
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *orderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *orderedMap[V]) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

func (m *orderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *orderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Values returns the values in key insertion order.
func (m *orderedMap[V]) Values() []V {
	vv := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		vv = append(vv, m.vals[k])
	}
	return vv
}

// MarshalJSON encodes the map as an ordered array of key/value pairs.
// A plain JSON object would lose ordering on the decoding side.
func (m *orderedMap[V]) MarshalJSON() ([]byte, error) {
	entries := make([]entry[V], 0, len(m.keys))
	for _, k := range m.keys {
		entries = append(entries, entry[V]{Key: k, Value: m.vals[k]})
	}
	return json.Marshal(entries)
}

func (m *orderedMap[V]) UnmarshalJSON(data []byte) error {
	var entries []entry[V]
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	m.keys = nil
	m.vals = make(map[string]V, len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return nil
}
