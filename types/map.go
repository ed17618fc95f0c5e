package types

import "strings"

// mapEntry is one key/value pair, kept alongside the insertion-order
// slice below so that Pairs() always iterates deterministically.
type mapEntry struct {
	key Value
	val Value
}

// mapState is the shared, interior-mutable backing store for a
// MapValue. Every MapValue that descends from the same NewMap() call
// (via assignment, closure capture, or being stored in another
// container) points at the same mapState, so writes made through one
// reference are observed through all of them, per the spec's shared-
// map invariant.
type mapState struct {
	order   []uint64 // hash bucket keys, in insertion order
	buckets map[uint64][]mapEntry
}

func newMapState() *mapState {
	return &mapState{buckets: make(map[uint64][]mapEntry)}
}

func (m *mapState) find(key Value) (bucket []mapEntry, idx int) {
	b := m.buckets[key.Hash()]
	for i, e := range b {
		if e.key.Equal(key) {
			return b, i
		}
	}
	return b, -1
}

func (m *mapState) get(key Value) (Value, bool) {
	b, i := m.find(key)
	if i < 0 {
		return nil, false
	}
	return b[i].val, true
}

func (m *mapState) set(key, val Value) {
	h := key.Hash()
	b := m.buckets[h]
	for i, e := range b {
		if e.key.Equal(key) {
			b[i].val = val
			return
		}
	}
	if len(b) == 0 {
		m.order = append(m.order, h)
	}
	m.buckets[h] = append(b, mapEntry{key: key, val: val})
}

func (m *mapState) pairs() [][2]Value {
	out := make([][2]Value, 0, len(m.order))
	for _, h := range m.order {
		for _, e := range m.buckets[h] {
			out = append(out, [2]Value{e.key, e.val})
		}
	}
	return out
}

func (m *mapState) len() int {
	n := 0
	for _, b := range m.buckets {
		n += len(b)
	}
	return n
}

// MapValue is an ordered, mutable, shared mapping from Value to
// Value. Copying a MapValue (e.g. by assignment) copies the pointer
// to its mapState, not the state itself: all copies alias the same
// underlying storage.
type MapValue struct {
	state *mapState
}

// NewMap builds a map from pairs given in key, value, key, value, ...
// insertion order. Later duplicate keys overwrite earlier ones without
// moving their position, matching MakeMap's "later pair wins" rule.
func NewMap(pairs [][2]Value) MapValue {
	m := MapValue{state: newMapState()}
	for _, p := range pairs {
		m.state.set(p[0], p[1])
	}
	return m
}

func (m MapValue) Type() TypeCode { return TYPE_MAP }

func (m MapValue) Len() int { return m.state.len() }

func (m MapValue) Get(key Value) (Value, bool) {
	return m.state.get(key)
}

// Set mutates the map in place; all aliases observe the change.
func (m MapValue) Set(key, val Value) {
	m.state.set(key, val)
}

// Pairs returns the entries in deterministic insertion order.
func (m MapValue) Pairs() [][2]Value {
	return m.state.pairs()
}

// Merge returns a new map containing every entry of m overlaid by
// every entry of other; other wins on duplicate keys. Implements the
// right-biased `+` operator on Map×Map.
func (m MapValue) Merge(other MapValue) MapValue {
	out := NewMap(nil)
	for _, p := range m.Pairs() {
		out.Set(p[0], p[1])
	}
	for _, p := range other.Pairs() {
		out.Set(p[0], p[1])
	}
	return out
}

func (m MapValue) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range m.Pairs() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p[0].String())
		b.WriteString(" => ")
		b.WriteString(p[1].String())
	}
	b.WriteByte('}')
	return b.String()
}

func (m MapValue) Equal(other Value) bool {
	o, ok := other.(MapValue)
	if !ok {
		return false
	}
	if m.state == o.state {
		return true
	}
	if m.Len() != o.Len() {
		return false
	}
	for _, p := range m.Pairs() {
		ov, ok := o.Get(p[0])
		if !ok || !p[1].Equal(ov) {
			return false
		}
	}
	return true
}

// Less orders maps by size, then by their pairs in insertion order.
// Used only to give Map a total order for map-of-maps keys; arbitrary
// but stable.
func (m MapValue) Less(other Value) bool {
	o := other.(MapValue)
	if m.Len() != o.Len() {
		return m.Len() < o.Len()
	}
	ap, bp := m.Pairs(), o.Pairs()
	for i := range ap {
		if c := Compare(ap[i][0], bp[i][0]); c != 0 {
			return c < 0
		}
		if c := Compare(ap[i][1], bp[i][1]); c != 0 {
			return c < 0
		}
	}
	return false
}

func (m MapValue) Hash() uint64 {
	h := uint64(fnvOffset)
	for _, p := range m.Pairs() {
		h = fnvHash64(h, []byte(p[0].String()))
		h = fnvHash64(h, []byte(p[1].String()))
	}
	return h
}
