// Package header provides the neutral ordered multi-map used to carry
// HTTP headers between the browser control and the pipeline.
//
// Neither side's native header type leaks past its own boundary: the
// browser control's collection is adapted through the Source and Sink
// interfaces, and everything in between works on Map. A Map built from
// a Source does not copy the underlying collection until it is first
// accessed.
package header

import "strings"

// Source yields header lines in their native order.
type Source interface {
	Each(fn func(name, value string))
}

// Sink receives header lines one at a time.
type Sink interface {
	Append(name, value string)
}

// Entry is a single header line.
type Entry struct {
	Name  string
	Value string
}

// Map is an ordered multi-map from case-insensitive header name to
// one or more values. Insertion order is preserved across names.
type Map struct {
	src     Source
	entries []Entry
	loaded  bool
}

// New returns an empty Map.
func New() *Map {
	return &Map{loaded: true}
}

// FromSource wraps a native header collection. The collection is read
// lazily on first access and not mutated.
func FromSource(src Source) *Map {
	return &Map{src: src}
}

func (m *Map) materialize() {
	if m.loaded {
		return
	}
	m.loaded = true
	if m.src == nil {
		return
	}
	m.src.Each(func(name, value string) {
		m.entries = append(m.entries, Entry{Name: name, Value: value})
	})
}

// Add appends a value for name, preserving insertion order.
func (m *Map) Add(name, value string) {
	m.materialize()
	m.entries = append(m.entries, Entry{Name: name, Value: value})
}

// Has reports whether at least one value exists for name.
func (m *Map) Has(name string) bool {
	m.materialize()
	for _, e := range m.entries {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

// First returns the first value recorded for name, or "" when absent.
func (m *Map) First(name string) string {
	m.materialize()
	for _, e := range m.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Value
		}
	}
	return ""
}

// Values returns all values for name in insertion order.
func (m *Map) Values(name string) []string {
	m.materialize()
	var vals []string
	for _, e := range m.entries {
		if strings.EqualFold(e.Name, name) {
			vals = append(vals, e.Value)
		}
	}
	return vals
}

// Each visits every entry in insertion order.
func (m *Map) Each(fn func(name, value string)) {
	m.materialize()
	for _, e := range m.entries {
		fn(e.Name, e.Value)
	}
}

// Len returns the number of header lines.
func (m *Map) Len() int {
	m.materialize()
	return len(m.entries)
}

// CopyTo writes every entry into sink in insertion order.
func (m *Map) CopyTo(sink Sink) {
	m.Each(sink.Append)
}
