package browser

import "strings"

// HeaderCollection is the browser control's native header
// representation: a flat, ordered list of name/value lines. It
// satisfies header.Source and header.Sink so the bridge never depends
// on this type directly.
type HeaderCollection struct {
	lines []headerLine
}

type headerLine struct {
	name  string
	value string
}

// NewHeaderCollection builds a collection from alternating name/value
// pairs. Odd trailing arguments are ignored.
func NewHeaderCollection(pairs ...string) *HeaderCollection {
	hc := &HeaderCollection{}
	for i := 0; i+1 < len(pairs); i += 2 {
		hc.Append(pairs[i], pairs[i+1])
	}
	return hc
}

// Append adds a header line, keeping existing lines for the same name.
func (hc *HeaderCollection) Append(name, value string) {
	hc.lines = append(hc.lines, headerLine{name: name, value: value})
}

// Set replaces every line for name with a single value. The browser
// control's response contract is single-valued per key.
func (hc *HeaderCollection) Set(name, value string) {
	kept := hc.lines[:0]
	for _, l := range hc.lines {
		if !strings.EqualFold(l.name, name) {
			kept = append(kept, l)
		}
	}
	hc.lines = append(kept, headerLine{name: name, value: value})
}

// Get returns the first value for name, or "" when absent.
func (hc *HeaderCollection) Get(name string) string {
	for _, l := range hc.lines {
		if strings.EqualFold(l.name, name) {
			return l.value
		}
	}
	return ""
}

// Each visits every line in order.
func (hc *HeaderCollection) Each(fn func(name, value string)) {
	for _, l := range hc.lines {
		fn(l.name, l.value)
	}
}

// Len returns the number of header lines.
func (hc *HeaderCollection) Len() int {
	return len(hc.lines)
}
