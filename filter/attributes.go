package filter

import (
	"maps"
	"slices"

	"github.com/syssam/explorer/entity"
)

// Attributes maps a class to the attribute names it reports, in order.
// Classes without an entry report all attributes.
type Attributes map[string][]string

// Select applies the allow-list of class to attrs.
func (f Attributes) Select(class string, attrs entity.Attributes) entity.Attributes {
	names, ok := f.lookup(class)
	if !ok {
		return attrs.Clone()
	}
	out := make(entity.Attributes, 0, len(names))
	for _, name := range names {
		if v, ok := attrs.Get(name); ok {
			out = append(out, entity.Attribute{Name: name, Value: v})
		}
	}
	return out
}

// lookup returns the allow-list of class. An exact key wins; among other
// spellings of the class the first key in sorted order wins.
func (f Attributes) lookup(class string) ([]string, bool) {
	if len(f) == 0 {
		return nil, false
	}
	if names, ok := f[class]; ok {
		return names, true
	}
	want := ClassName(class)
	for _, key := range slices.Sorted(maps.Keys(f)) {
		if ClassName(key) == want {
			return f[key], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of f.
func (f Attributes) Clone() Attributes {
	if f == nil {
		return nil
	}
	out := make(Attributes, len(f))
	for k, v := range f {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Limit keeps the first n attributes. A negative n keeps none.
func Limit(attrs entity.Attributes, n int) entity.Attributes {
	if n < 0 {
		n = 0
	}
	if n >= len(attrs) {
		return attrs
	}
	return attrs[:n:n]
}
