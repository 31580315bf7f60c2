package filter

import (
	"sort"
	"strings"

	"github.com/go-openapi/inflect"
)

// Mode is the matching mode of a class filter.
type Mode uint8

// Class filter modes.
const (
	// ModeAllowAll lets every class pass.
	ModeAllowAll Mode = iota
	// ModeAllow lets only the listed classes pass.
	ModeAllow
	// ModeDeny excludes the listed classes.
	ModeDeny
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAllow:
		return "allow"
	case ModeDeny:
		return "deny"
	default:
		return "allow_all"
	}
}

// Class decides which related classes are expanded.
type Class struct {
	mode  Mode
	names map[string]struct{}
}

// AllowAll returns a class filter that lets everything pass.
func AllowAll() *Class {
	return &Class{mode: ModeAllowAll}
}

// Allow returns a class filter that lets only names pass.
func Allow(names ...string) *Class {
	return newClass(ModeAllow, names)
}

// Deny returns a class filter that excludes names.
func Deny(names ...string) *Class {
	return newClass(ModeDeny, names)
}

func newClass(mode Mode, names []string) *Class {
	c := &Class{mode: mode, names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if n := ClassName(name); n != "" {
			c.names[n] = struct{}{}
		}
	}
	return c
}

// Mode returns the matching mode.
func (c *Class) Mode() Mode {
	if c == nil {
		return ModeAllowAll
	}
	return c.mode
}

// Names returns the normalized class names in sorted order.
func (c *Class) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.names))
	for n := range c.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Permits reports whether class passes the filter. A nil filter permits all.
func (c *Class) Permits(class string) bool {
	if c == nil {
		return true
	}
	switch c.mode {
	case ModeAllow:
		_, ok := c.names[ClassName(class)]
		return ok
	case ModeDeny:
		_, ok := c.names[ClassName(class)]
		return !ok
	default:
		return true
	}
}

// ClassName normalizes a class or table name: "book_reviews", "BookReviews"
// and "BookReview" all become "BookReview".
func ClassName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return inflect.Camelize(inflect.Singularize(inflect.Underscore(name)))
}
