package filter

// Set is a combination of optional filters. A nil field means "not set".
type Set struct {
	Class          *Class
	Associations   *Associations
	Attributes     Attributes
	AttributeLimit *int
	Depth          *int
}

// Over returns s layered over defaults: every value set in s wins.
func (s Set) Over(defaults Set) Set {
	out := defaults.Clone()
	if s.Class != nil {
		out.Class = s.Class
	}
	if s.Associations != nil {
		a := *s.Associations
		out.Associations = &a
	}
	if s.Attributes != nil {
		out.Attributes = s.Attributes.Clone()
	}
	if s.AttributeLimit != nil {
		n := *s.AttributeLimit
		out.AttributeLimit = &n
	}
	if s.Depth != nil {
		d := *s.Depth
		out.Depth = &d
	}
	return out
}

// Clone returns a copy of s that shares no mutable state with it.
// Class filters are immutable and shared.
func (s Set) Clone() Set {
	out := Set{Class: s.Class, Attributes: s.Attributes.Clone()}
	if s.Associations != nil {
		a := *s.Associations
		out.Associations = &a
	}
	if s.AttributeLimit != nil {
		n := *s.AttributeLimit
		out.AttributeLimit = &n
	}
	if s.Depth != nil {
		d := *s.Depth
		out.Depth = &d
	}
	return out
}

// Follow returns the associations to follow; none when unset.
func (s Set) Follow() Associations {
	if s.Associations == nil {
		return 0
	}
	return *s.Associations
}

// Limit returns the attribute limit and whether one is set.
func (s Set) Limit() (int, bool) {
	if s.AttributeLimit == nil {
		return 0, false
	}
	return *s.AttributeLimit, true
}

// Budget returns the depth budget and whether one is set.
func (s Set) Budget() (int, bool) {
	if s.Depth == nil {
		return 0, false
	}
	return *s.Depth, true
}

// Int returns a pointer to n, for literal Sets.
func Int(n int) *int { return &n }
