package filter

import (
	"fmt"
	"strings"

	"github.com/syssam/explorer/entity"
)

// Associations is a set of association kinds to follow.
type Associations uint8

// Association bits.
const (
	// ToOne follows "belongs to" relations.
	ToOne Associations = 1 << iota
	// ToMany follows "has many" relations.
	ToMany
	// Direct restricts expansion to the direction a node was reached from:
	// a node reached through a to-one relation only follows to-one relations
	// and a node reached through a to-many relation only follows to-many
	// relations. The root follows both. Direct alone implies ToOne|ToMany.
	Direct

	// All follows every supported kind.
	All = ToOne | ToMany
)

// NewAssociations returns a pointer to the union of kinds.
func NewAssociations(kinds ...Associations) *Associations {
	var a Associations
	for _, k := range kinds {
		a |= k
	}
	return &a
}

// ParseAssociations parses association names such as "belongs_to",
// "has_many", "all" and "direct".
func ParseAssociations(names ...string) (Associations, error) {
	var a Associations
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "":
			case "all":
				a |= All
			case "direct":
				a |= Direct
			case "none":
			default:
				kind, err := entity.ParseKind(name)
				if err != nil {
					return 0, fmt.Errorf("filter: unknown association %q", name)
				}
				a |= FromKind(kind)
			}
		}
	}
	return a, nil
}

// FromKind returns the association bit of kind.
func FromKind(kind entity.Kind) Associations {
	switch kind {
	case entity.ToOne:
		return ToOne
	case entity.ToMany:
		return ToMany
	default:
		return 0
	}
}

// Empty reports whether nothing is followed.
func (a Associations) Empty() bool { return a&(All|Direct) == 0 }

// Follows reports whether a relation of kind is followed from a node that
// was reached through via (entity.None for the root).
func (a Associations) Follows(via, kind entity.Kind) bool {
	if !kind.Valid() {
		return false
	}
	set := a
	if set&Direct != 0 {
		if set&All == 0 {
			set |= All
		}
		if via.Valid() && via != kind {
			return false
		}
	}
	return set&FromKind(kind) != 0
}

// String returns the association names joined by commas.
func (a Associations) String() string {
	var parts []string
	if a&ToOne != 0 {
		parts = append(parts, "to_one")
	}
	if a&ToMany != 0 {
		parts = append(parts, "to_many")
	}
	if a&Direct != 0 {
		parts = append(parts, "direct")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
