package entity

import (
	"context"
	"fmt"
	"strings"
)

// Kind is the association kind of a relation.
type Kind uint8

// Association kinds.
const (
	// None is the kind of the root entity, which has no incoming relation.
	None Kind = iota
	// ToOne relates the owner to at most one entity ("belongs to").
	ToOne
	// ToMany relates the owner to any number of entities ("has many").
	ToMany
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case ToOne:
		return "to_one"
	case ToMany:
		return "to_many"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a supported relation kind.
func (k Kind) Valid() bool { return k == ToOne || k == ToMany }

// ParseKind parses a kind name. Rails-style names are accepted too.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to_one", "belongs_to", "has_one", "one", "m2o", "o2o":
		return ToOne, nil
	case "to_many", "has_many", "many", "o2m", "m2m":
		return ToMany, nil
	default:
		return None, fmt.Errorf("entity: unknown association kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	if string(text) == "none" || len(text) == 0 {
		*k = None
		return nil
	}
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Attribute is a single named value of an entity.
type Attribute struct {
	Name  string `msgpack:"n"`
	Value any    `msgpack:"v"`
}

// Attributes is an ordered attribute mapping.
type Attributes []Attribute

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (any, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return nil, false
}

// Names returns the attribute names in order.
func (a Attributes) Names() []string {
	names := make([]string, len(a))
	for i, attr := range a {
		names[i] = attr.Name
	}
	return names
}

// Without returns a copy of a with the named attribute removed.
func (a Attributes) Without(name string) Attributes {
	out := make(Attributes, 0, len(a))
	for _, attr := range a {
		if attr.Name != name {
			out = append(out, attr)
		}
	}
	return out
}

// Clone returns a shallow copy of a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}

// IDAttribute is the attribute holding the identity of an entity.
const IDAttribute = "id"

// Entity is a persisted record the explorer can walk.
type Entity interface {
	// Class returns the class name, e.g. "Book".
	Class() string
	// Attributes returns the attributes in the store's order.
	Attributes() Attributes
	// Relations returns the declared relations in declaration order.
	Relations(ctx context.Context) ([]Relation, error)
}

// Identifier is implemented by entities that provide their own identity.
type Identifier interface {
	Identity() string
}

// IDer is implemented by entities whose id is not the id attribute,
// e.g. rows of a table with another primary key column.
type IDer interface {
	ID() any
}

// ID returns the id of e.
func ID(e Entity) any {
	if i, ok := e.(IDer); ok {
		return i.ID()
	}
	id, _ := e.Attributes().Get(IDAttribute)
	return id
}

// Identity returns the identity of e, "<class>_<id>".
func Identity(e Entity) string {
	if i, ok := e.(Identifier); ok {
		return i.Identity()
	}
	return Key(e.Class(), ID(e))
}

// Key formats a class and an id the way Identity does.
func Key(class string, id any) string {
	return class + "_" + FormatID(id)
}

// FormatID formats an identity value. Byte slices are treated as text.
func FormatID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Relation is a relation of an owner entity.
type Relation struct {
	// Name of the relation, e.g. "books".
	Name string
	// Kind of the relation.
	Kind Kind
	// Target is the class of the related entities. Empty when unknown.
	Target string

	load func(context.Context) ([]Entity, error)
}

// NewRelation returns a relation that loads its entities with load.
func NewRelation(name string, kind Kind, target string, load func(context.Context) ([]Entity, error)) Relation {
	return Relation{Name: name, Kind: kind, Target: target, load: load}
}

// Load returns the related entities. A to-one relation yields at most one.
func (r Relation) Load(ctx context.Context) ([]Entity, error) {
	if r.load == nil {
		return nil, &MisdeclaredError{Relation: r.Name, Reason: "no loader"}
	}
	entities, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if r.Kind == ToOne && len(entities) > 1 {
		entities = entities[:1]
	}
	return entities, nil
}

// MisdeclaredError reports a relation that cannot be resolved as declared.
type MisdeclaredError struct {
	Class    string
	Relation string
	Reason   string
}

// Error returns the error string.
func (e *MisdeclaredError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("relation %s.%s is misdeclared: %s", e.Class, e.Relation, e.Reason)
	}
	return fmt.Sprintf("relation %q is misdeclared: %s", e.Relation, e.Reason)
}
