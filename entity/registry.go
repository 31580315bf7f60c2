package entity

import (
	"context"
	"fmt"
	"sync"
)

// FetchFunc loads the entities related to owner through one relation.
type FetchFunc func(ctx context.Context, owner Entity) ([]Entity, error)

// Descriptor statically describes one relation of a class.
type Descriptor struct {
	Name   string
	Kind   Kind
	Target string
	Fetch  FetchFunc
}

// Registry holds relation descriptors per class. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string][]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string][]Descriptor)}
}

// Register appends descriptors to class. Names must be unique per class.
// Descriptors with an unsupported Kind or no Fetch are accepted; they are
// reported when the relation is walked, not at registration.
func (r *Registry) Register(class string, descs ...Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.classes[class]
	for _, d := range descs {
		if d.Name == "" {
			return fmt.Errorf("entity: empty relation name for class %s", class)
		}
		for _, e := range existing {
			if e.Name == d.Name {
				return fmt.Errorf("entity: relation %s.%s already registered", class, d.Name)
			}
		}
		existing = append(existing, d)
	}
	r.classes[class] = existing
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(class string, descs ...Descriptor) {
	if err := r.Register(class, descs...); err != nil {
		panic(err)
	}
}

// Descriptors returns a copy of the descriptors registered for class.
func (r *Registry) Descriptors(class string) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descs := r.classes[class]
	out := make([]Descriptor, len(descs))
	copy(out, descs)
	return out
}

// Relations binds the descriptors of owner's class to owner.
func (r *Registry) Relations(_ context.Context, owner Entity) ([]Relation, error) {
	class := owner.Class()
	descs := r.Descriptors(class)
	rels := make([]Relation, 0, len(descs))
	for _, d := range descs {
		rel := Relation{Name: d.Name, Kind: d.Kind, Target: d.Target}
		if d.Fetch == nil {
			name := d.Name
			rel.load = func(context.Context) ([]Entity, error) {
				return nil, &MisdeclaredError{Class: class, Relation: name, Reason: "no fetch function"}
			}
		} else {
			fetch := d.Fetch
			rel.load = func(ctx context.Context) ([]Entity, error) { return fetch(ctx, owner) }
		}
		rels = append(rels, rel)
	}
	return rels, nil
}
