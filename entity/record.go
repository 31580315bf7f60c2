package entity

import (
	"context"
	"fmt"
)

// Record is an in-memory entity. It is used for fixtures, examples and
// for stores that already hold their object graph in memory.
type Record struct {
	class string
	attrs Attributes
	rels  []*recordRelation
	err   error
}

type recordRelation struct {
	name    string
	kind    Kind
	target  string
	records []*Record
	err     error
}

var _ Entity = (*Record)(nil)

// NewRecord returns a record of class with the given attributes.
func NewRecord(class string, attrs ...Attribute) *Record {
	return &Record{class: class, attrs: attrs}
}

// Attr is shorthand for an Attribute literal.
func Attr(name string, value any) Attribute {
	return Attribute{Name: name, Value: value}
}

// Class implements Entity.
func (r *Record) Class() string { return r.class }

// Attributes implements Entity.
func (r *Record) Attributes() Attributes { return r.attrs.Clone() }

// Set sets an attribute, appending it when absent.
func (r *Record) Set(name string, value any) *Record {
	for i := range r.attrs {
		if r.attrs[i].Name == name {
			r.attrs[i].Value = value
			return r
		}
	}
	r.attrs = append(r.attrs, Attribute{Name: name, Value: value})
	return r
}

// BelongsTo declares a to-one relation. A nil target declares the relation
// without a related record.
func (r *Record) BelongsTo(name string, target *Record) *Record {
	rel := r.relation(name, ToOne)
	if target != nil {
		rel.records = []*Record{target}
		rel.target = target.class
	}
	return r
}

// HasMany declares a to-many relation, appending targets when it already exists.
func (r *Record) HasMany(name string, targets ...*Record) *Record {
	rel := r.relation(name, ToMany)
	rel.records = append(rel.records, targets...)
	if rel.target == "" && len(targets) > 0 {
		rel.target = targets[0].class
	}
	return r
}

// Relate declares a relation of any kind, including unsupported ones.
func (r *Record) Relate(name string, kind Kind, target string, targets ...*Record) *Record {
	rel := r.relation(name, kind)
	rel.target = target
	rel.records = append(rel.records, targets...)
	return r
}

// Broken declares a relation whose lookup fails with err.
func (r *Record) Broken(name string, kind Kind, err error) *Record {
	rel := r.relation(name, kind)
	rel.err = err
	return r
}

// Fail makes Relations itself fail with err.
func (r *Record) Fail(err error) *Record {
	r.err = err
	return r
}

func (r *Record) relation(name string, kind Kind) *recordRelation {
	for _, rel := range r.rels {
		if rel.name == name {
			rel.kind = kind
			return rel
		}
	}
	rel := &recordRelation{name: name, kind: kind}
	r.rels = append(r.rels, rel)
	return rel
}

// Relations implements Entity.
func (r *Record) Relations(context.Context) ([]Relation, error) {
	if r.err != nil {
		return nil, r.err
	}
	rels := make([]Relation, 0, len(r.rels))
	for _, rel := range r.rels {
		rel := rel
		rels = append(rels, NewRelation(rel.name, rel.kind, rel.target, func(context.Context) ([]Entity, error) {
			if rel.err != nil {
				return nil, rel.err
			}
			out := make([]Entity, len(rel.records))
			for i, rec := range rel.records {
				out[i] = rec
			}
			return out, nil
		}))
	}
	return rels, nil
}

// String returns the record identity.
func (r *Record) String() string {
	return fmt.Sprintf("%s(%s)", r.class, FormatID(r.id()))
}

func (r *Record) id() any {
	id, _ := r.attrs.Get(IDAttribute)
	return id
}
