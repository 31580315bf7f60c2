// Package entity defines what the explorer needs from a data store.
//
// An Entity is one persisted record: a class name, an ordered list of
// attributes and the relations it declares to other entities. The explorer
// never asks how an entity is stored; it only walks this contract.
//
// # Association Kinds
//
// Every relation reports one of two kinds:
//
//   - ToOne: the owner points to at most one related entity ("belongs to")
//   - ToMany: the owner points to any number of related entities ("has many")
//
// Any other Kind value is treated as unsupported and skipped during traversal.
//
// # Static Registration
//
// Relations are described per class with a Registry instead of being
// discovered at runtime:
//
//	reg := entity.NewRegistry()
//	reg.Register("Author", entity.Descriptor{
//	    Name:   "books",
//	    Kind:   entity.ToMany,
//	    Target: "Book",
//	    Fetch:  loadBooks,
//	})
//
// Providers (the in-memory Record, the SQL graph in dialect/sql/sqlgraph) bind
// descriptors to owners with Registry.Relations.
//
// # Identity
//
// Identity returns "<class>_<id>" built from the "id" attribute. Entities that
// carry their key elsewhere implement Identifier.
package entity
