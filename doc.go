// Package explorer walks the relations of a persisted entity and reports
// what it reaches, as an indented console report or as a Graphviz diagram.
//
// An exploration starts from one root entity and follows its relations
// depth-first. Which relations are followed and what is reported is decided
// by a filter.Set:
//
//   - the class filter keeps or hides related entities by class,
//   - the association filter selects to-one and to-many relations,
//   - the attribute filter and limit decide which attributes are shown,
//   - the depth limits how far the walk goes.
//
// No relation is followed unless an association filter is set:
//
//	x := explorer.New(author, explorer.WithAssociations(filter.All))
//	fmt.Print(x.Text(ctx))
//
// Defaults shared by many explorations live in a Config:
//
//	cfg := explorer.NewConfig()
//	cfg.SetAssociationFilter(filter.NewAssociations(filter.All))
//	x := explorer.New(book, explorer.WithConfig(cfg), explorer.WithDepth(2))
//
// The same pair of entities is never walked twice in one traversal, which
// keeps the walk finite when relations point back at each other. A relation
// that fails to load marks its owner's node with an error instead of
// failing the exploration.
package explorer
