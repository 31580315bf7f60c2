// Package filter provides the filters that govern an exploration.
//
// There are four independent filters plus a depth budget:
//
//   - Class: which related classes are expanded (AllowAll, Allow, Deny)
//   - Associations: which association kinds are followed (ToOne, ToMany)
//   - Attributes: per-class allow-lists of attribute names
//   - AttributeLimit: maximum number of attributes reported per entity
//   - Depth: how many relation steps are taken from the root
//
// # Class Names
//
// Class names are normalized with inflect, so the table spelling and the class
// spelling address the same class:
//
//	filter.Allow("books")        // matches Book
//	filter.Allow("book_reviews") // matches BookReview
//	filter.Deny("Author")        // matches Author
//
// A name that matches no class is not an error; it simply never matches.
//
// # Precedence
//
// A Set holds optional values. Set.Over layers a call-site Set over
// process-wide defaults: every value present in the call-site Set wins.
//
//	call := filter.Set{Associations: filter.NewAssociations(filter.ToMany)}
//	resolved := call.Over(defaults)
//
// Absent associations mean that nothing is expanded; expansion is opt-in.
package filter
