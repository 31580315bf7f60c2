package explorer

import (
	"errors"
	"fmt"

	"github.com/syssam/explorer/entity"
)

// ErrNotFound is returned when the entity to explore does not exist.
var ErrNotFound = errors.New("explorer: entity not found")

// NotFoundError represents an error when an entity is not found.
type NotFoundError struct {
	class string
	id    any // Optional: the ID that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("explorer: %s not found (id=%v)", e.class, e.id)
	}
	return fmt.Sprintf("explorer: %s not found", e.class)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Class returns the class that was searched.
func (e *NotFoundError) Class() string {
	return e.class
}

// ID returns the ID that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given class.
func NewNotFoundError(class string) *NotFoundError {
	return &NotFoundError{class: class}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the ID that was searched for.
func NewNotFoundErrorWithID(class string, id any) *NotFoundError {
	return &NotFoundError{class: class, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// RelationError represents a relation that is declared in a way the
// explorer cannot follow.
type RelationError struct {
	Class    string // Class of the owner entity
	Relation string // Relation name, empty when the relation list failed
	Err      error  // Underlying error
}

// Error returns the error string.
func (e *RelationError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("explorer: relation %s.%s: %v", e.Class, e.Relation, e.Err)
	}
	return fmt.Sprintf("explorer: relations of %s: %v", e.Class, e.Err)
}

// Unwrap returns the underlying error.
func (e *RelationError) Unwrap() error {
	return e.Err
}

// NewRelationError returns a new RelationError.
func NewRelationError(class, relation string, err error) *RelationError {
	return &RelationError{Class: class, Relation: relation, Err: err}
}

// IsRelationError returns true if the error is a RelationError.
func IsRelationError(err error) bool {
	if err == nil {
		return false
	}
	var e *RelationError
	return errors.As(err, &e)
}

// LookupError wraps a failure of the store while reading related entities.
type LookupError struct {
	Class    string // Class of the owner entity
	Relation string // Relation name, empty when the relation list failed
	Err      error  // Underlying error
}

// Error returns the error string.
func (e *LookupError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("explorer: loading %s.%s: %v", e.Class, e.Relation, e.Err)
	}
	return fmt.Sprintf("explorer: loading relations of %s: %v", e.Class, e.Err)
}

// Unwrap returns the underlying error.
func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError returns a new LookupError.
func NewLookupError(class, relation string, err error) *LookupError {
	return &LookupError{Class: class, Relation: relation, Err: err}
}

// IsLookupError returns true if the error is a LookupError.
func IsLookupError(err error) bool {
	if err == nil {
		return false
	}
	var e *LookupError
	return errors.As(err, &e)
}

// classify wraps a traversal failure: misdeclared relations become a
// RelationError, everything else a LookupError.
func classify(class, relation string, err error) error {
	var mis *entity.MisdeclaredError
	if errors.As(err, &mis) {
		return NewRelationError(class, relation, err)
	}
	return NewLookupError(class, relation, err)
}

// nodeError formats the error marker of a failed node.
func nodeError(class string, err error) string {
	var (
		rel *RelationError
		lkp *LookupError
	)
	switch {
	case errors.As(err, &rel):
		err = rel.Err
	case errors.As(err, &lkp):
		err = lkp.Err
	}
	return fmt.Sprintf("Error in %s: %v", class, err)
}
