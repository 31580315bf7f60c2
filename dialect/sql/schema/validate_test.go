package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/explorer/dialect"
	"github.com/syssam/explorer/dialect/sql/sqlgraph"
	"github.com/syssam/explorer/entity"
)

func messages(errs []*ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

func TestValidateSchema(t *testing.T) {
	s := &sqlgraph.Schema{Tables: []*sqlgraph.Table{
		{Name: "authors", Edges: []*sqlgraph.Edge{
			{Name: "books", Kind: entity.ToMany, Table: "books", Column: "author_id"},
			{Name: "books", Kind: entity.ToMany, Table: "books", Column: "author_id"},
			{Name: "ghosts", Kind: entity.ToMany, Table: "ghosts", Column: "author_id"},
			{Name: "agent", Kind: entity.Kind(9), Table: "authors", Column: "agent_id"},
			{Name: "tags", Kind: entity.ToMany, Table: "tags", Through: &sqlgraph.Through{Table: "author_tags"}},
			{Name: "editor", Kind: entity.ToOne, Table: "authors"},
		}},
		{Name: "books"},
		{Name: "Books"},
		{Name: "author"},
		{Name: ""},
		{Name: "tags"},
	}}

	result := ValidateSchema(s)
	assert.Equal(t, []string{
		"Books: duplicate table name",
		`author: class Author is also used by table "authors"`,
		"table without a name",
		"authors: duplicate edge name: books",
		`authors: edge "ghosts" references non-existent table "ghosts"`,
		`authors: edge "tags" has an incomplete join table`,
		`authors: edge "editor" has no column`,
	}, messages(result.Errors))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Error(), `edge "agent" has unsupported kind`)
	assert.True(t, result.HasBreakingChanges())
}

func TestValidateSchemaValid(t *testing.T) {
	s := &sqlgraph.Schema{Tables: []*sqlgraph.Table{
		{Name: "authors", Edges: []*sqlgraph.Edge{
			{Name: "books", Kind: entity.ToMany, Table: "books", Column: "author_id"},
		}},
		{Name: "books", Edges: []*sqlgraph.Edge{
			{Name: "author", Kind: entity.ToOne, Table: "Author", Column: "author_id"},
		}},
	}}
	result := ValidateSchema(s)
	assert.False(t, result.HasErrors())
	assert.False(t, result.HasWarnings())
	assert.Equal(t, "No issues found", result.String())
}

func TestCheck(t *testing.T) {
	db := openLibrary(t)
	s := &sqlgraph.Schema{Tables: []*sqlgraph.Table{
		{Name: "authors", Columns: []string{"id", "name", "email"}, Edges: []*sqlgraph.Edge{
			{Name: "books", Kind: entity.ToMany, Table: "books", Column: "writer_id"},
		}},
		{Name: "books", Edges: []*sqlgraph.Edge{
			{Name: "author", Kind: entity.ToOne, Table: "authors", Column: "author_id"},
			{Name: "tags", Kind: entity.ToMany, Table: "tags", Through: &sqlgraph.Through{Table: "book_tags", Column: "book_id", RefColumn: "label_id"}},
		}},
		{Name: "tags"},
		{Name: "book_tags", PrimaryKey: "book_id"},
		{Name: "ghosts"},
	}}

	result, err := Check(context.Background(), db, dialect.SQLite, s)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"authors.email: column does not exist",
		"books.writer_id: column does not exist",
		"book_tags.label_id: column does not exist",
		"ghosts: table does not exist",
	}, messages(result.Errors))
	assert.Equal(t, []string{"book_tags: table has no primary key"}, messages(result.Warnings))
	assert.True(t, result.HasBreakingChanges())
	assert.Contains(t, result.String(), "ghosts: table does not exist [BREAKING]")

	inspected, err := Inspect(context.Background(), db, dialect.SQLite)
	require.NoError(t, err)
	result, err = Check(context.Background(), db, dialect.SQLite, inspected)
	require.NoError(t, err)
	assert.False(t, result.HasErrors(), result.String())
}

func TestValidationErrorFormat(t *testing.T) {
	assert.Equal(t, "books.title: column does not exist", (&ValidationError{Table: "books", Column: "title", Message: "column does not exist"}).Error())
	assert.Equal(t, "books: table does not exist", (&ValidationError{Table: "books", Message: "table does not exist"}).Error())
}
