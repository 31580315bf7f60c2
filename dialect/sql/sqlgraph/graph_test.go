package sqlgraph

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/explorer"
	"github.com/syssam/explorer/dialect"
	"github.com/syssam/explorer/dialect/sql"
	"github.com/syssam/explorer/entity"
	"github.com/syssam/explorer/filter"
)

const fixture = `
CREATE TABLE authors (id INTEGER PRIMARY KEY, first_name TEXT, last_name TEXT);
CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT, author_id INTEGER REFERENCES authors(id));
CREATE TABLE reviews (id INTEGER PRIMARY KEY, stars INTEGER, book_id INTEGER REFERENCES books(id), author_id INTEGER REFERENCES authors(id));
CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT);
CREATE TABLE book_tags (book_id INTEGER REFERENCES books(id), tag_id INTEGER REFERENCES tags(id));
INSERT INTO authors VALUES (1, 'Ursula', 'Le Guin'), (2, 'John', 'Doe');
INSERT INTO books VALUES (10, 'The Dispossessed', 1), (11, 'The Lathe of Heaven', 1);
INSERT INTO reviews VALUES (100, 5, 10, 2), (101, 4, 11, 2);
INSERT INTO tags VALUES (1000, 'anarchism'), (1001, 'utopia');
INSERT INTO book_tags VALUES (10, 1000), (10, 1001);
`

func librarySchema() *Schema {
	return &Schema{Tables: []*Table{
		{Name: "authors", Edges: []*Edge{
			{Name: "books", Kind: entity.ToMany, Table: "books", Column: "author_id"},
			{Name: "reviews", Kind: entity.ToMany, Table: "reviews", Column: "author_id"},
		}},
		{Name: "books", Edges: []*Edge{
			{Name: "author", Kind: entity.ToOne, Table: "authors", Column: "author_id"},
			{Name: "reviews", Kind: entity.ToMany, Table: "reviews", Column: "book_id"},
			{Name: "tags", Kind: entity.ToMany, Table: "tags", Through: &Through{Table: "book_tags", Column: "book_id", RefColumn: "tag_id"}},
		}},
		{Name: "reviews", Edges: []*Edge{
			{Name: "book", Kind: entity.ToOne, Table: "books", Column: "book_id"},
			{Name: "author", Kind: entity.ToOne, Table: "authors", Column: "author_id"},
		}},
		{Name: "tags"},
	}}
}

func openLibrary(t *testing.T) *sql.Driver {
	t.Helper()
	db, err := stdsql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(fixture)
	require.NoError(t, err)
	return sql.OpenDB(dialect.SQLite, db)
}

func TestGraphFind(t *testing.T) {
	g, err := NewGraph(openLibrary(t), librarySchema())
	require.NoError(t, err)

	author, err := g.Find(context.Background(), "authors", 1)
	require.NoError(t, err)
	assert.Equal(t, "Author", author.Class())
	assert.Equal(t, []string{"id", "first_name", "last_name"}, author.Attributes().Names())
	assert.Equal(t, "Author_1", entity.Identity(author))

	book, err := g.Find(context.Background(), "Book", 10)
	require.NoError(t, err)
	title, _ := book.Attributes().Get("title")
	assert.Equal(t, "The Dispossessed", title)

	_, err = g.Find(context.Background(), "authors", 42)
	require.Error(t, err)
	assert.True(t, explorer.IsNotFound(err))
	assert.Contains(t, err.Error(), "Author not found (id=42)")

	_, err = g.Find(context.Background(), "spaceships", 1)
	assert.True(t, explorer.IsNotFound(err))
}

func TestGraphRelations(t *testing.T) {
	g, err := NewGraph(openLibrary(t), librarySchema())
	require.NoError(t, err)
	ctx := context.Background()

	book, err := g.Find(ctx, "books", 10)
	require.NoError(t, err)
	rels, err := book.Relations(ctx)
	require.NoError(t, err)
	require.Len(t, rels, 3)

	keys := func(rel entity.Relation) []string {
		related, err := rel.Load(ctx)
		require.NoError(t, err)
		out := make([]string, len(related))
		for i, e := range related {
			out[i] = entity.Identity(e)
		}
		return out
	}
	assert.Equal(t, "Author", rels[0].Target)
	assert.Equal(t, []string{"Author_1"}, keys(rels[0]))
	assert.Equal(t, []string{"Review_100"}, keys(rels[1]))
	assert.Equal(t, []string{"Tag_1000", "Tag_1001"}, keys(rels[2]))
}

func TestGraphExplore(t *testing.T) {
	g, err := NewGraph(openLibrary(t), librarySchema())
	require.NoError(t, err)
	ctx := context.Background()

	author, err := g.Find(ctx, "authors", 1)
	require.NoError(t, err)
	x := explorer.New(author,
		explorer.WithAssociations(filter.All),
		explorer.WithClassFilter(filter.Deny("tags")),
		explorer.WithAttributeFilter(filter.Attributes{"books": {"id", "title"}, "reviews": {"id", "stars"}}),
	)
	want := `Author(1) {first_name: "Ursula", last_name: "Le Guin"}
  -> has Book(10) {title: "The Dispossessed"}
      -> has Review(100) {stars: 5}
          -> Author(2) {first_name: "John", last_name: "Doe"}
              -> has Review(101) {stars: 4}
                  -> Book(11) {title: "The Lathe of Heaven"}
  -> has Book(11) {title: "The Lathe of Heaven"}
`
	assert.Equal(t, want, x.Text(ctx))
}

func TestGraphMisdeclaredEdges(t *testing.T) {
	schema := librarySchema()
	authors, _ := schema.Table("authors")
	authors.Edges = append(authors.Edges,
		&Edge{Name: "ghosts", Kind: entity.ToMany, Table: "ghosts", Column: "author_id"},
	)
	g, err := NewGraph(openLibrary(t), schema)
	require.NoError(t, err)
	ctx := context.Background()

	author, err := g.Find(ctx, "authors", 1)
	require.NoError(t, err)
	n := explorer.New(author, explorer.WithAssociations(filter.All)).Node(ctx)
	assert.Contains(t, n.Err, "Error in Author: relation Author.ghosts is misdeclared")
	assert.Contains(t, n.Err, "no such table")
	assert.False(t, n.Expanded)

	schema = librarySchema()
	books, _ := schema.Table("books")
	books.Edges = append(books.Edges, &Edge{Name: "publishers", Kind: entity.ToMany, Table: "publishers"})
	g, err = NewGraph(openLibrary(t), schema)
	require.NoError(t, err)
	author, err = g.Find(ctx, "authors", 1)
	require.NoError(t, err)
	n = explorer.New(author, explorer.WithAssociations(filter.ToMany)).Node(ctx)
	require.Len(t, n.Children, 2)
	assert.Contains(t, n.Children[0].Err, "no fetch function")
}

func TestNewGraphDuplicateRelation(t *testing.T) {
	schema := &Schema{Tables: []*Table{
		{Name: "books", Edges: []*Edge{{Name: "author", Kind: entity.ToOne, Table: "authors", Column: "author_id"}}},
		{Name: "book", Edges: []*Edge{{Name: "author", Kind: entity.ToOne, Table: "authors", Column: "author_id"}}},
	}}
	_, err := NewGraph(openLibrary(t), schema)
	assert.Error(t, err)
}

func TestGraphQueriesPerDialect(t *testing.T) {
	tests := []struct {
		dialect string
		find    string
		many    string
		through string
	}{
		{
			dialect: dialect.Postgres,
			find:    `SELECT * FROM "authors" WHERE "id" = $1`,
			many:    `SELECT * FROM "books" WHERE "author_id" = $1 ORDER BY "id"`,
			through: `SELECT t.* FROM "tags" AS t JOIN "book_tags" AS j ON j."tag_id" = t."id" WHERE j."book_id" = $1 ORDER BY t."id"`,
		},
		{
			dialect: dialect.MySQL,
			find:    "SELECT * FROM `authors` WHERE `id` = ?",
			many:    "SELECT * FROM `books` WHERE `author_id` = ? ORDER BY `id`",
			through: "SELECT t.* FROM `tags` AS t JOIN `book_tags` AS j ON j.`tag_id` = t.`id` WHERE j.`book_id` = ? ORDER BY t.`id`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			g, err := NewGraph(sql.OpenDB(tt.dialect, db), librarySchema())
			require.NoError(t, err)
			ctx := context.Background()

			mock.ExpectQuery(regexp.QuoteMeta(tt.find)).WithArgs(1).
				WillReturnRows(sqlmock.NewRows([]string{"id", "first_name"}).AddRow(1, "Ursula"))
			author, err := g.Find(ctx, "authors", 1)
			require.NoError(t, err)

			mock.ExpectQuery(regexp.QuoteMeta(tt.many)).WithArgs(1).
				WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id"}).AddRow(10, "Dune", 1))
			rels, err := author.Relations(ctx)
			require.NoError(t, err)
			books, err := rels[0].Load(ctx)
			require.NoError(t, err)
			require.Len(t, books, 1)

			mock.ExpectQuery(regexp.QuoteMeta(tt.through)).WithArgs(10).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
			rels, err = books[0].Relations(ctx)
			require.NoError(t, err)
			tags, err := rels[2].Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, tags)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGraphToOneWithNullColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	g, err := NewGraph(sql.OpenDB(dialect.Postgres, db), librarySchema())
	require.NoError(t, err)
	ctx := context.Background()
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "author_id"}).AddRow(12, nil))
	book, err := g.Find(ctx, "books", 12)
	require.NoError(t, err)

	rels, err := book.Relations(ctx)
	require.NoError(t, err)
	related, err := rels[0].Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, related, "a null foreign key has no related row")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBinaryIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	raw := id[:]
	g, err := NewGraph(sql.OpenDB(dialect.MySQL, db), librarySchema())
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectQuery("SELECT").WithArgs(raw).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name"}).AddRow(raw, []byte("Ursula")))
	author, err := g.Find(ctx, "authors", raw)
	require.NoError(t, err)
	assert.Equal(t, id.String(), author.ID())
	name, _ := author.Attributes().Get("first_name")
	assert.Equal(t, "Ursula", name)

	mock.ExpectQuery("SELECT").WithArgs(raw).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	rels, err := author.Relations(ctx)
	require.NoError(t, err)
	_, err = rels[0].Load(ctx)
	require.NoError(t, err, "joins use the raw binary value")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUndefinedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"pq_table", &pq.Error{Code: "42P01"}, true},
		{"pq_column", &pq.Error{Code: "42703"}, true},
		{"pq_other", &pq.Error{Code: "23505"}, false},
		{"mysql_table", &mysql.MySQLError{Number: 1146}, true},
		{"mysql_column", &mysql.MySQLError{Number: 1054}, true},
		{"mysql_other", &mysql.MySQLError{Number: 1062}, false},
		{"sqlite", errors.New("SQL logic error: no such table: ghosts (1)"), true},
		{"wrapped", fmt.Errorf("dialect/sql: query: %w", &pq.Error{Code: "42P01"}), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUndefinedError(tt.err))
		})
	}
}
