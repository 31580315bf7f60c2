// Package sqlgraph exposes the rows of a relational database as entities.
//
// A Schema lists the tables to walk and the edges between them. Each table
// becomes a class and each edge a relation whose rows are loaded lazily with
// one query:
//
//	s := &sqlgraph.Schema{Tables: []*sqlgraph.Table{
//	    {Name: "authors", Edges: []*sqlgraph.Edge{
//	        {Name: "books", Kind: entity.ToMany, Table: "books", Column: "author_id"},
//	    }},
//	    {Name: "books", Edges: []*sqlgraph.Edge{
//	        {Name: "author", Kind: entity.ToOne, Table: "authors", Column: "author_id"},
//	    }},
//	}}
//	g, err := sqlgraph.NewGraph(drv, s)
//	if err != nil {
//	    return err
//	}
//	author, err := g.Find(ctx, "authors", 1)
//	if err != nil {
//	    return err
//	}
//	err = explorer.New(author, explorer.WithDepth(2)).Console(ctx, os.Stdout)
//
// Edges naming a missing table or column surface as misdeclared relations
// when they are loaded, so one broken edge fails its node and not the whole
// exploration.
package sqlgraph
