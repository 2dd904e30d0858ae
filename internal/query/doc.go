// Package query describes what a generated SELECT should return, independent
// of any SQL dialect.
//
// A Descriptor names a table, the columns to project, an optional filter
// tree, sort keys and a paging window:
//
//	query.Descriptor{
//	    Table:   "people",
//	    Columns: []string{"id", "name"},
//	    Filter:  filter.Between{Column: "age", Start: 18, End: 65},
//	    OrderBy: []query.SortKey{{Column: "name"}},
//	    Page:    &query.Page{Offset: 10, Length: 5},
//	}
//
// Generators in sqlgen turn a Descriptor into dialect-specific SQL. Validate
// rejects descriptors that cannot be rendered before any text is produced.
package query
