// Package filter defines the predicate tree used in WHERE clauses and the
// registry that translates predicates into parameterized SQL fragments.
//
// Translation is ordered first-match dispatch. The registry walks its
// translators in registration order and the first whose Matches reports
// true renders the predicate:
//
//	var b statement.Builder
//	where, err := filter.Render(
//	    filter.AllOf(filter.Equal{Column: "x", Value: 1},
//	        filter.Between{Column: "y", Start: 0, End: 10}),
//	    &b, quote, nil)
//	// where  == `("x" = ? AND "y" BETWEEN ? AND ?)`
//	// params == [1 0 10]
//
// Translators never inline values. Every operand is bound through
// Context.Bind so the placeholder order matches the parameter order.
package filter
