// Package descriptor loads query descriptors from YAML, JSON or CUE
// documents.
//
// A document names the table, projection, sort keys, paging window and a
// filter tree. Each filter node is a map with exactly one key naming the
// predicate:
//
//	table: people
//	columns: [id, name]
//	filter:
//	  and:
//	    - between: {column: age, start: 18, end: 65}
//	    - simple_string: {column: name, value: an, ignore_case: true}
//	    - not: {is_null: email}
//	order_by:
//	  - {column: name}
//	  - {column: id, direction: desc}
//	page: {offset: 10, length: 5}
//
// Predicate keys: equal, compare, like, simple_string, is_null, between,
// in, and, or, not. Unknown keys anywhere in the document are load errors.
// Integer literals decode as int64 and other numbers as float64.
package descriptor
