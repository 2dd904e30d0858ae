package query

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/roach88/sqlcontainer/internal/filter"
	"github.com/roach88/sqlcontainer/internal/sqlerr"
)

// Validate checks that d can be rendered as SQL.
//
// Rules:
//  1. Table is non-empty
//  2. Projected and sort columns are non-empty
//  3. Sort directions are Asc or Desc
//  4. Page offset and length are non-negative and their sum fits in an int
//  5. No predicate is nil, including nil pointers; built-in predicates name
//     a column
//
// Predicates from outside this module are not inspected; their translators
// report their own problems. All problems are collected into a single
// INVALID_DESCRIPTOR error.
func Validate(d Descriptor) error {
	v := &validator{}
	v.validateDescriptor(d)
	return v.err("query descriptor")
}

// ValidateValues checks the column values of an INSERT or UPDATE.
func ValidateValues(table string, values []ColumnValue) error {
	v := &validator{}
	if strings.TrimSpace(table) == "" {
		v.addProblem("empty table name")
	}
	if len(values) == 0 {
		v.addProblem("no column values")
	}
	seen := make(map[string]bool, len(values))
	for i, cv := range values {
		if cv.Column == "" {
			v.addProblem("value %d has an empty column name", i)
			continue
		}
		if seen[cv.Column] {
			v.addProblem("column %q assigned more than once", cv.Column)
		}
		seen[cv.Column] = true
	}
	return v.err("column values")
}

// ValidateFilter checks a filter tree on its own, as used for key filters.
func ValidateFilter(p filter.Predicate) error {
	v := &validator{}
	v.validatePredicate(p)
	return v.err("filter")
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) err(what string) error {
	if len(v.problems) == 0 {
		return nil
	}
	return sqlerr.New(sqlerr.CodeInvalidDescriptor, "invalid %s: %s", what, strings.Join(v.problems, "; "))
}

func (v *validator) validateDescriptor(d Descriptor) {
	if strings.TrimSpace(d.Table) == "" {
		v.addProblem("empty table name")
	}
	for i, col := range d.Columns {
		if col == "" {
			v.addProblem("column %d is empty", i)
		}
	}
	for i, key := range d.OrderBy {
		if key.Column == "" {
			v.addProblem("sort key %d has an empty column", i)
		}
		if key.Direction != Asc && key.Direction != Desc {
			v.addProblem("sort key %d has unknown direction %d", i, key.Direction)
		}
	}
	if d.Page != nil {
		if d.Page.Offset < 0 {
			v.addProblem("negative page offset %d", d.Page.Offset)
		}
		if d.Page.Length < 0 {
			v.addProblem("negative page length %d", d.Page.Length)
		}
		if d.Page.Offset > 0 && d.Page.Length > 0 && d.Page.Offset > math.MaxInt-d.Page.Length {
			v.addProblem("page window %d+%d overflows", d.Page.Offset, d.Page.Length)
		}
	}
	if d.Filter != nil {
		v.validatePredicate(d.Filter)
	}
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p filter.Predicate) {
	if isNilPointer(p) {
		v.addProblem("nil %T predicate", p)
		return
	}
	switch pred := p.(type) {
	case nil:
		v.addProblem("nil predicate")
	case filter.And:
		v.validateChildren("AND", pred.Predicates)
	case *filter.And:
		v.validateChildren("AND", pred.Predicates)
	case filter.Or:
		v.validateChildren("OR", pred.Predicates)
	case *filter.Or:
		v.validateChildren("OR", pred.Predicates)
	case filter.Not:
		v.validateNot(pred)
	case *filter.Not:
		v.validateNot(*pred)
	case filter.Compare:
		v.validateCompare(pred)
	case *filter.Compare:
		v.validateCompare(*pred)
	case filter.Equal, *filter.Equal, filter.Like, *filter.Like,
		filter.SimpleString, *filter.SimpleString, filter.IsNull, *filter.IsNull,
		filter.Between, *filter.Between, filter.In, *filter.In:
		v.validateColumns(p)
	}
}

func (v *validator) validateChildren(op string, children []filter.Predicate) {
	for i, child := range children {
		if child == nil {
			v.addProblem("%s operand %d is nil", op, i)
			continue
		}
		v.validatePredicate(child)
	}
}

func (v *validator) validateNot(not filter.Not) {
	if not.Predicate == nil {
		v.addProblem("NOT without operand")
		return
	}
	v.validatePredicate(not.Predicate)
}

func (v *validator) validateCompare(cmp filter.Compare) {
	v.validateColumns(cmp)
	if !cmp.Op.Valid() {
		v.addProblem("unsupported comparison operator %q", cmp.Op)
	}
}

func (v *validator) validateColumns(p filter.Predicate) {
	for _, col := range p.Columns() {
		if col == "" {
			v.addProblem("%T predicate has an empty column", p)
		}
	}
}

func isNilPointer(p filter.Predicate) bool {
	rv := reflect.ValueOf(p)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
