package filter

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/sqlcontainer/internal/sqlerr"
)

// as extracts a T from p, accepting both T and *T.
func as[T Predicate](p Predicate) (T, bool) {
	v, ok := deref(p).(T)
	return v, ok
}

// deref unwraps a non-nil pointer predicate to its value form.
func deref(p Predicate) Predicate {
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if v, ok := rv.Elem().Interface().(Predicate); ok {
			return v
		}
	}
	return p
}

// invalid reports a structurally broken predicate.
func invalid(format string, args ...any) error {
	return sqlerr.New(sqlerr.CodeInvalidDescriptor, format, args...)
}

// upper upper-cases s. Casers are stateful, so each call gets its own.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// AndTranslator renders And as a parenthesized conjunction.
type AndTranslator struct{}

func (AndTranslator) Matches(p Predicate) bool {
	_, ok := as[And](p)
	return ok
}

func (AndTranslator) Render(p Predicate, ctx *Context) (string, error) {
	and, _ := as[And](p)
	if len(and.Predicates) == 0 {
		return "1 = 1", nil
	}
	return renderJoined(and.Predicates, " AND ", ctx)
}

// OrTranslator renders Or as a parenthesized disjunction.
type OrTranslator struct{}

func (OrTranslator) Matches(p Predicate) bool {
	_, ok := as[Or](p)
	return ok
}

func (OrTranslator) Render(p Predicate, ctx *Context) (string, error) {
	or, _ := as[Or](p)
	if len(or.Predicates) == 0 {
		return "1 = 0", nil
	}
	return renderJoined(or.Predicates, " OR ", ctx)
}

func renderJoined(ps []Predicate, sep string, ctx *Context) (string, error) {
	parts := make([]string, 0, len(ps))
	for _, child := range ps {
		frag, err := ctx.Render(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, frag)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// IsNotNullTranslator renders Not(IsNull(c)) as `c IS NOT NULL`.
type IsNotNullTranslator struct{}

func (IsNotNullTranslator) Matches(p Predicate) bool {
	not, ok := as[Not](p)
	if !ok {
		return false
	}
	_, ok = as[IsNull](not.Predicate)
	return ok
}

func (IsNotNullTranslator) Render(p Predicate, ctx *Context) (string, error) {
	not, _ := as[Not](p)
	isNull, _ := as[IsNull](not.Predicate)
	return ctx.Quote(isNull.Column) + " IS NOT NULL", nil
}

// NotTranslator renders Not as `NOT (child)`.
type NotTranslator struct{}

func (NotTranslator) Matches(p Predicate) bool {
	_, ok := as[Not](p)
	return ok
}

func (NotTranslator) Render(p Predicate, ctx *Context) (string, error) {
	not, _ := as[Not](p)
	if not.Predicate == nil {
		return "", invalid("NOT requires a child predicate")
	}
	frag, err := ctx.Render(not.Predicate)
	if err != nil {
		return "", err
	}
	return "NOT (" + frag + ")", nil
}

// IsNullTranslator renders `c IS NULL`.
type IsNullTranslator struct{}

func (IsNullTranslator) Matches(p Predicate) bool {
	_, ok := as[IsNull](p)
	return ok
}

func (IsNullTranslator) Render(p Predicate, ctx *Context) (string, error) {
	isNull, _ := as[IsNull](p)
	return ctx.Quote(isNull.Column) + " IS NULL", nil
}

// SimpleStringTranslator renders SimpleString through the Like rules.
type SimpleStringTranslator struct{}

func (SimpleStringTranslator) Matches(p Predicate) bool {
	_, ok := as[SimpleString](p)
	return ok
}

func (SimpleStringTranslator) Render(p Predicate, ctx *Context) (string, error) {
	ss, _ := as[SimpleString](p)
	return renderLike(ss.Like(), ctx), nil
}

// LikeTranslator renders `c LIKE ?`, or `UPPER(c) LIKE ?` with an
// upper-cased pattern when the match ignores case.
type LikeTranslator struct{}

func (LikeTranslator) Matches(p Predicate) bool {
	_, ok := as[Like](p)
	return ok
}

func (LikeTranslator) Render(p Predicate, ctx *Context) (string, error) {
	like, _ := as[Like](p)
	return renderLike(like, ctx), nil
}

func renderLike(like Like, ctx *Context) string {
	if like.CaseSensitive {
		return ctx.Quote(like.Column) + " LIKE " + ctx.Bind(like.Pattern)
	}
	return "UPPER(" + ctx.Quote(like.Column) + ") LIKE " + ctx.Bind(upper(like.Pattern))
}

// EqualTranslator renders `c = ?`, or `c IS NULL` for a nil value.
type EqualTranslator struct{}

func (EqualTranslator) Matches(p Predicate) bool {
	_, ok := as[Equal](p)
	return ok
}

func (EqualTranslator) Render(p Predicate, ctx *Context) (string, error) {
	eq, _ := as[Equal](p)
	if eq.Value == nil {
		return ctx.Quote(eq.Column) + " IS NULL", nil
	}
	return ctx.Quote(eq.Column) + " = " + ctx.Bind(eq.Value), nil
}

// CompareTranslator renders `c <op> ?`.
type CompareTranslator struct{}

func (CompareTranslator) Matches(p Predicate) bool {
	_, ok := as[Compare](p)
	return ok
}

func (CompareTranslator) Render(p Predicate, ctx *Context) (string, error) {
	cmp, _ := as[Compare](p)
	if !cmp.Op.Valid() {
		return "", invalid("unsupported comparison operator %q on column %q", cmp.Op, cmp.Column)
	}
	if cmp.Value == nil {
		switch cmp.Op {
		case OpEqual:
			return ctx.Quote(cmp.Column) + " IS NULL", nil
		case OpNotEqual:
			return ctx.Quote(cmp.Column) + " IS NOT NULL", nil
		default:
			return "", invalid("operator %s cannot compare column %q with NULL", cmp.Op, cmp.Column)
		}
	}
	return fmt.Sprintf("%s %s %s", ctx.Quote(cmp.Column), cmp.Op, ctx.Bind(cmp.Value)), nil
}

// BetweenTranslator renders `c BETWEEN ? AND ?`, binding start then end.
type BetweenTranslator struct{}

func (BetweenTranslator) Matches(p Predicate) bool {
	_, ok := as[Between](p)
	return ok
}

func (BetweenTranslator) Render(p Predicate, ctx *Context) (string, error) {
	between, _ := as[Between](p)
	start := ctx.Bind(between.Start)
	end := ctx.Bind(between.End)
	return ctx.Quote(between.Column) + " BETWEEN " + start + " AND " + end, nil
}

// InTranslator renders `c IN (?, ?, ...)`. An empty list matches nothing.
type InTranslator struct{}

func (InTranslator) Matches(p Predicate) bool {
	_, ok := as[In](p)
	return ok
}

func (InTranslator) Render(p Predicate, ctx *Context) (string, error) {
	in, _ := as[In](p)
	if len(in.Values) == 0 {
		return "1 = 0", nil
	}
	markers := make([]string, len(in.Values))
	for i, v := range in.Values {
		markers[i] = ctx.Bind(v)
	}
	return ctx.Quote(in.Column) + " IN (" + strings.Join(markers, ", ") + ")", nil
}
