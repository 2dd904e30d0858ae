package descriptor

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/sqlcontainer/internal/filter"
)

// parsePredicate converts one decoded filter node.
func parsePredicate(node any, path string) (filter.Predicate, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, errorf(path, "filter node must be a map, got %T", node)
	}
	if len(m) != 1 {
		return nil, errorf(path, "filter node must have exactly one key, got %s", keyList(m))
	}
	for key, body := range m {
		return parseNode(key, body, path+"."+key)
	}
	panic("unreachable")
}

func parseNode(key string, body any, path string) (filter.Predicate, error) {
	switch key {
	case "and", "or":
		children, err := parseList(body, path)
		if err != nil {
			return nil, err
		}
		if key == "and" {
			return filter.And{Predicates: children}, nil
		}
		return filter.Or{Predicates: children}, nil

	case "not":
		child, err := parsePredicate(body, path)
		if err != nil {
			return nil, err
		}
		return filter.Not{Predicate: child}, nil

	case "is_null":
		if col, ok := body.(string); ok {
			return filter.IsNull{Column: col}, nil
		}
		f, err := fieldsOf(body, path, "column")
		if err != nil {
			return nil, err
		}
		col, err := f.str("column", true)
		return filter.IsNull{Column: col}, err

	case "equal":
		f, err := fieldsOf(body, path, "column", "value")
		if err != nil {
			return nil, err
		}
		col, err := f.str("column", true)
		return filter.Equal{Column: col, Value: f.value("value")}, err

	case "compare":
		f, err := fieldsOf(body, path, "column", "op", "value")
		if err != nil {
			return nil, err
		}
		col, err := f.str("column", true)
		if err != nil {
			return nil, err
		}
		op, err := f.str("op", true)
		if err != nil {
			return nil, err
		}
		if !filter.Operator(op).Valid() {
			return nil, errorf(path, "unsupported operator %q", op)
		}
		return filter.Compare{Column: col, Op: filter.Operator(op), Value: f.value("value")}, nil

	case "like":
		f, err := fieldsOf(body, path, "column", "pattern", "case_sensitive")
		if err != nil {
			return nil, err
		}
		col, err := f.str("column", true)
		if err != nil {
			return nil, err
		}
		pattern, err := f.str("pattern", true)
		if err != nil {
			return nil, err
		}
		cs, err := f.boolean("case_sensitive")
		return filter.Like{Column: col, Pattern: pattern, CaseSensitive: cs}, err

	case "simple_string":
		f, err := fieldsOf(body, path, "column", "value", "ignore_case", "only_match_prefix")
		if err != nil {
			return nil, err
		}
		col, err := f.str("column", true)
		if err != nil {
			return nil, err
		}
		val, err := f.str("value", false)
		if err != nil {
			return nil, err
		}
		ic, err := f.boolean("ignore_case")
		if err != nil {
			return nil, err
		}
		prefix, err := f.boolean("only_match_prefix")
		return filter.SimpleString{Column: col, Value: val, IgnoreCase: ic, OnlyMatchPrefix: prefix}, err

	case "between":
		f, err := fieldsOf(body, path, "column", "start", "end")
		if err != nil {
			return nil, err
		}
		col, err := f.str("column", true)
		return filter.Between{Column: col, Start: f.value("start"), End: f.value("end")}, err

	case "in":
		f, err := fieldsOf(body, path, "column", "values")
		if err != nil {
			return nil, err
		}
		col, err := f.str("column", true)
		if err != nil {
			return nil, err
		}
		raw, ok := f.m["values"].([]any)
		if !ok && f.m["values"] != nil {
			return nil, errorf(path, "values must be a list")
		}
		values := make([]any, len(raw))
		for i, v := range raw {
			values[i] = scalar(v)
		}
		return filter.In{Column: col, Values: values}, nil
	}
	return nil, errorf(path, "unknown predicate %q", key)
}

func parseList(body any, path string) ([]filter.Predicate, error) {
	items, ok := body.([]any)
	if !ok {
		return nil, errorf(path, "expected a list of filter nodes, got %T", body)
	}
	out := make([]filter.Predicate, 0, len(items))
	for i, item := range items {
		p, err := parsePredicate(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// fields is a predicate body with its keys checked.
type fields struct {
	path string
	m    map[string]any
}

func fieldsOf(body any, path string, allowed ...string) (fields, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return fields{}, errorf(path, "expected a map, got %T", body)
	}
	for k := range m {
		if !slices.Contains(allowed, k) {
			return fields{}, errorf(path, "unknown field %q (allowed: %s)", k, strings.Join(allowed, ", "))
		}
	}
	return fields{path: path, m: m}, nil
}

func (f fields) str(key string, required bool) (string, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		if required {
			return "", errorf(f.path, "missing %s", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errorf(f.path, "%s must be a string, got %T", key, v)
	}
	return s, nil
}

func (f fields) boolean(key string) (bool, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errorf(f.path, "%s must be a boolean, got %T", key, v)
	}
	return b, nil
}

func (f fields) value(key string) any {
	return scalar(f.m[key])
}

// scalar normalizes decoded numbers: integers become int64, other numbers
// float64.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case uint64:
		return n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}
	return v
}

func keyList(m map[string]any) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

