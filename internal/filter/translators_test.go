package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlcontainer/internal/sqlerr"
	"github.com/roach88/sqlcontainer/internal/statement"
)

func TestTranslators_Render(t *testing.T) {
	testCases := []struct {
		name     string
		pred     Predicate
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "equal",
			pred:     Equal{Column: "name", Value: "bob"},
			wantSQL:  `"name" = ?`,
			wantArgs: []any{"bob"},
		},
		{
			name:    "equal nil",
			pred:    Equal{Column: "name"},
			wantSQL: `"name" IS NULL`,
		},
		{
			name:     "compare",
			pred:     Compare{Column: "age", Op: OpGreaterOrEqual, Value: 21},
			wantSQL:  `"age" >= ?`,
			wantArgs: []any{21},
		},
		{
			name:    "compare not equal nil",
			pred:    Compare{Column: "age", Op: OpNotEqual},
			wantSQL: `"age" IS NOT NULL`,
		},
		{
			name:     "between",
			pred:     Between{Column: "age", Start: 18, End: 65},
			wantSQL:  `"age" BETWEEN ? AND ?`,
			wantArgs: []any{18, 65},
		},
		{
			name:     "in",
			pred:     In{Column: "id", Values: []any{1, 2, 3}},
			wantSQL:  `"id" IN (?, ?, ?)`,
			wantArgs: []any{1, 2, 3},
		},
		{
			name:    "in empty",
			pred:    In{Column: "id"},
			wantSQL: "1 = 0",
		},
		{
			name:    "is null",
			pred:    IsNull{Column: "deleted_at"},
			wantSQL: `"deleted_at" IS NULL`,
		},
		{
			name:    "is not null",
			pred:    NotNull("deleted_at"),
			wantSQL: `"deleted_at" IS NOT NULL`,
		},
		{
			name:     "not",
			pred:     Not{Predicate: Equal{Column: "a", Value: 1}},
			wantSQL:  `NOT ("a" = ?)`,
			wantArgs: []any{1},
		},
		{
			name:     "like case sensitive",
			pred:     Like{Column: "name", Pattern: "Jo%", CaseSensitive: true},
			wantSQL:  `"name" LIKE ?`,
			wantArgs: []any{"Jo%"},
		},
		{
			name:     "like ignore case",
			pred:     Like{Column: "name", Pattern: "jo%"},
			wantSQL:  `UPPER("name") LIKE ?`,
			wantArgs: []any{"JO%"},
		},
		{
			name:     "simple string substring",
			pred:     SimpleString{Column: "city", Value: "ber", IgnoreCase: true},
			wantSQL:  `UPPER("city") LIKE ?`,
			wantArgs: []any{"%BER%"},
		},
		{
			name:     "simple string prefix",
			pred:     SimpleString{Column: "city", Value: "Ber", OnlyMatchPrefix: true},
			wantSQL:  `"city" LIKE ?`,
			wantArgs: []any{"Ber%"},
		},
		{
			name: "and of equal and between",
			pred: AllOf(
				Equal{Column: "x", Value: 1},
				Between{Column: "y", Start: 0, End: 10},
			),
			wantSQL:  `("x" = ? AND "y" BETWEEN ? AND ?)`,
			wantArgs: []any{1, 0, 10},
		},
		{
			name: "nested or",
			pred: AllOf(
				AnyOf(Equal{Column: "a", Value: 1}, Equal{Column: "a", Value: 2}),
				Not{Predicate: In{Column: "b", Values: []any{"x", "y"}}},
			),
			wantSQL:  `(("a" = ? OR "a" = ?) AND NOT ("b" IN (?, ?)))`,
			wantArgs: []any{1, 2, "x", "y"},
		},
		{
			name:    "empty and",
			pred:    And{},
			wantSQL: "1 = 1",
		},
		{
			name:    "empty or",
			pred:    Or{},
			wantSQL: "1 = 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := render(t, tc.pred)
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestTranslators_PointerPredicates(t *testing.T) {
	sql, args := render(t, &And{Predicates: []Predicate{
		&Equal{Column: "x", Value: 1},
		&Not{Predicate: &IsNull{Column: "y"}},
	}})
	assert.Equal(t, `("x" = ? AND "y" IS NOT NULL)`, sql)
	assert.Equal(t, []any{1}, args)
}

func TestTranslators_ValuesNeverInlined(t *testing.T) {
	sql, args := render(t, Equal{Column: "name", Value: "Robert'); DROP TABLE students;--"})
	assert.NotContains(t, sql, "DROP")
	assert.Len(t, args, 1)
}

func TestTranslators_UpperCaseUnicode(t *testing.T) {
	_, args := render(t, Like{Column: "name", Pattern: "émile%"})
	assert.Equal(t, []any{"ÉMILE%"}, args)
}

func TestTranslators_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		pred Predicate
	}{
		{"unknown operator", Compare{Column: "a", Op: "!=", Value: 1}},
		{"ordering against null", Compare{Column: "a", Op: OpLess}},
		{"not without child", Not{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var b statement.Builder
			_, err := Render(tc.pred, &b, doubleQuote, nil)
			require.Error(t, err)
			assert.True(t, sqlerr.IsInvalidDescriptor(err))
		})
	}
}

func TestPredicate_Columns(t *testing.T) {
	p := AllOf(
		Equal{Column: "a"},
		AnyOf(IsNull{Column: "b"}, NotNull("c")),
		Not{},
	)
	assert.Equal(t, []string{"a", "b", "c"}, p.Columns())
}
