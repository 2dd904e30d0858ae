package filter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlcontainer/internal/sqlerr"
	"github.com/roach88/sqlcontainer/internal/statement"
)

func doubleQuote(s string) string { return `"` + s + `"` }

// render translates p with the built-in registry and returns the fragment
// and bound parameters.
func render(t *testing.T, p Predicate) (string, []any) {
	t.Helper()
	var b statement.Builder
	frag, err := Render(p, &b, doubleQuote, NewRegistry(Builtins()...))
	require.NoError(t, err)
	b.WriteString(frag)
	stmt, err := b.Build()
	require.NoError(t, err)
	return frag, stmt.Args
}

// Range is a predicate type no built-in translator knows about.
type Range struct {
	Column string
	Low    int
	High   int
}

func (r Range) Columns() []string { return []string{r.Column} }

type rangeTranslator struct{}

func (rangeTranslator) Matches(p Predicate) bool {
	_, ok := p.(Range)
	return ok
}

func (rangeTranslator) Render(p Predicate, ctx *Context) (string, error) {
	r := p.(Range)
	lo := ctx.Bind(r.Low)
	hi := ctx.Bind(r.High)
	return ctx.Quote(r.Column) + " >= " + lo + " AND " + ctx.Quote(r.Column) + " < " + hi, nil
}

func TestRegistry_NoTranslator(t *testing.T) {
	r := NewRegistry(Builtins()...)

	_, err := r.TranslatorFor(Range{Column: "n", Low: 1, High: 2})
	require.Error(t, err)
	assert.True(t, sqlerr.IsNoTranslator(err))

	var b statement.Builder
	_, err = Render(AllOf(Equal{Column: "a", Value: 1}, Range{Column: "n"}), &b, doubleQuote, r)
	require.Error(t, err)
	assert.True(t, sqlerr.IsNoTranslator(err))
}

func TestRegistry_NilPredicate(t *testing.T) {
	var b statement.Builder
	_, err := Render(nil, &b, doubleQuote, nil)
	require.Error(t, err)
	assert.True(t, sqlerr.IsNoTranslator(err))
}

func TestRegistry_CustomTranslator(t *testing.T) {
	r := NewRegistry(Builtins()...)
	r.Register(rangeTranslator{})

	var b statement.Builder
	frag, err := Render(AnyOf(Range{Column: "n", Low: 1, High: 5}, IsNull{Column: "n"}), &b, doubleQuote, r)
	require.NoError(t, err)
	assert.Equal(t, `("n" >= ? AND "n" < ? OR "n" IS NULL)`, frag)
	assert.Equal(t, 2, b.Len())

	// Registration on a private registry leaves the default untouched.
	_, err = DefaultRegistry().TranslatorFor(Range{})
	assert.True(t, sqlerr.IsNoTranslator(err))
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	r := NewRegistry(Builtins()...)

	tr, err := r.TranslatorFor(NotNull("a"))
	require.NoError(t, err)
	assert.IsType(t, IsNotNullTranslator{}, tr)

	tr, err = r.TranslatorFor(Not{Predicate: Equal{Column: "a", Value: 1}})
	require.NoError(t, err)
	assert.IsType(t, NotTranslator{}, tr)

	// Reversing the order makes the general Not translator shadow IsNotNull.
	shadowed := NewRegistry(NotTranslator{}, IsNotNullTranslator{}, IsNullTranslator{})
	var b statement.Builder
	frag, err := Render(NotNull("a"), &b, doubleQuote, shadowed)
	require.NoError(t, err)
	assert.Equal(t, `NOT ("a" IS NULL)`, frag)
}

func TestRegistry_TranslatorsSnapshot(t *testing.T) {
	r := NewRegistry(Builtins()...)
	snap := r.Translators()
	require.Len(t, snap, len(Builtins()))

	r.Register(rangeTranslator{})
	assert.Len(t, snap, len(Builtins()))
	assert.Len(t, r.Translators(), len(Builtins())+1)
}

func TestRegistry_ConcurrentLookups(t *testing.T) {
	r := NewRegistry(Builtins()...)
	p := AllOf(Equal{Column: "x", Value: 1}, Between{Column: "y", Start: 0, End: 10})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var b statement.Builder
			frag, err := Render(p, &b, doubleQuote, r)
			assert.NoError(t, err)
			assert.Equal(t, `("x" = ? AND "y" BETWEEN ? AND ?)`, frag)
		}()
	}
	wg.Wait()
}

func TestNewContext_Defaults(t *testing.T) {
	var b statement.Builder
	ctx := NewContext(&b, nil, nil)

	assert.Equal(t, "plain", ctx.Quote("plain"))
	frag, err := ctx.Render(Equal{Column: "a", Value: 1})
	require.NoError(t, err)
	assert.Equal(t, "a = ?", frag)
}
