package filter

import (
	"sync"

	"github.com/roach88/sqlcontainer/internal/sqlerr"
	"github.com/roach88/sqlcontainer/internal/statement"
)

// Translator recognizes and renders one category of predicate.
//
// Render returns the WHERE-clause fragment and, as a side effect, binds the
// predicate's operands through ctx in left-to-right order.
type Translator interface {
	Matches(p Predicate) bool
	Render(p Predicate, ctx *Context) (string, error)
}

// Registry resolves predicates to translators by ordered dispatch: the first
// registered translator whose Matches returns true wins. More specific
// translators must therefore be registered before general ones.
//
// Registries are populated during setup and read concurrently afterwards.
type Registry struct {
	mu          sync.RWMutex
	translators []Translator
}

// NewRegistry returns a registry holding ts in the given order.
func NewRegistry(ts ...Translator) *Registry {
	r := &Registry{}
	r.translators = append(r.translators, ts...)
	return r
}

// Register appends t, giving it the lowest priority so far.
func (r *Registry) Register(t Translator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translators = append(r.translators, t)
}

// Translators returns a snapshot of the registered translators in priority
// order.
func (r *Registry) Translators() []Translator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Translator, len(r.translators))
	copy(out, r.translators)
	return out
}

// TranslatorFor returns the first translator that matches p.
// Returns a NO_TRANSLATOR error when none does.
func (r *Registry) TranslatorFor(p Predicate) (Translator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.translators {
		if t.Matches(p) {
			return t, nil
		}
	}
	return nil, sqlerr.NewNoTranslator(p)
}

// Builtins returns the built-in translators in priority order.
// IsNotNull precedes Not so that Not(IsNull) renders as IS NOT NULL.
func Builtins() []Translator {
	return []Translator{
		AndTranslator{},
		OrTranslator{},
		IsNotNullTranslator{},
		NotTranslator{},
		IsNullTranslator{},
		SimpleStringTranslator{},
		LikeTranslator{},
		EqualTranslator{},
		CompareTranslator{},
		BetweenTranslator{},
		InTranslator{},
	}
}

var defaultRegistry = NewRegistry(Builtins()...)

// DefaultRegistry returns the process-wide registry used by generators that
// are not given one explicitly.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register appends t to the process-wide registry. Call it during program
// initialization, before generators are used concurrently.
func Register(t Translator) {
	defaultRegistry.Register(t)
}

// Quoter quotes an identifier for the target dialect.
type Quoter func(ident string) string

// Context is the rendering state handed to translators: the statement being
// built, the dialect's identifier quoting and the registry for recursion.
type Context struct {
	builder  *statement.Builder
	quote    Quoter
	registry *Registry
}

// NewContext returns a Context writing parameters to b. A nil quote leaves
// identifiers untouched; a nil registry means DefaultRegistry.
func NewContext(b *statement.Builder, quote Quoter, registry *Registry) *Context {
	if quote == nil {
		quote = func(s string) string { return s }
	}
	if registry == nil {
		registry = defaultRegistry
	}
	return &Context{builder: b, quote: quote, registry: registry}
}

// Quote returns the dialect-quoted form of ident.
func (c *Context) Quote(ident string) string {
	return c.quote(ident)
}

// Bind appends v to the statement parameters and returns its placeholder.
func (c *Context) Bind(v any) string {
	return c.builder.AddParameterValue(v)
}

// Render translates a child predicate through the registry.
func (c *Context) Render(p Predicate) (string, error) {
	if p == nil {
		return "", sqlerr.NewNoTranslator(p)
	}
	t, err := c.registry.TranslatorFor(p)
	if err != nil {
		return "", err
	}
	return t.Render(p, c)
}

// Render translates the predicate tree p into a WHERE-clause fragment,
// binding its operands into b.
func Render(p Predicate, b *statement.Builder, quote Quoter, registry *Registry) (string, error) {
	return NewContext(b, quote, registry).Render(p)
}
