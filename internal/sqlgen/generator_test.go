package sqlgen

import (
	"bytes"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/filter"
	"github.com/roach88/sqlcontainer/internal/query"
	"github.com/roach88/sqlcontainer/internal/sqlerr"
	"github.com/roach88/sqlcontainer/internal/statement"
)

func TestForDriver(t *testing.T) {
	for _, d := range dialect.All() {
		if d == dialect.Default {
			continue
		}
		t.Run(d.String(), func(t *testing.T) {
			g, err := ForDriver(d.DriverIdentifier())
			require.NoError(t, err)
			assert.Equal(t, d, g.Dialect())
		})
	}
}

func TestForDriver_EmptyIsDefault(t *testing.T) {
	g, err := ForDriver("")
	require.NoError(t, err)
	assert.Equal(t, dialect.Default, g.Dialect())
}

func TestForDriver_Unknown(t *testing.T) {
	g, err := ForDriver("com.example.Unknown")
	require.Error(t, err)
	assert.Nil(t, g)
	assert.True(t, sqlerr.IsUnknownDialect(err))
	assert.Contains(t, err.Error(), "com.example.Unknown")
}

func TestForDriverBestEffort(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	g := ForDriverBestEffort("com.example.Unknown", WithLogger(logger))
	require.NotNil(t, g)
	assert.Equal(t, dialect.Default, g.Dialect())
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "com.example.Unknown")

	logs.Reset()
	g = ForDriverBestEffort("org.postgresql.Driver", WithLogger(logger))
	assert.Equal(t, dialect.PostgreSQL, g.Dialect())
	assert.Empty(t, logs.String())
}

func TestGenerateSelect_Paging(t *testing.T) {
	desc := query.Descriptor{Table: "t", Page: &query.Page{Offset: 10, Length: 5}}

	testCases := []struct {
		dialect dialect.Dialect
		suffix  string
	}{
		{dialect.Default, " LIMIT 5 OFFSET 10"},
		{dialect.PostgreSQL, " LIMIT 5 OFFSET 10"},
		{dialect.HSQLDB, " LIMIT 5 OFFSET 10"},
		{dialect.MySQL, " LIMIT 5 OFFSET 10"},
		{dialect.MariaDB, " LIMIT 5 OFFSET 10"},
		{dialect.Derby, " OFFSET 10 ROWS FETCH NEXT 5 ROWS ONLY"},
		{dialect.Oracle, ` WHERE "rownum" BETWEEN 11 AND 15`},
		{dialect.MSSQL, ` WHERE "rownum" BETWEEN 11 AND 15 ORDER BY "rownum"`},
	}

	for _, tc := range testCases {
		t.Run(tc.dialect.String(), func(t *testing.T) {
			stmt, err := ForDialect(tc.dialect).GenerateSelect(desc)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(stmt.SQL, tc.suffix), stmt.SQL)
			assert.Empty(t, stmt.Args)
		})
	}
}

func TestGenerateSelect_ZeroLengthHasNoPaging(t *testing.T) {
	for _, d := range dialect.All() {
		stmt, err := ForDialect(d).GenerateSelect(query.Descriptor{
			Table: "t",
			Page:  &query.Page{Offset: 10},
		})
		require.NoError(t, err)
		q := ForDialect(d).Quote("t")
		assert.Equal(t, "SELECT * FROM "+q, stmt.SQL, d.String())
	}
}

func TestGenerateSelect_MSSQLWithoutSortKeys(t *testing.T) {
	stmt, err := ForDialect(dialect.MSSQL).GenerateSelect(query.Descriptor{
		Table: "t",
		Page:  &query.Page{Length: 3},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM (SELECT ROW_NUMBER() OVER (ORDER BY (SELECT NULL)) AS "rownum", * FROM "t") x WHERE "rownum" BETWEEN 1 AND 3 ORDER BY "rownum"`,
		stmt.SQL)
}

func TestGenerateSelect_BetweenExample(t *testing.T) {
	stmt, err := ForDialect(dialect.PostgreSQL).GenerateSelect(query.Descriptor{
		Table:  "people",
		Filter: filter.Between{Column: "age", Start: 18, End: 65},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "people" WHERE "age" BETWEEN ? AND ?`, stmt.SQL)
	assert.Equal(t, []any{18, 65}, stmt.Args)
}

func TestGenerate_PlaceholdersMatchArgs(t *testing.T) {
	key := filter.AllOf(filter.Equal{Column: "id", Value: 1}, filter.NotNull("name"))
	for _, d := range dialect.All() {
		g := ForDialect(d)
		stmts := make([]statement.Statement, 0, 5)

		s, err := g.GenerateSelect(peopleQuery)
		require.NoError(t, err)
		stmts = append(stmts, s)
		s, err = g.GenerateCount(peopleQuery)
		require.NoError(t, err)
		stmts = append(stmts, s)
		s, err = g.GenerateInsert("people", query.Values("name", "it's ?", "age", 3))
		require.NoError(t, err)
		stmts = append(stmts, s)
		s, err = g.GenerateUpdate("people", query.Values("name", nil), key)
		require.NoError(t, err)
		stmts = append(stmts, s)
		s, err = g.GenerateDelete("people", key)
		require.NoError(t, err)
		stmts = append(stmts, s)

		for _, s := range stmts {
			assert.Equal(t, len(s.Args), s.Placeholders(), "%s: %s", d, s.SQL)
		}
	}
}

func TestGenerateUpdate_BindsSetBeforeKey(t *testing.T) {
	stmt, err := ForDialect(dialect.Default).GenerateUpdate("people",
		query.Values("name", "Ann"),
		filter.Compare{Column: "version", Op: filter.OpLess, Value: 4})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "people" SET "name" = ? WHERE "version" < ?`, stmt.SQL)
	assert.Equal(t, []any{"Ann", 4}, stmt.Args)
}

func TestGenerate_InvalidInput(t *testing.T) {
	g := ForDialect(dialect.Default)

	_, err := g.GenerateSelect(query.Descriptor{Table: "t", Page: &query.Page{Offset: -1, Length: 1}})
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = g.GenerateCount(query.Descriptor{})
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = g.GenerateInsert("people", nil)
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = g.GenerateUpdate("people", query.Values("a", 1), nil)
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = g.GenerateDelete("people", nil)
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = g.GenerateDelete("", filter.Equal{Column: "id", Value: 1})
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = g.GenerateDelete("people", (*filter.And)(nil))
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = g.GenerateSelect(query.Descriptor{Table: "t", Filter: (*filter.Equal)(nil)})
	assert.True(t, sqlerr.IsInvalidDescriptor(err))

	_, err = ForDialect(dialect.Oracle).GenerateSelect(query.Descriptor{
		Table: "t",
		Page:  &query.Page{Offset: math.MaxInt - 2, Length: 10},
	})
	assert.True(t, sqlerr.IsInvalidDescriptor(err))
}

func TestRowPaginators_SaturateLastRow(t *testing.T) {
	sel := Select{Columns: "*", From: "t"}
	page := query.Page{Offset: math.MaxInt - 2, Length: 10}
	last := strconv.Itoa(math.MaxInt)

	assert.True(t, strings.HasSuffix(RowNum(sel, page), " AND "+last))
	assert.Contains(t, RowNumber(sel, page), " AND "+last+" ORDER BY")
	assert.NotContains(t, RowNum(sel, page), "-")
}

type unsupported struct{}

func (unsupported) Columns() []string { return []string{"x"} }

func TestGenerate_NoTranslator(t *testing.T) {
	_, err := ForDialect(dialect.Default).GenerateSelect(query.Descriptor{
		Table:  "t",
		Filter: filter.AllOf(filter.Equal{Column: "a", Value: 1}, unsupported{}),
	})
	require.Error(t, err)
	assert.True(t, sqlerr.IsNoTranslator(err))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"we""ird"`, ForDialect(dialect.PostgreSQL).Quote(`we"ird`))
	assert.Equal(t, "`we``ird`", ForDialect(dialect.MySQL).Quote("we`ird"))
	assert.Equal(t, "plain", Capabilities{}.Quote("plain"))
	assert.Equal(t, "[a]]b]", Capabilities{QuoteStart: "[", QuoteEnd: "]"}.Quote("a]b"))
}

func TestNew_Options(t *testing.T) {
	registry := filter.NewRegistry(filter.EqualTranslator{})
	g := New(dialect.Default,
		WithQuotes("[", "]"),
		WithPaginator(OffsetFetch),
		WithRegistry(registry),
	)

	stmt, err := g.GenerateSelect(query.Descriptor{
		Table:  "t",
		Filter: filter.Equal{Column: "a", Value: 1},
		Page:   &query.Page{Offset: 2, Length: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM [t] WHERE [a] = ? OFFSET 2 ROWS FETCH NEXT 3 ROWS ONLY", stmt.SQL)

	_, err = g.GenerateSelect(query.Descriptor{Table: "t", Filter: filter.IsNull{Column: "a"}})
	assert.True(t, sqlerr.IsNoTranslator(err))
}

func TestCapabilities_ZeroValue(t *testing.T) {
	g := New(dialect.Default, WithCapabilities(Capabilities{}))
	stmt, err := g.GenerateSelect(query.Descriptor{
		Table:   "t",
		Columns: []string{"a"},
		Page:    &query.Page{Offset: 1, Length: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t LIMIT 2 OFFSET 1", stmt.SQL)
}

func TestGenerator_ConcurrentUse(t *testing.T) {
	g := ForDialect(dialect.Oracle)
	want, err := g.GenerateSelect(peopleQuery)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := g.GenerateSelect(peopleQuery)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}
