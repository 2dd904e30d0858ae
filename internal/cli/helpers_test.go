package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/query"
	"github.com/roach88/sqlcontainer/internal/statement"
	"github.com/roach88/sqlcontainer/internal/store"
)

// seedPeople creates a SQLite database at path with three people.
func seedPeople(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, dialect.Default, path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Exec(ctx, statement.Statement{SQL: `CREATE TABLE "people" ("id" INTEGER PRIMARY KEY, "name" TEXT, "age" INTEGER)`})
	require.NoError(t, err)

	for _, p := range []struct {
		id   int
		name string
		age  int
	}{{1, "Ann", 34}, {2, "Bob", 12}, {3, "Cleo", 65}} {
		_, err := s.Insert(ctx, "people", query.Values("id", p.id, "name", p.name, "age", p.age))
		require.NoError(t, err)
	}
}
