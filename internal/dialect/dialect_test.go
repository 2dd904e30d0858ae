package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownIdentifiers(t *testing.T) {
	testCases := []struct {
		driverID    string
		want        Dialect
		displayName string
	}{
		{"com.mysql.jdbc.Driver", MySQL, "MySQL"},
		{"oracle.jdbc.driver.OracleDriver", Oracle, "Oracle Database"},
		{"org.mariadb.jdbc.Driver", MariaDB, "MariaDB"},
		{"com.microsoft.sqlserver.jdbc.SQLServerDriver", MSSQL, "Microsoft SQL Server"},
		{"org.postgresql.Driver", PostgreSQL, "PostgreSQL"},
		{"org.apache.derby.jdbc.ClientDriver", Derby, "Apache Derby"},
		{"org.hsqldb.jdbc.JDBCDriver", HSQLDB, "HyperSQL Database"},
	}

	for _, tc := range testCases {
		t.Run(tc.driverID, func(t *testing.T) {
			got, ok := Resolve(tc.driverID)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.displayName, got.DisplayName())
			assert.Equal(t, tc.driverID, got.DriverIdentifier())
		})
	}
}

func TestResolve_UnknownIdentifiers(t *testing.T) {
	inputs := []string{
		"",
		"org.sqlite.JDBC",
		"COM.MYSQL.JDBC.DRIVER",     // case-sensitive
		"com.mysql.jdbc.Driver ",    // no trimming
		"com.mysql.jdbc",            // no partial match
		"org.postgresql.DriverFoo",  // no prefix match
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, ok := Resolve(in)
			assert.False(t, ok)
			assert.Equal(t, Unknown, got)
		})
	}
}

func TestDriverIdentifiers_Unique(t *testing.T) {
	seen := map[string]Dialect{}
	for _, d := range All() {
		id := d.DriverIdentifier()
		if id == "" {
			continue
		}
		prev, dup := seen[id]
		assert.False(t, dup, "%s shares identifier with %s", d, prev)
		seen[id] = d
	}
	assert.Len(t, seen, 7)
}

func TestAll_RoundTrip(t *testing.T) {
	for _, d := range All() {
		if d == Default {
			assert.Empty(t, d.DriverIdentifier())
			continue
		}
		got, ok := Resolve(d.DriverIdentifier())
		require.True(t, ok)
		assert.Equal(t, d, got)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in   string
		want Dialect
		ok   bool
	}{
		{"postgresql", PostgreSQL, true},
		{"Postgres", PostgreSQL, true},
		{"pg", PostgreSQL, true},
		{"MySQL", MySQL, true},
		{"mariadb", MariaDB, true},
		{"sqlserver", MSSQL, true},
		{"derby", Derby, true},
		{"default", Default, true},
		{"unknown", Unknown, false},
		{"sqlite", Unknown, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Parse(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDialect_Accessors(t *testing.T) {
	assert.Equal(t, "postgresql", PostgreSQL.String())
	assert.Equal(t, "postgres", PostgreSQL.DriverName())
	assert.Equal(t, "mysql", MariaDB.DriverName())
	assert.Equal(t, "sqlite3", Default.DriverName())
	assert.Empty(t, Oracle.DriverName())

	assert.Equal(t, "unknown", Unknown.String())
	assert.False(t, Unknown.Known())
	assert.False(t, Dialect(99).Known())
	assert.Equal(t, "Unknown", Dialect(99).DisplayName())
	assert.True(t, Derby.Known())
}
