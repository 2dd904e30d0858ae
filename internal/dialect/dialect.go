// Package dialect classifies a database connection by its JDBC driver
// identifier.
//
// Driver identifiers are vendor-fixed class names that practically never
// change, which makes them a reliable key for picking SQL syntax. Lookup is an
// exact, case-sensitive match against a static table:
//
//	Dialect      Display Name           Driver Identifier
//	-------      ------------           -----------------
//	MySQL        MySQL                  com.mysql.jdbc.Driver
//	Oracle       Oracle Database        oracle.jdbc.driver.OracleDriver
//	MariaDB      MariaDB                org.mariadb.jdbc.Driver
//	MSSQL        Microsoft SQL Server   com.microsoft.sqlserver.jdbc.SQLServerDriver
//	PostgreSQL   PostgreSQL             org.postgresql.Driver
//	Derby        Apache Derby           org.apache.derby.jdbc.ClientDriver
//	HSQLDB       HyperSQL Database      org.hsqldb.jdbc.JDBCDriver
//
// Default has no driver identifier; it is the syntax used when the caller
// chooses to fall back. The registry never picks a fallback on its own:
// Resolve reports Unknown and the caller decides.
package dialect

import "strings"

// Dialect is a named SQL syntax variant tied to a database product.
// The zero value is Unknown.
type Dialect int

const (
	Unknown Dialect = iota
	MySQL
	Oracle
	MariaDB
	MSSQL
	PostgreSQL
	Derby
	HSQLDB
	Default
)

type entry struct {
	name        string // canonical lowercase name
	displayName string
	driverID    string // JDBC driver identifier
	driverName  string // database/sql driver name, "" when none is wired
}

var table = map[Dialect]entry{
	Unknown:    {name: "unknown", displayName: "Unknown"},
	MySQL:      {name: "mysql", displayName: "MySQL", driverID: "com.mysql.jdbc.Driver", driverName: "mysql"},
	Oracle:     {name: "oracle", displayName: "Oracle Database", driverID: "oracle.jdbc.driver.OracleDriver"},
	MariaDB:    {name: "mariadb", displayName: "MariaDB", driverID: "org.mariadb.jdbc.Driver", driverName: "mysql"},
	MSSQL:      {name: "mssql", displayName: "Microsoft SQL Server", driverID: "com.microsoft.sqlserver.jdbc.SQLServerDriver"},
	PostgreSQL: {name: "postgresql", displayName: "PostgreSQL", driverID: "org.postgresql.Driver", driverName: "postgres"},
	Derby:      {name: "derby", displayName: "Apache Derby", driverID: "org.apache.derby.jdbc.ClientDriver"},
	HSQLDB:     {name: "hsqldb", displayName: "HyperSQL Database", driverID: "org.hsqldb.jdbc.JDBCDriver"},
	Default:    {name: "default", displayName: "Default", driverName: "sqlite3"},
}

// byDriverID is built once from table; identifiers are unique.
var byDriverID = func() map[string]Dialect {
	m := make(map[string]Dialect, len(table))
	for d, e := range table {
		if e.driverID != "" {
			m[e.driverID] = d
		}
	}
	return m
}()

// Resolve returns the dialect whose driver identifier equals driverID.
// Returns (Unknown, false) for anything not in the table, including the
// empty string and differently-cased spellings.
func Resolve(driverID string) (Dialect, bool) {
	d, ok := byDriverID[driverID]
	if !ok {
		return Unknown, false
	}
	return d, true
}

// Parse returns the dialect with the given canonical name ("postgresql",
// "mysql", ...). Matching is case-insensitive; "postgres" and "pg" are
// accepted for PostgreSQL.
func Parse(name string) (Dialect, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "postgres", "pg":
		return PostgreSQL, true
	case "sqlserver":
		return MSSQL, true
	}
	for d, e := range table {
		if d != Unknown && e.name == n {
			return d, true
		}
	}
	return Unknown, false
}

// All returns every known dialect in declaration order, Default last.
func All() []Dialect {
	return []Dialect{MySQL, Oracle, MariaDB, MSSQL, PostgreSQL, Derby, HSQLDB, Default}
}

// String returns the canonical lowercase name.
func (d Dialect) String() string {
	return d.lookup().name
}

// DisplayName returns the name the vendor uses for the product.
func (d Dialect) DisplayName() string {
	return d.lookup().displayName
}

// DriverIdentifier returns the JDBC driver identifier, or "" for Default
// and Unknown.
func (d Dialect) DriverIdentifier() string {
	return d.lookup().driverID
}

// DriverName returns the database/sql driver registered for the dialect,
// or "" when this module wires no Go driver for it.
func (d Dialect) DriverName() string {
	return d.lookup().driverName
}

// Known reports whether d is a real dialect (not Unknown or out of range).
func (d Dialect) Known() bool {
	_, ok := table[d]
	return ok && d != Unknown
}

func (d Dialect) lookup() entry {
	if e, ok := table[d]; ok {
		return e
	}
	return table[Unknown]
}
