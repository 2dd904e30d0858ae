// Package store runs generated statements against a live database.
//
// Open picks the database/sql driver for a dialect and normalizes its DSN:
//
//	Dialect           Driver                          DSN handling
//	-------           ------                          ------------
//	MySQL, MariaDB    github.com/go-sql-driver/mysql  ParseDSN, parseTime=true
//	PostgreSQL        github.com/lib/pq               postgres:// URLs via ParseURL
//	Default           github.com/mattn/go-sqlite3     file path or :memory:
//
// Statements are generated with `?` markers. For PostgreSQL the store
// rebinds them to `$1..$n` before they reach lib/pq.
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Dialects without a wired Go driver (Oracle, MSSQL, Derby, HSQLDB) can
// still generate SQL but cannot be opened here.
package store
