// Package sqlgen turns query descriptors into dialect-specific,
// parameterized SQL.
//
// A Generator is one shared base behavior plus a Capabilities value: the
// identifier quote characters and the paging strategy. Built-in profiles
// cover every dialect the dialect package knows:
//
//	Dialect                     Quotes   Paging
//	-------                     ------   ------
//	Default, PostgreSQL, HSQLDB "  "     LIMIT <len> OFFSET <off>
//	MySQL, MariaDB              `  `     LIMIT <len> OFFSET <off>
//	Derby                       "  "     OFFSET <off> ROWS FETCH NEXT <len> ROWS ONLY
//	Oracle                      "  "     ROWNUM wrapper
//	MSSQL                       "  "     ROW_NUMBER() OVER (...) wrapper
//
// Generators are resolved from a JDBC driver identifier in one of two modes.
// ForDriver fails fast on an unknown identifier. ForDriverBestEffort logs a
// warning and hands back the Default generator, whose output may not be
// valid for the real database.
//
// Values never appear in generated text. Every value is bound as a `?`
// parameter and statement.Builder verifies the placeholder count before a
// Statement is returned. Paging bounds are integers and are written as
// literals.
//
// Generators are immutable and safe for concurrent use.
package sqlgen
