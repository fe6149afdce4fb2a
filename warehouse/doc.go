// Package warehouse persists Tables as managed tables in a SQLite database.
//
// Each managed table is stored as a SQLite table with one positional column per
// Table column. Its DDL is kept in a metadata table, so that column names, types
// and nullability survive a round trip. Arrays are stored as JSON text, dates
// as ISO-8601 text and booleans as 0 or 1.
package warehouse
