// Package datasource loads Tables from files in one of the supported formats:
// delimited text, JSON lines, Parquet and Arrow IPC streams.
package datasource
