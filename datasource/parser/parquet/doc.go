// Package parquet reads and writes Apache Parquet files, using https://github.com/segmentio/parquet-go.
//
// Files written by this package record the DDL of their Schema in the file's
// key/value metadata, so that column order and nullability survive a round
// trip. Other Parquet files are read from their own schema, provided every
// top-level field is a primitive or a list of primitives.
package parquet
