// Package arrow reads and writes Apache Arrow IPC streams, using https://github.com/apache/arrow-go.
package arrow
