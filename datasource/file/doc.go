// Package file locates and opens the files behind a path given to a loader.
// A path may name a single file, a directory, or a glob. Directories contribute
// every regular file they contain, in name order, except those whose names
// begin with _ or . (such as _SUCCESS markers).
package file
