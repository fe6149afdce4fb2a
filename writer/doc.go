// Package writer saves Tables to directories of part files, in any of the
// formats datasource can load.
//
// Every successful write adds one part file, named part-NNNNN-<uuid><ext>,
// and a _SUCCESS marker to the destination directory. Part files are written
// under a hidden temporary name and renamed once complete, so that a failed
// write never leaves a partial file which a loader would read.
package writer
