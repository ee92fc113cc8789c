// Package errors defines the typed application error used across salescli.
//
// Per-file problems in the pipeline do not fail a run: they are recorded as
// skip reasons on the file's result, with a parsing error attached when the
// file could not be read. Storage and config errors stop a run.
package errors
