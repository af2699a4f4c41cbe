// Package errors provides the classified error primitives used across contentmigrate.
//
// Every failure the content updater can produce maps onto one category:
//
//   - CategoryParse: the input is not a JSON object document
//   - CategoryNotFound: the input file (or an overwrite set file) does not exist
//   - CategoryMissingKey: an overwrite path does not resolve in the loaded tree
//   - CategoryFileSystem: the output cannot be written
//
// Errors are built with a fluent API and carry structured context:
//
//	err := errors.MissingKeyError("path segment not found").
//		WithContext("path", p.String()).
//		WithContext("segment", prefix).
//		Build()
//
// None of the migration errors are retried; CLIErrorAdapter turns them into an
// exit code and a diagnostic at the process boundary.
package errors
