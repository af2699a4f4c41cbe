// Package migrate is the content updater: it loads a content document,
// applies an overwrite set, writes the result next to the input and reports
// what it did. The CLI commands and the input watcher all route through
// Updater.
package migrate
