// Package report prints the human-readable summary shown after the config
// file has been written.
package report
