// Package logging provides opt-in file-based logging with rotation for
// ScriptureLens. When the --debug flag is set, comprehensive logs are written
// to ~/.scripturelens/logs/ for debugging and troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr only.
package logging
