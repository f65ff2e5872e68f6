// Package xlog carries the package-level logger used to record
// recovered-but-not-surfaced events: per-column conflict-resolution
// fallbacks, and each read's start. Per-cell decode hiccups (a cell
// record with no readable value, read as Blank) are not logged.
// It defaults to a disabled sink so importing xltable never writes to
// stderr uninvited; callers opt in with SetLogger.
package xlog

import (
	"io"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(io.Discard)

// SetLogger installs l as the package-wide sink for recovery diagnostics.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// ReadID scopes a logger to one Read call for correlating concurrent reads.
func ReadID(id string) zerolog.Logger {
	return logger.With().Str("read_id", id).Logger()
}

// Get returns the current package-wide logger.
func Get() zerolog.Logger {
	return logger
}
