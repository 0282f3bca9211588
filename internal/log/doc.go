// Package log provides logging helpers built on top of the standard slog
// package.
//
// This package extends slog to provide:
//   - Truncation of oversized string attributes (page bodies, extracted text)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Truncation
//
// Fetch loops log URLs, titles, and occasionally extracted text. A single
// sutta page can carry megabytes of Sinhala text; logging it whole would
// drown the terminal and bloat any captured log file. The TruncatingHandler
// caps every string attribute at a fixed length, marking cut values with an
// ellipsis suffix so truncation is visible.
//
// # Usage
//
//	// Create a logger with truncation
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("page fetched",
//	    "url", "https://tripitaka.online/sutta/17",
//	    "title", veryLongTitle, // Cut at the configured limit
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
