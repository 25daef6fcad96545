// Package logger provides structured logging for geofetch on top of zerolog.
//
// It exposes a small Logger interface with leveled methods and field
// chaining, a console writer with colored levels for interactive use, and a
// global instance so packages deep in the call path do not need a logger
// threaded through every constructor.
//
// Basic usage:
//
//	logger.Initialize(&config.LoggingConfig{Level: "info"})
//	logger.GetLogger().WithField("source", "twitter").Info("search started")
package logger
