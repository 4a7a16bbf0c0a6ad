// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The bridge emits a small set of stable events per request
// ("Request starting", "Request finished", "Request error",
// "Bad redirect URL format") with structured fields carrying the
// request ID, method, URL and status. Loggers are safe for concurrent
// use; all bridge logging is side-effect-only.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Request finished", zap.String("url", u), zap.Int("status", 200))
package logging
