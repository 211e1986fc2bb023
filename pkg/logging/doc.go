// Package logging provides structured logging utilities for the relay.
//
// # Overview
//
// This package wraps the standard library slog package with relay defaults
// and conventions for consistent logging across components. It supports
// environment-based log level configuration, module/version context
// injection, and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("agrirelay", "v1.0.0")
//	    slog.Info("processing request", "id", "req-123")
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("agrirelay", "v1.0.0", "warn")
//
// Secrets such as API tokens are shown only in redacted form:
//
//	slog.Info("hosted model token", "token", logging.Redact(token))
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "server started",
//	    "module": "agrirelay",
//	    "version": "v1.0.0",
//	    "port": 5000
//	}
package logging
