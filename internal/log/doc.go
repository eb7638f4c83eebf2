// Package log provides logging utilities for PhishGuard.
//
// The package wraps log/slog handlers to redact sensitive material before
// it reaches any output. Phishing datasets routinely contain URLs with
// embedded credentials, session identifiers, and API tokens; logging a
// candidate URL verbatim would leak whatever its author stuffed into it.
package log
