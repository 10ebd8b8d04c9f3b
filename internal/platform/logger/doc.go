// Package logger provides structured logging for the application using the
// standard log/slog package: a JSON handler configured from the server
// settings, and helpers that carry a request-scoped logger in a context.
package logger
