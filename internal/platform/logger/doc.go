// Package logger configures the process-wide slog logger (JSON, level from
// configuration) and passes request- and task-scoped loggers through
// context.Context.
package logger
