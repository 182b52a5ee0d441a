// Package logging builds the slog loggers used across rokuserve and provides
// shared attribute helpers so log fields stay consistent between subsystems.
package logging
