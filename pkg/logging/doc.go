// Package logging builds the slog loggers used across viewfinder. A console
// handler prints one human-readable line per record; a JSON handler emits
// one object per record for machine consumption.
package logging
