// Package logging constructs the slog loggers used across kinocache.
//
// It centralizes level and format parsing, optional file output alongside
// stdout, component-scoped child loggers, and a small set of attribute
// helpers so call sites stay consistent.
package logging
