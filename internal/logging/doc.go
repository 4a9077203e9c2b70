// Package logging builds the slog loggers used by the escpos CLI.
//
// Console output uses the slog text handler, json output the JSON handler.
// The "auto" format picks console when stderr is a terminal.
package logging
