// Package config loads, normalizes, and validates escpos CLI configuration.
//
// Settings come from a TOML file (by default ~/.config/escpos/config.toml)
// layered over Default(). Paths are expanded, enumerations lowercased, and
// every value checked before a command touches a printer.
package config
