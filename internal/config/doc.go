// Package config loads chanfix settings from a TOML file, applies defaults,
// and validates the result. CLI flags override individual fields after Load.
package config
