// Package config loads, normalizes, and validates clipgrep's TOML
// configuration. Defaults apply when no config file exists, so the CLI works
// out of the box; Load reports whether a file was actually found so callers
// can mention the effective path.
package config
