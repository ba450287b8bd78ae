// Package config loads relink settings from layered TOML files and the
// environment, and persists the last used field policy.
package config
