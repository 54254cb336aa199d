// Package config loads, normalizes, and validates tabletcycle configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads an optional TOML file, and honours the
// TABLETCYCLE_LOG_LEVEL environment override. Every setting has a usable
// default, so a plain hotkey invocation works without any file on disk.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
