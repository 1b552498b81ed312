// Package config loads, normalizes, and validates shelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHELF_DATA_PATH. The Config type centralizes the storage backend, data file
// location, logging, and display knobs the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical backend names, and clear validation errors.
package config
