// Package config loads, normalizes, and validates viewfinder configuration.
//
// It supplies defaults for the render camera, the framing heuristic, the
// verification prim paths and the output layout, expands user paths
// (including tilde shortcuts) and reads TOML files. Commands obtain their
// settings through this package so they see canonical log formats,
// absolute prim paths and clear validation errors.
package config
