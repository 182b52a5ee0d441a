// Package config loads, validates, and normalizes rokuserve's TOML
// configuration. Defaults cover a single-host deployment; every path is
// expanded to an absolute location during Load so downstream packages never
// deal with ~ or relative paths.
package config
