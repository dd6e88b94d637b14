// Package file provides file-based configuration adapters: a typed
// TOML configuration loader with environment overrides, and a prompt
// store that reads user-editable template files from disk.
package file
