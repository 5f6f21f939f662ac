// Package config assembles the CLI runtime configuration from three layers:
// built-in defaults, an optional JSON file (selected with -c/-config), and
// command-line flags. Later layers override earlier ones.
package config
