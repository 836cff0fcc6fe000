// Package configs loads and normalizes the keystash configuration.
//
// The config file is TOML at the per-user config path, installed from a
// bundled default on first run. Loading produces an immutable-per-run
// Config: template parameters ({date}, {user}, {host}) are expanded and
// per-plugin parameter blocks are normalized into a canonical list form at
// the load boundary, so downstream code never branches on which shape the
// user wrote.
package configs
