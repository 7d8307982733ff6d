// Package config loads portal's TOML configuration.
//
// # Resolution
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/portal/config.toml
//  3. If the file doesn't exist, use defaults
//  4. Fields that are missing or blank keep their default
//
// # Fields
//
//	api_base = "https://rickandmortyapi.com/api"
//	request_timeout = "10s"
//	rate_limit = 5                     # requests per second, 0 disables
//	database_path = "~/.local/share/portal/portal.db"
//	log_file = "~/.local/state/portal/portal.log"   # "-" logs to stderr
//	log_level = "info"                 # debug, info, warn, error
//	search_debounce = "300ms"
//
// Paths get tilde expansion and are made absolute. Durations use Go syntax
// (time.ParseDuration); a malformed or negative duration is a parse error,
// as is invalid TOML.
package config
