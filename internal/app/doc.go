// Package app is the composition root for portal.
//
// # Overview
//
// Open loads configuration and preferences, opens the log file, the SQLite
// database and the catalog API client, and hands them to Assemble. Assemble
// builds the rest of the graph around those parts:
//
//	┌──────────────┐
//	│   Open()     │ External resources
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read config.toml
//	       ├─────> prefs.Load()        Theme and last query
//	       ├─────> logging.Open()      Log file (or stderr)
//	       ├─────> storage.Open()      Favorites and record cache
//	       ├─────> catalog.NewClient() Rate-limited HTTP client
//	       └─────> Assemble()
//	                 ├─> favorites.New()  Favorites store
//	                 ├─> state.Store{}    Published view state
//	                 ├─> query.History    Address bar
//	                 ├─> search.New()     List orchestrator
//	                 └─> detail.New()     Detail loader
//
// Run then loads favorites in the background and starts the TUI. The CLI
// subcommands use the same Env but drive the loaders synchronously.
//
// # Starting address
//
// Options.Query accepts either a query string ("status=alive&page=2",
// with or without the leading "?") or a path ("/character/2"). When empty,
// the query saved in preferences on the previous exit is restored. List
// addresses are canonicalized before the first fetch.
//
// # Error Handling
//
// Failures to read configuration, open the log, open the database or parse
// the API base URL are fatal and returned from Open. Preferences never fail;
// a broken prefs file yields the defaults. Fetch errors are not errors here:
// they surface as Failed view states through the state store.
package app
