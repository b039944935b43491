// Package app wires jsrl together.
//
// Run loads config.toml and prefs.toml, opens the zerolog file logger, starts
// a dispatch.Loop, and builds the chat and track list clients on top of it.
// A Poller then refreshes a state.Store in the background while the ui
// package renders it:
//
//	Run()
//	 ├─> config.Load / prefs.Load
//	 ├─> logging.New            JSON lines to log_file
//	 ├─> dispatch.NewLoop       parsing + completions
//	 ├─> chat.NewClient / tracklist.NewClient
//	 ├─> Poller.Start           chat and tracks via errgroup
//	 └─> ui.Run                 blocks until quit
//
// # Polling
//
// Each cycle fetches messages.xml and the selected station's track list
// concurrently and waits for both completions. A failed chat fetch keeps the
// previous messages; while failures continue the wait doubles from the base
// interval up to 30 seconds.
//
// With Options.Once the poller runs a single cycle, the result is printed as
// plain text and Run returns any chat or track list error.
package app
