// Package ui is the jsrl terminal interface, built on Bubble Tea.
//
// # Views
//
//   - Chat: messages from the chat feed, newest at the bottom, with a compose
//     line for posting as the configured username
//   - Tracks: the track list of the selected station
//   - Logs: the tail of jsrl's own log file
//
// The model never fetches directly. A background poller writes to a
// state.Store and the UI reads snapshots on each tick; station changes and
// sends trigger an immediate refresh through Options.Refresh. Sends go through
// the chat client's non-blocking Send, whose completion is turned back into a
// tea.Msg.
//
// # Files
//
//   - app.go: Model, key handling, messages and commands
//   - header.go: status line and command bar
//   - chat_view.go, tracks_view.go, logs_view.go: per-view rendering
//   - theme.go, style_helpers.go: lipgloss themes and background helpers
//   - keys.go, help.go: key bindings and the help overlay
//
// Theme, username, station and the private flag persist through the prefs
// package whenever they change.
package ui
