// Package state holds the latest chat messages and track list for the UI.
//
// The poller writes through UpdateChat and UpdateTracks; the UI reads with
// Snapshot. Snapshots are deep copies, so neither side sees the other's
// slices. A failed poll keeps the last good data and records the error, and
// two consecutive chat failures mark the feed offline.
//
// The zero Store is ready to use.
package state
