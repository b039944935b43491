// Package logtail reads the tail of the jsrl log file for the Logs view.
//
// Read keeps a ring buffer of the last maxLines lines, so large files are
// scanned once without being held in memory. ReadEntries additionally decodes
// each zerolog JSON line into an Entry; lines that are not JSON are kept as
// Raw so nothing written to the file is hidden.
package logtail
