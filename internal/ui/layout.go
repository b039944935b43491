package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 80

	// LayoutWideWidth is the minimum width to show the log file path.
	LayoutWideWidth = 140
)

// Chrome heights around the content box.
const (
	headerRows  = 2 // status line + command bar
	composeRows = 1
	boxBorder   = 2
)

// Log display limits.
const (
	// LogFetchLimit is the number of log lines read per refresh.
	LogFetchLimit = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// RefreshTimeout bounds a refresh triggered from the UI.
	RefreshTimeout = 10 * time.Second
)

// Compose limits.
const (
	MessageCharLimit  = 240
	UsernameCharLimit = 32
)
