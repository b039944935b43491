package ui

import (
	"fmt"
	"strings"
)

func (m Model) renderTracksContent() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	if snap.Station == "" {
		return styles.FaintText.Render("No station selected. Press s to pick one.")
	}

	var b strings.Builder
	if snap.TracksError != nil {
		b.WriteString(styles.DangerText.Render("track list unavailable: " + classifyConnectionError(snap.TracksError)))
		b.WriteString("\n")
	}
	if len(snap.Tracks) == 0 {
		if snap.TracksUpdated.IsZero() {
			b.WriteString(styles.FaintText.Render("Loading tracks..."))
		} else if snap.TracksError == nil {
			b.WriteString(styles.FaintText.Render("No tracks listed."))
		}
		return b.String()
	}

	width := len(fmt.Sprint(len(snap.Tracks)))
	for i, track := range snap.Tracks {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%*d ", width, i+1)))
		b.WriteString(styles.Text.Render(track))
		if i < len(snap.Tracks)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) updateTracksViewport() {
	if !m.ready {
		return
	}
	m.tracksViewport.SetContent(m.renderTracksContent())
}

func (m Model) renderTracks() string {
	title := "Tracks"
	if m.snapshot.Station != "" {
		title = fmt.Sprintf("Tracks: %s (%d)", m.snapshot.Station, len(m.snapshot.Tracks))
	}
	return m.renderBox(title, m.tracksViewport.View(), m.width, m.height-headerRows)
}
