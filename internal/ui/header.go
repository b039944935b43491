package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// feedState names the badge shown in the header.
func (m Model) feedState() string {
	switch {
	case m.sending:
		return "sending"
	case m.snapshot.IsOffline():
		return "offline"
	case m.snapshot.LastError != nil:
		return "error"
	case !m.snapshot.HasMessages:
		return "connecting"
	default:
		return "live"
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	state := m.feedState()
	parts := []string{
		bg.Render("jsrl", styles.Logo),
		styles.BadgeStyle(state).Render(strings.ToUpper(state)),
	}

	if err := m.snapshot.LastError; err != nil {
		label := classifyConnectionError(err)
		if m.snapshot.IsOffline() {
			label += fmt.Sprintf(" x%d", m.snapshot.ConsecutiveFailures)
		}
		parts = append(parts, bg.Render(label, styles.DangerText))
	}

	if station := m.snapshot.Station; station != "" {
		parts = append(parts, bg.Render("station", styles.FaintText)+bg.Space()+bg.Render(station, styles.AccentText))
	}

	user := bg.Render(m.prefs.Username, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.NickColor(m.prefs.Username))).Bold(true))
	if m.prefs.Private {
		user += bg.Space() + styles.BadgeStyle("private").Render("PRIVATE")
	}
	parts = append(parts, user)

	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(fmt.Sprintf("%d msgs", len(m.snapshot.Messages)), styles.MutedText))
		if !m.snapshot.ChatUpdated.IsZero() {
			parts = append(parts, bg.Render("updated "+humanizeDuration(time.Since(m.snapshot.ChatUpdated)), styles.FaintText))
		}
	}

	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.WarningText))
	}

	if m.width >= LayoutWideWidth && m.logPath != "" {
		parts = append(parts, bg.Render("logs", styles.FaintText)+bg.Space()+bg.Render(truncateMiddle(m.logPath, 40), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar renders the command hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.editing == composeUsername:
		commands = []cmd{{"enter", "Save name"}, {"esc", "Cancel"}}
	case m.editing == composeMessage:
		commands = []cmd{{"enter", "Send"}, {"esc", "Cancel"}}
	case m.currentView == ViewTracks:
		commands = []cmd{{"s/S", "Station"}, {"j/k", "Scroll"}, {"r", "Refresh"}, {"1", "Chat"}, {"3", "Logs"}, {"?", "More"}}
	case m.currentView == ViewLogs:
		follow := "off"
		if m.followLogs {
			follow = "on"
		}
		commands = []cmd{{"j/k", "Scroll"}, {"G", "Follow " + follow}, {"1", "Chat"}, {"2", "Tracks"}, {"?", "More"}}
	default:
		private := "Public"
		if m.prefs.Private {
			private = "Private"
		}
		commands = []cmd{{"c", "Write"}, {"u", "Name"}, {"p", private}, {"s", "Station"}, {"j/k", "Scroll"}, {"2", "Tracks"}, {"3", "Logs"}, {"?", "More"}}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
