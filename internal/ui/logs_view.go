package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jsrl/internal/logtail"
)

// formatLogEntry renders one log entry as "15:04:05 LEVEL message key=value".
func formatLogEntry(styles Styles, e logtail.Entry) string {
	if e.Raw != "" {
		return styles.MutedText.Render(e.Raw)
	}
	level := strings.ToUpper(strings.TrimSpace(e.Level))
	if level == "" {
		level = "INFO"
	}
	parts := make([]string, 0, 4+len(e.Fields))
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	parts = append(parts, levelStyle(styles, level).Render(fmt.Sprintf("%-5s", level)))
	if e.Message != "" {
		parts = append(parts, styles.Text.Render(e.Message))
	}
	if e.Error != "" {
		parts = append(parts, styles.DangerText.Render("error="+e.Error))
	}
	for _, k := range e.FieldKeys() {
		parts = append(parts, styles.MutedText.Render(k+"="+e.Fields[k]))
	}
	return strings.Join(parts, " ")
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "FATAL", "PANIC":
		return styles.DangerText
	case "DEBUG", "TRACE":
		return styles.InfoText
	default:
		return styles.Text
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logPath == "" {
		return styles.FaintText.Render("Logging to file is disabled.")
	}
	if m.logErr != nil {
		return styles.DangerText.Render("read log: " + m.logErr.Error())
	}
	if len(m.logEntries) == 0 {
		return styles.FaintText.Render("Log is empty.")
	}
	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, formatLogEntry(styles, e))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.SetContent(m.renderLogContent())
	if m.followLogs {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogs() string {
	title := fmt.Sprintf("Log (%d lines)", len(m.logEntries))
	return m.renderBox(title, m.logViewport.View(), m.width, m.height-headerRows)
}
