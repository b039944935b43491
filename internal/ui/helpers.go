package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jsrl/internal/chat"
	"github.com/five82/jsrl/internal/remote"
)

// renderBox draws content inside a rounded border with title set into the top edge.
func (m Model) renderBox(title, content string, width, height int) string {
	styles := m.theme.Styles()
	border := lipgloss.RoundedBorder()
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BorderFocus))

	inner := max(width-2, 1)
	label := ""
	if title != "" {
		label = " " + truncate(title, inner-2) + " "
	}
	fill := max(inner-lipgloss.Width(label)-1, 0)
	top := borderStyle.Render(border.TopLeft+border.Top) +
		styles.AccentText.Bold(true).Render(label) +
		borderStyle.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	body := lipgloss.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(inner).
		Height(max(height-2, 1)).
		Render(content)

	return top + "\n" + body
}

// classifyConnectionError turns a poll failure into a short header label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	var (
		terr      *remote.TransportError
		initErr   *chat.ParserInitializationError
		malformed *chat.MalformedDocumentError
	)
	switch {
	case errors.As(err, &malformed):
		return "MALFORMED FEED"
	case errors.As(err, &initErr):
		return "BAD FEED"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.As(err, &terr) && terr.StatusCode > 0:
		return fmt.Sprintf("HTTP %d", terr.StatusCode)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// describeError is the short error text shown in notices.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	var verr *chat.ValidationError
	if errors.As(err, &verr) {
		return "missing " + strings.ToLower(strings.Join(verr.Fields, ", "))
	}
	return strings.ToLower(classifyConnectionError(err))
}

// plainText collapses whitespace so a chat field renders on one line.
func plainText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// truncateMiddle shortens value to limit runes keeping both ends.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
