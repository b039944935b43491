package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jsrl/internal/chat"
)

// formatMessage renders one chat line: nick, optional private badge, text.
func formatMessage(theme Theme, styles Styles, msg chat.Message) string {
	name := plainText(msg.Username)
	if name == "" {
		name = "anonymous"
	}
	nick := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.NickColor(name))).
		Bold(true).
		Render(name)

	var b strings.Builder
	b.WriteString(nick)
	if msg.IsPrivate {
		b.WriteString(" ")
		b.WriteString(styles.BadgeStyle("private").Render("pm"))
	}
	b.WriteString(styles.FaintText.Render(": "))
	b.WriteString(styles.Text.Render(plainText(msg.Text)))
	return b.String()
}

func (m Model) renderChatContent() string {
	styles := m.theme.Styles()
	if len(m.snapshot.Messages) == 0 {
		if m.snapshot.HasMessages {
			return styles.FaintText.Render("No messages yet.")
		}
		return styles.FaintText.Render("Waiting for chat...")
	}
	wrap := lipgloss.NewStyle().Width(max(m.chatViewport.Width, 1))
	lines := make([]string, 0, len(m.snapshot.Messages))
	for _, msg := range m.snapshot.Messages {
		lines = append(lines, wrap.Render(formatMessage(m.theme, styles, msg)))
	}
	return strings.Join(lines, "\n")
}

// updateChatViewport refreshes chat content, following new messages when the
// view is scrolled to the bottom.
func (m *Model) updateChatViewport() {
	if !m.ready {
		return
	}
	m.chatViewport.SetContent(m.renderChatContent())
	if m.followChat {
		m.chatViewport.GotoBottom()
	}
}

// renderChat renders the chat view with the compose line beneath it.
func (m Model) renderChat() string {
	title := "Chat"
	if n := len(m.snapshot.Messages); n > 0 {
		title = fmt.Sprintf("Chat (%d)", n)
	}
	box := m.renderBox(title, m.chatViewport.View(), m.width, m.height-headerRows-composeRows)
	return box + "\n" + m.renderComposeLine()
}

func (m Model) renderComposeLine() string {
	return NewBgStyle(m.theme.Surface).FillLine(m.composeContent(), max(m.width, 1))
}

func (m Model) composeContent() string {
	styles := m.theme.Styles()
	switch m.editing {
	case composeMessage:
		prompt := plainText(m.prefs.Username)
		if m.prefs.Private {
			prompt += " (pm)"
		}
		return styles.AccentText.Render(prompt+" > ") + m.input.View()
	case composeUsername:
		return styles.AccentText.Render("name > ") + m.input.View()
	}
	if m.sending {
		return styles.InfoText.Render("sending...")
	}
	if last := m.snapshot.LastSend; !last.At.IsZero() && last.Err == nil {
		return styles.FaintText.Render(fmt.Sprintf("sent (HTTP %d). press c to write", last.StatusCode))
	}
	return styles.FaintText.Render("press c to write a message")
}
