package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/five82/jsrl/internal/chat"
	"github.com/five82/jsrl/internal/config"
	"github.com/five82/jsrl/internal/logtail"
	"github.com/five82/jsrl/internal/prefs"
	"github.com/five82/jsrl/internal/remote"
	"github.com/five82/jsrl/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewChat View = iota
	ViewTracks
	ViewLogs
)

var viewOrder = []View{ViewChat, ViewTracks, ViewLogs}

// composeTarget is what the input line is editing.
type composeTarget int

const (
	composeNone composeTarget = iota
	composeMessage
	composeUsername
)

// ChatSender posts chat messages without blocking.
type ChatSender interface {
	Send(ctx context.Context, msg chat.Message, completion func(err error, resp *remote.Response))
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Chat      ChatSender
	Store     *state.Store
	Stations  []config.Station
	Refresh   func(ctx context.Context) // blocking refresh of the store
	LogPath   string
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	chat      ChatSender
	store     *state.Store
	stations  []config.Station
	refresh   func(ctx context.Context)
	logPath   string
	prefsPath string
	pollTick  time.Duration
	logger    zerolog.Logger
	keys      keyMap

	// UI state
	prefs       prefs.Prefs
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      string

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Views
	chatViewport   viewport.Model
	tracksViewport viewport.Model
	logViewport    viewport.Model
	followChat     bool
	followLogs     bool
	logEntries     []logtail.Entry
	logErr         error

	// Compose line
	input   textinput.Model
	editing composeTarget
	sending bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	p := opts.Prefs
	if p.Username == "" {
		p.Username = prefs.Default().Username
	}

	input := textinput.New()
	input.CharLimit = MessageCharLimit

	return Model{
		ctx:         ctx,
		chat:        opts.Chat,
		store:       opts.Store,
		stations:    opts.Stations,
		refresh:     opts.Refresh,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		logger:      opts.Logger,
		keys:        DefaultKeyMap(),
		prefs:       p,
		theme:       GetTheme(p.Theme),
		currentView: ViewChat,
		followChat:  true,
		followLogs:  true,
		input:       input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		m.updateChatViewport()
		m.updateTracksViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.updateChatViewport()
		m.updateTracksViewport()
		return m, nil

	case sentMsg:
		m.sending = false
		if m.store != nil {
			m.store.RecordSend(msg.status, msg.err)
		}
		if msg.err != nil {
			m.notice = "send failed: " + describeError(msg.err)
			m.logger.Warn().Err(msg.err).Int("status", msg.status).Msg("chat send failed")
			return m, fetchSnapshotCmd(m.store)
		}
		m.notice = ""
		m.followChat = true
		return m, m.refreshCmd()

	case logsMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.editing != composeNone {
		return m.handleComposeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.updateChatViewport()
		m.updateTracksViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.adjacentView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.adjacentView(-1))

	case key.Matches(msg, m.keys.ViewChat):
		return m.switchView(ViewChat)

	case key.Matches(msg, m.keys.ViewTracks):
		return m.switchView(ViewTracks)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Compose):
		return m.startEditing(composeMessage)

	case key.Matches(msg, m.keys.EditName):
		return m.startEditing(composeUsername)

	case key.Matches(msg, m.keys.TogglePrivate):
		m.prefs.Private = !m.prefs.Private
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NextStation):
		return m.cycleStation(1)

	case key.Matches(msg, m.keys.PrevStation):
		return m.cycleStation(-1)
	}

	m.scroll(msg)
	return m, nil
}

// scroll applies navigation keys to the active viewport.
func (m *Model) scroll(msg tea.KeyMsg) {
	vp := m.activeViewport()
	if vp == nil {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, m.keys.Top):
		vp.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		vp.GotoBottom()
	case key.Matches(msg, m.keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		vp.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		vp.HalfPageDown()
	default:
		return
	}
	switch m.currentView {
	case ViewChat:
		m.followChat = vp.AtBottom()
	case ViewLogs:
		m.followLogs = vp.AtBottom()
	}
}

func (m *Model) activeViewport() *viewport.Model {
	switch m.currentView {
	case ViewChat:
		return &m.chatViewport
	case ViewTracks:
		return &m.tracksViewport
	case ViewLogs:
		return &m.logViewport
	default:
		return nil
	}
}

func (m Model) adjacentView(step int) View {
	idx := lo.IndexOf(viewOrder, m.currentView)
	n := len(viewOrder)
	return viewOrder[((idx+step)%n+n)%n]
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewLogs {
		return m, fetchLogsCmd(m.logPath)
	}
	return m, nil
}

func (m Model) startEditing(target composeTarget) (tea.Model, tea.Cmd) {
	m.editing = target
	m.currentView = ViewChat
	m.input.Reset()
	switch target {
	case composeUsername:
		m.input.CharLimit = UsernameCharLimit
		m.input.Placeholder = "username"
		m.input.SetValue(m.prefs.Username)
	default:
		m.input.CharLimit = MessageCharLimit
		m.input.Placeholder = "say something"
	}
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) stopEditing() Model {
	m.editing = composeNone
	m.input.Blur()
	m.input.Reset()
	return m
}

// handleComposeKey processes keyboard input while the compose line is active.
func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		return m.stopEditing(), nil

	case key.Matches(msg, m.keys.Send):
		value := strings.TrimSpace(m.input.Value())
		target := m.editing
		m = m.stopEditing()
		switch target {
		case composeUsername:
			if value != "" {
				m.prefs.Username = value
				m.savePrefs()
			}
			return m, nil
		default:
			if value == "" || m.chat == nil || m.sending {
				return m, nil
			}
			m.sending = true
			m.notice = ""
			out := chat.Message{Text: value, Username: m.prefs.Username, IsPrivate: m.prefs.Private}
			m.logger.Info().Str("username", out.Username).Bool("private", out.IsPrivate).Msg("sending chat message")
			return m, sendCmd(m.ctx, m.chat, out)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleStation selects the next or previous configured station and refreshes.
func (m Model) cycleStation(step int) (tea.Model, tea.Cmd) {
	name := nextStation(m.stations, m.snapshot.Station, step)
	if name == "" || m.store == nil {
		return m, nil
	}
	m.store.SelectStation(name)
	m.prefs.Station = name
	m.savePrefs()
	m.currentView = ViewTracks
	return m, m.refreshCmd()
}

// nextStation returns the station step positions from current, wrapping.
func nextStation(stations []config.Station, current string, step int) string {
	if len(stations) == 0 {
		return ""
	}
	idx := lo.IndexOf(lo.Map(stations, func(s config.Station, _ int) string { return s.Name }), current)
	if idx < 0 {
		return stations[0].Name
	}
	n := len(stations)
	return stations[((idx+step)%n+n)%n].Name
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

// handleTick processes the UI refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.followLogs {
		cmds = append(cmds, fetchLogsCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) resizeViewports() {
	if !m.ready {
		return
	}
	w := max(m.width-boxBorder, 1)
	h := max(m.height-headerRows-boxBorder, 1)
	for _, vp := range []*viewport.Model{&m.tracksViewport, &m.logViewport} {
		vp.Width = w
		vp.Height = h
	}
	// The chat box shares its column with the compose line.
	m.chatViewport.Width = w
	m.chatViewport.Height = max(h-composeRows, 1)
	m.input.Width = max(m.width-24, 10)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewChat:
		return m.renderChat()
	case ViewTracks:
		return m.renderTracks()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type sentMsg struct {
	status int
	err    error
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// refreshCmd runs an out-of-cycle poll and then delivers the new snapshot.
func (m Model) refreshCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	refresh, store, parent := m.refresh, m.store, m.ctx
	return func() tea.Msg {
		if refresh != nil {
			ctx, cancel := context.WithTimeout(parent, RefreshTimeout)
			refresh(ctx)
			cancel()
		}
		return snapshotMsg(store.Snapshot())
	}
}

// sendCmd posts msg and waits for the client's completion.
func sendCmd(ctx context.Context, sender ChatSender, msg chat.Message) tea.Cmd {
	return func() tea.Msg {
		done := make(chan sentMsg, 1)
		sender.Send(ctx, msg, func(err error, resp *remote.Response) {
			res := sentMsg{err: err}
			if resp != nil {
				res.status = resp.StatusCode
			}
			done <- res
		})
		return <-done
	}
}

func fetchLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, LogFetchLimit)
		return logsMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
