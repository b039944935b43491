package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jsrl/internal/chat"
	"github.com/five82/jsrl/internal/config"
	"github.com/five82/jsrl/internal/prefs"
	"github.com/five82/jsrl/internal/remote"
	"github.com/five82/jsrl/internal/state"
)

type fakeSender struct {
	sent   []chat.Message
	status int
	err    error
}

func (f *fakeSender) Send(_ context.Context, msg chat.Message, completion func(error, *remote.Response)) {
	f.sent = append(f.sent, msg)
	completion(f.err, &remote.Response{StatusCode: f.status})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	if opts.Store == nil {
		opts.Store = &state.Store{}
	}
	m := New(opts)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestNew_Defaults(t *testing.T) {
	m := New(Options{})
	if m.currentView != ViewChat {
		t.Fatalf("currentView = %v, want chat", m.currentView)
	}
	if m.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", m.theme.Name)
	}
	if m.prefs.Username != "Rudie" {
		t.Fatalf("username = %q, want Rudie", m.prefs.Username)
	}
	if m.View() != "Loading..." {
		t.Fatalf("View before size = %q", m.View())
	}
}

func TestModel_TabCyclesViews(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.currentView != ViewTracks {
		t.Fatalf("after tab: %v, want tracks", m.currentView)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	if m.currentView != ViewChat {
		t.Fatalf("after 3 tabs: %v, want chat", m.currentView)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.currentView != ViewLogs {
		t.Fatalf("after shift+tab: %v, want logs", m.currentView)
	}
}

func TestModel_ComposeAndSend(t *testing.T) {
	sender := &fakeSender{status: 200}
	m := newTestModel(t, Options{Chat: sender, Prefs: prefs.Prefs{Username: "Beat", Private: true}})

	m, _ = press(t, m, runes("c"))
	if m.editing != composeMessage {
		t.Fatal("c should open the compose line")
	}
	m, cmd := press(t, m, runes("hello there"), tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.sending {
		t.Fatal("enter should start a send")
	}
	if m.editing != composeNone {
		t.Fatal("compose line should close after send")
	}

	msg := cmd()
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	want := chat.Message{Text: "hello there", Username: "Beat", IsPrivate: true}
	if sender.sent[0] != want {
		t.Fatalf("sent %+v, want %+v", sender.sent[0], want)
	}

	next, _ := m.Update(msg)
	m = next.(Model)
	if m.sending {
		t.Fatal("sending should clear after completion")
	}
	if got := m.store.Snapshot().LastSend.StatusCode; got != 200 {
		t.Fatalf("LastSend.StatusCode = %d, want 200", got)
	}
}

func TestModel_BlankMessageNotSent(t *testing.T) {
	sender := &fakeSender{status: 200}
	m := newTestModel(t, Options{Chat: sender})

	m, cmd := press(t, m, runes("c"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.sending || len(sender.sent) != 0 {
		t.Fatal("blank message should not be sent")
	}
}

func TestModel_SendFailureShowsNotice(t *testing.T) {
	sender := &fakeSender{status: 403, err: &remote.TransportError{Op: "POST", StatusCode: 403, Err: remote.ErrStatus}}
	m := newTestModel(t, Options{Chat: sender})

	m, cmd := press(t, m, runes("c"), runes("yo"), tea.KeyMsg{Type: tea.KeyEnter})
	next, _ := m.Update(cmd())
	m = next.(Model)
	if !strings.Contains(m.notice, "http 403") {
		t.Fatalf("notice = %q, want http 403", m.notice)
	}
	if m.store.Snapshot().LastSend.Err == nil {
		t.Fatal("send error should be recorded in the store")
	}
}

func TestModel_EscCancelsCompose(t *testing.T) {
	m := newTestModel(t, Options{Chat: &fakeSender{}})
	m, _ = press(t, m, runes("c"), runes("draft"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing != composeNone || m.input.Value() != "" {
		t.Fatal("esc should close and clear the compose line")
	}
}

func TestModel_EditUsernamePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, Options{PrefsPath: path})

	m, _ = press(t, m, runes("u"))
	if m.input.Value() != "Rudie" {
		t.Fatalf("username input = %q, want current name", m.input.Value())
	}
	m, _ = press(t, m, runes("X"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.prefs.Username != "RudieX" {
		t.Fatalf("username = %q, want RudieX", m.prefs.Username)
	}

	saved, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Username != "RudieX" {
		t.Fatalf("saved username = %q, want RudieX", saved.Username)
	}
}

func TestModel_TogglePrivateAndTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := newTestModel(t, Options{PrefsPath: path})

	m, _ = press(t, m, runes("p"), runes("T"))
	if !m.prefs.Private {
		t.Fatal("p should toggle private on")
	}
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, _ := prefs.Load(path)
	if !saved.Private || saved.Theme != "Kanagawa" {
		t.Fatalf("saved prefs = %+v", saved)
	}
}

func TestModel_StationCycleRefreshes(t *testing.T) {
	store := &state.Store{}
	var refreshed atomic.Int32
	stations := config.DefaultStations("https://radio.example")
	m := newTestModel(t, Options{
		Store:    store,
		Stations: stations,
		Refresh:  func(context.Context) { refreshed.Add(1) },
	})

	m, cmd := press(t, m, runes("s"))
	if got := store.Snapshot().Station; got != stations[0].Name {
		t.Fatalf("station = %q, want %q", got, stations[0].Name)
	}
	if m.currentView != ViewTracks {
		t.Fatalf("view = %v, want tracks", m.currentView)
	}
	if cmd == nil {
		t.Fatal("station change should return a refresh command")
	}
	snap, ok := cmd().(snapshotMsg)
	if !ok {
		t.Fatal("refresh command should deliver a snapshot")
	}
	if refreshed.Load() != 1 {
		t.Fatalf("refresh called %d times, want 1", refreshed.Load())
	}

	next, _ := m.Update(snap)
	m = next.(Model)
	_, _ = press(t, m, runes("S"))
	if got := store.Snapshot().Station; got != stations[len(stations)-1].Name {
		t.Fatalf("S from first station = %q, want last", got)
	}
}

func TestNextStation(t *testing.T) {
	stations := []config.Station{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	cases := []struct {
		current string
		step    int
		want    string
	}{
		{"", 1, "a"},
		{"a", 1, "b"},
		{"c", 1, "a"},
		{"a", -1, "c"},
		{"gone", -1, "a"},
	}
	for _, tc := range cases {
		if got := nextStation(stations, tc.current, tc.step); got != tc.want {
			t.Fatalf("nextStation(%q, %d) = %q, want %q", tc.current, tc.step, got, tc.want)
		}
	}
	if got := nextStation(nil, "a", 1); got != "" {
		t.Fatalf("nextStation(nil) = %q, want empty", got)
	}
}

func TestModel_ViewRendersSnapshot(t *testing.T) {
	store := &state.Store{}
	store.SelectStation("classic")
	store.UpdateChat([]chat.Message{{Username: "Corn", Text: "keep it funky"}}, nil)
	store.UpdateTracks("classic", []string{"Humming the Bassline"}, nil)
	m := newTestModel(t, Options{Store: store})

	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"jsrl", "LIVE", "keep it funky", "Chat (1)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("chat view missing %q", want)
		}
	}

	m, _ = press(t, m, runes("2"))
	if view := m.View(); !strings.Contains(view, "Humming the Bassline") || !strings.Contains(view, "Tracks: classic (1)") {
		t.Fatalf("tracks view = %q", view)
	}
}

func TestModel_OfflineHeader(t *testing.T) {
	store := &state.Store{}
	err := &remote.TransportError{Op: "GET", Err: errors.New("connection refused")}
	store.UpdateChat(nil, err)
	store.UpdateChat(nil, err)
	m := newTestModel(t, Options{Store: store})
	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)

	if got := m.feedState(); got != "offline" {
		t.Fatalf("feedState = %q, want offline", got)
	}
	if !strings.Contains(m.View(), "OFFLINE") {
		t.Fatal("header should show OFFLINE")
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("? should open help")
	}
	m, _ = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestModel_ComposeLineFillsWidth(t *testing.T) {
	m := newTestModel(t, Options{})
	if got := lipgloss.Width(m.renderComposeLine()); got != 120 {
		t.Fatalf("compose line width = %d, want 120", got)
	}
	m, _ = press(t, m, runes("c"))
	if got := lipgloss.Width(m.renderComposeLine()); got != 120 {
		t.Fatalf("editing compose line width = %d, want 120", got)
	}
}
