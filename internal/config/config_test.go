package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"JSRL_BASE_URL", "JSRL_LOG_FILE", "JSRL_LOG_LEVEL", "JSRL_REQUEST_TIMEOUT"} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, defaultBaseURL)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("RequestTimeout = %v, want 0", cfg.RequestTimeout)
	}
	if len(cfg.Stations) != len(defaultStationNames) {
		t.Fatalf("len(Stations) = %d, want %d", len(cfg.Stations), len(defaultStationNames))
	}
	if got := cfg.Stations[0].TracklistURL; got != defaultBaseURL+"/radio/stations/classic/~list.js" {
		t.Fatalf("Stations[0].TracklistURL = %q", got)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := writeConfig(t, `
base_url = "  https://radio.example/  "
log_file = "  ~/jsrl/debug.log  "
log_level = " DEBUG "
request_timeout = "7s"

[[stations]]
name = " future "
tracklist_url = "https://radio.example/future.js"

[[stations]]
name = "future"
tracklist_url = "https://radio.example/dupe.js"

[[stations]]
name = "nourl"

[chat_elements]
record = "post"
username = " nick "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "https://radio.example" {
		t.Fatalf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.RequestTimeout != 7*time.Second {
		t.Fatalf("RequestTimeout = %v, want 7s", cfg.RequestTimeout)
	}
	if len(cfg.Stations) != 1 || cfg.Stations[0].Name != "future" || cfg.Stations[0].TracklistURL != "https://radio.example/future.js" {
		t.Fatalf("Stations = %+v, want the single first future entry", cfg.Stations)
	}
	if cfg.ChatElements.Record != "post" || cfg.ChatElements.Username != "nick" || cfg.ChatElements.Text != "" {
		t.Fatalf("ChatElements = %+v", cfg.ChatElements)
	}
	if got := cfg.Endpoint().URL("/chat/messages.xml"); got != "https://radio.example/chat/messages.xml" {
		t.Fatalf("Endpoint URL = %q", got)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("JSRL_BASE_URL", "http://127.0.0.1:8080")
	t.Setenv("JSRL_LOG_LEVEL", "warn")
	t.Setenv("JSRL_REQUEST_TIMEOUT", "250ms")

	path := writeConfig(t, `
base_url = "https://radio.example"
log_level = "debug"
request_timeout = "5s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:8080" {
		t.Fatalf("BaseURL = %q, want env override", cfg.BaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.RequestTimeout != 250*time.Millisecond {
		t.Fatalf("RequestTimeout = %v, want 250ms", cfg.RequestTimeout)
	}
	if got := cfg.Stations[0].TracklistURL; !strings.HasPrefix(got, "http://127.0.0.1:8080/") {
		t.Fatalf("default stations should follow the overridden base, got %q", got)
	}
}

func TestLoad_InvalidTOMLReturnsError(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "base_url = [")
	if _, err := Load(path); err == nil {
		t.Fatal("Load returned nil error for invalid TOML")
	}
}

func TestLoad_InvalidTimeoutReturnsError(t *testing.T) {
	clearEnv(t)
	for _, value := range []string{"soon", "-1s"} {
		path := writeConfig(t, `request_timeout = "`+value+`"`)
		if _, err := Load(path); err == nil {
			t.Fatalf("Load(request_timeout=%q) returned nil error", value)
		}
	}
}

func TestConfig_StationLookup(t *testing.T) {
	cfg := Config{Stations: DefaultStations("https://radio.example/")}

	st, ok := cfg.Station(" GGS ")
	if !ok {
		t.Fatal("Station(GGS) not found")
	}
	if st.TracklistURL != "https://radio.example/radio/stations/ggs/~list.js" {
		t.Fatalf("TracklistURL = %q", st.TracklistURL)
	}
	if _, ok := cfg.Station("pirate"); ok {
		t.Fatal("Station(pirate) found, want missing")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandPath = %q, want %q", got, filepath.Join(home, "x", "y"))
	}
	if _, err := ExpandPath("   "); err == nil {
		t.Fatal("ExpandPath(blank) returned nil error")
	}
}
