package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"

	"github.com/five82/jsrl/internal/chat"
	"github.com/five82/jsrl/internal/endpoint"
)

// Station is a radio station and the script listing its tracks.
type Station struct {
	Name         string `toml:"name"`
	TracklistURL string `toml:"tracklist_url"`
}

// Config captures everything jsrl reads from config.toml and the environment.
type Config struct {
	BaseURL        string
	LogFile        string
	LogLevel       string
	RequestTimeout time.Duration // zero keeps the HTTP client default
	Stations       []Station
	ChatElements   chat.ElementNames
}

const (
	defaultConfigPath = "~/.config/jsrl/config.toml"
	defaultLogFile    = "~/.local/state/jsrl/jsrl.log"
	defaultBaseURL    = "https://jetsetradio.live"
	defaultLogLevel   = "info"
	envPrefix         = "jsrl"
)

var defaultStationNames = []string{"classic", "future", "ultraremixes", "ggs", "poisonjam", "noisetanks"}

type rawConfig struct {
	BaseURL        string    `toml:"base_url"`
	LogFile        string    `toml:"log_file"`
	LogLevel       string    `toml:"log_level"`
	RequestTimeout string    `toml:"request_timeout"`
	Stations       []Station `toml:"stations"`
	ChatElements   struct {
		Record   string `toml:"record"`
		Username string `toml:"username"`
		Text     string `toml:"text"`
		Origin   string `toml:"origin"`
		Password string `toml:"password"`
	} `toml:"chat_elements"`
}

// envOverrides are read from JSRL_* variables and win over the file.
type envOverrides struct {
	BaseURL        string `envconfig:"BASE_URL"`
	LogFile        string `envconfig:"LOG_FILE"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	RequestTimeout string `envconfig:"REQUEST_TIMEOUT"`
}

// Load locates and parses the jsrl config, falling back to defaults when the
// file is missing, then applies JSRL_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	bytes, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if bytes != nil {
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	raw.BaseURL = firstNonEmpty(env.BaseURL, raw.BaseURL)
	raw.LogFile = firstNonEmpty(env.LogFile, raw.LogFile)
	raw.LogLevel = firstNonEmpty(env.LogLevel, raw.LogLevel)
	raw.RequestTimeout = firstNonEmpty(env.RequestTimeout, raw.RequestTimeout)

	return build(raw)
}

func build(raw rawConfig) (Config, error) {
	cfg := Config{
		BaseURL:  strings.TrimRight(firstNonEmpty(raw.BaseURL, defaultBaseURL), "/"),
		LogLevel: strings.ToLower(firstNonEmpty(raw.LogLevel, defaultLogLevel)),
		LogFile:  mustExpand(firstNonEmpty(raw.LogFile, defaultLogFile)),
		ChatElements: chat.ElementNames{
			Record:   strings.TrimSpace(raw.ChatElements.Record),
			Username: strings.TrimSpace(raw.ChatElements.Username),
			Text:     strings.TrimSpace(raw.ChatElements.Text),
			Origin:   strings.TrimSpace(raw.ChatElements.Origin),
			Password: strings.TrimSpace(raw.ChatElements.Password),
		},
	}

	if timeout := strings.TrimSpace(raw.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("request_timeout must not be negative, got %s", d)
		}
		cfg.RequestTimeout = d
	}

	stations := lo.FilterMap(raw.Stations, func(s Station, _ int) (Station, bool) {
		s.Name = strings.TrimSpace(s.Name)
		s.TracklistURL = strings.TrimSpace(s.TracklistURL)
		return s, s.Name != "" && s.TracklistURL != ""
	})
	stations = lo.UniqBy(stations, func(s Station) string { return s.Name })
	if len(stations) == 0 {
		stations = DefaultStations(cfg.BaseURL)
	}
	cfg.Stations = stations

	return cfg, nil
}

// DefaultStations lists the stations served from base.
func DefaultStations(base string) []Station {
	base = strings.TrimRight(base, "/")
	return lo.Map(defaultStationNames, func(name string, _ int) Station {
		return Station{Name: name, TracklistURL: base + "/radio/stations/" + name + "/~list.js"}
	})
}

// Endpoint returns the immutable endpoint context for the chat feed.
func (c Config) Endpoint() endpoint.Context {
	return endpoint.New(c.BaseURL)
}

// Station looks up a station by name.
func (c Config) Station(name string) (Station, bool) {
	return lo.Find(c.Stations, func(s Station) bool {
		return strings.EqualFold(s.Name, strings.TrimSpace(name))
	})
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return bytes, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
