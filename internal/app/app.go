package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/five82/jsrl/internal/chat"
	"github.com/five82/jsrl/internal/config"
	"github.com/five82/jsrl/internal/dispatch"
	"github.com/five82/jsrl/internal/logging"
	"github.com/five82/jsrl/internal/prefs"
	"github.com/five82/jsrl/internal/state"
	"github.com/five82/jsrl/internal/tracklist"
	"github.com/five82/jsrl/internal/ui"
)

// Options configure the jsrl application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/jsrl/prefs.toml
	PollEvery  int    // seconds; zero uses default
	Station    string // overrides the saved station
	Once       bool   // refresh once, print to Out and exit
	Out        io.Writer
}

// Run boots jsrl until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, closer, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	// Parsing and completions run here, one at a time.
	loop := dispatch.NewLoop()
	defer loop.Close()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	chatClient := chat.NewClient(cfg.Endpoint(),
		chat.WithHTTPClient(httpClient),
		chat.WithElementNames(cfg.ChatElements),
		chat.WithDispatcher(loop),
		chat.WithLogger(logger.With().Str("component", "chat").Logger()),
	)
	trackClient := tracklist.NewClient(
		tracklist.WithHTTPClient(httpClient),
		tracklist.WithDispatcher(loop),
		tracklist.WithLogger(logger.With().Str("component", "tracklist").Logger()),
	)

	store := &state.Store{}
	station := pickStation(cfg, opts.Station, userPrefs.Station)
	store.SelectStation(station)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := &Poller{
		Store:  store,
		Chat:   chatClient,
		Tracks: trackClient,
		Stations: func(name string) (string, bool) {
			st, ok := cfg.Station(name)
			return st.TracklistURL, ok
		},
		Interval: interval,
		Logger:   logger.With().Str("component", "poller").Logger(),
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("station", station).
		Dur("interval", interval).
		Bool("once", opts.Once).
		Msg("jsrl starting")

	if opts.Once {
		poller.Refresh(ctx)
		return printSnapshot(opts.Out, store.Snapshot())
	}

	poller.Start(ctx)

	userPrefs.Station = station
	err = ui.Run(ui.Options{
		Context:   ctx,
		Chat:      chatClient,
		Store:     store,
		Stations:  cfg.Stations,
		Refresh:   poller.Refresh,
		LogPath:   cfg.LogFile,
		PollTick:  ui.DefaultUIInterval,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger.With().Str("component", "ui").Logger(),
	})
	if err != nil && ctx.Err() != nil {
		// Interrupted by signal; the program was killed with the context.
		err = nil
	}
	logger.Info().Err(err).Msg("jsrl stopped")
	return err
}

// pickStation chooses the flag value, then the saved preference, then the
// first configured station. Names that are not configured are skipped.
func pickStation(cfg config.Config, requested, saved string) string {
	for _, name := range []string{requested, saved} {
		if st, ok := cfg.Station(name); ok {
			return st.Name
		}
	}
	if len(cfg.Stations) > 0 {
		return cfg.Stations[0].Name
	}
	return ""
}

// printSnapshot writes a plain text rendition of snap for -once.
func printSnapshot(w io.Writer, snap state.Snapshot) error {
	if w == nil {
		w = io.Discard
	}
	var b strings.Builder
	for _, msg := range snap.Messages {
		b.WriteString(msg.String())
		b.WriteString("\n")
	}
	if snap.Station != "" {
		fmt.Fprintf(&b, "\n[%s] %d tracks\n", snap.Station, len(snap.Tracks))
		for i, track := range snap.Tracks {
			fmt.Fprintf(&b, "%3d. %s\n", i+1, track)
		}
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return errors.Join(snapErr("chat", snap.LastError), snapErr("tracks", snap.TracksError))
}

func snapErr(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}
