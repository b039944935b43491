package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/five82/jsrl/internal/chat"
	"github.com/five82/jsrl/internal/state"
	"github.com/five82/jsrl/internal/tracklist"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// ChatFeed is the non-blocking chat surface the poller and UI drive.
type ChatFeed interface {
	Fetch(ctx context.Context, completion func(err error, messages []chat.Message))
}

// TrackFeed is the non-blocking track list surface.
type TrackFeed interface {
	Fetch(ctx context.Context, sourceURL string, completion func(err error, tracks []tracklist.Entry))
}

// StationResolver maps a station name to its track list URL.
type StationResolver func(name string) (string, bool)

// Poller refreshes the store from the chat and track list feeds.
type Poller struct {
	Store    *state.Store
	Chat     ChatFeed
	Tracks   TrackFeed
	Stations StationResolver
	Interval time.Duration
	Logger   zerolog.Logger
}

// Start launches a background goroutine that refreshes the store until ctx is
// cancelled, backing off while the chat feed keeps failing. It returns
// immediately.
func (p *Poller) Start(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		for {
			p.Refresh(ctx)
			wait := calculateBackoff(p.Store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// Refresh fetches chat messages and the selected station's track list
// concurrently and blocks until both completions have updated the store.
func (p *Poller) Refresh(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		messages, err := awaitChat(ctx, p.Chat)
		p.Store.UpdateChat(messages, err)
		if err != nil {
			p.Logger.Warn().Err(err).Int("partial", len(messages)).Msg("chat poll failed")
		}
		return nil
	})
	g.Go(func() error {
		station := p.Store.Snapshot().Station
		if station == "" || p.Tracks == nil || p.Stations == nil {
			return nil
		}
		url, ok := p.Stations(station)
		if !ok {
			p.Logger.Warn().Str("station", station).Msg("unknown station")
			return nil
		}
		tracks, err := awaitTracks(ctx, p.Tracks, url)
		p.Store.UpdateTracks(station, tracks, err)
		if err != nil {
			p.Logger.Warn().Err(err).Str("station", station).Msg("track list poll failed")
		}
		return nil
	})
	_ = g.Wait()
}

func awaitChat(ctx context.Context, feed ChatFeed) ([]chat.Message, error) {
	type result struct {
		err      error
		messages []chat.Message
	}
	ch := make(chan result, 1)
	feed.Fetch(ctx, func(err error, messages []chat.Message) {
		ch <- result{err: err, messages: messages}
	})
	select {
	case res := <-ch:
		return res.messages, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func awaitTracks(ctx context.Context, feed TrackFeed, url string) ([]tracklist.Entry, error) {
	type result struct {
		err    error
		tracks []tracklist.Entry
	}
	ch := make(chan result, 1)
	feed.Fetch(ctx, url, func(err error, tracks []tracklist.Entry) {
		ch <- result{err: err, tracks: tracks}
	})
	select {
	case res := <-ch:
		return res.tracks, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// calculateBackoff doubles base for each consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 16 {
		return maxBackoff
	}
	backoff := base << failures
	if backoff > maxBackoff || backoff <= 0 {
		return maxBackoff
	}
	return backoff
}
