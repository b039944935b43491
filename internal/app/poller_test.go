package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/jsrl/internal/chat"
	"github.com/five82/jsrl/internal/state"
	"github.com/five82/jsrl/internal/tracklist"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeChat struct {
	messages []chat.Message
	err      error
	calls    atomic.Int32
}

func (f *fakeChat) Fetch(_ context.Context, completion func(error, []chat.Message)) {
	f.calls.Add(1)
	go completion(f.err, f.messages)
}

type fakeTracks struct {
	tracks []tracklist.Entry
	err    error
	urls   chan string
}

func (f *fakeTracks) Fetch(_ context.Context, url string, completion func(error, []tracklist.Entry)) {
	f.urls <- url
	go completion(f.err, f.tracks)
}

func resolver(name string) (string, bool) {
	if name == "classic" {
		return "https://radio.example/classic.js", true
	}
	return "", false
}

func TestPoller_RefreshUpdatesChatAndTracks(t *testing.T) {
	store := &state.Store{}
	store.SelectStation("classic")
	tracks := &fakeTracks{tracks: []tracklist.Entry{"Funky Radio"}, urls: make(chan string, 1)}
	p := &Poller{
		Store:    store,
		Chat:     &fakeChat{messages: []chat.Message{{Username: "Rudie", Text: "yo"}}},
		Tracks:   tracks,
		Stations: resolver,
	}

	p.Refresh(context.Background())

	snap := store.Snapshot()
	if len(snap.Messages) != 1 || snap.Messages[0].Text != "yo" {
		t.Fatalf("Messages = %+v", snap.Messages)
	}
	if len(snap.Tracks) != 1 || snap.Tracks[0] != "Funky Radio" {
		t.Fatalf("Tracks = %v", snap.Tracks)
	}
	if got := <-tracks.urls; got != "https://radio.example/classic.js" {
		t.Fatalf("track list URL = %q", got)
	}
}

func TestPoller_RefreshRecordsFailures(t *testing.T) {
	store := &state.Store{}
	store.SelectStation("classic")
	p := &Poller{
		Store:    store,
		Chat:     &fakeChat{err: errors.New("down")},
		Tracks:   &fakeTracks{err: errors.New("404"), urls: make(chan string, 1)},
		Stations: resolver,
	}

	p.Refresh(context.Background())
	p.Refresh(context.Background())

	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("ConsecutiveFailures = %d, want 2 (offline)", snap.ConsecutiveFailures)
	}
	if snap.TracksError == nil {
		t.Fatal("TracksError = nil, want recorded failure")
	}
}

func TestPoller_SkipsTracksWithoutKnownStation(t *testing.T) {
	tracks := &fakeTracks{urls: make(chan string, 1)}
	for _, station := range []string{"", "pirate"} {
		store := &state.Store{}
		store.SelectStation(station)
		p := &Poller{Store: store, Chat: &fakeChat{}, Tracks: tracks, Stations: resolver}
		p.Refresh(context.Background())
	}
	select {
	case url := <-tracks.urls:
		t.Fatalf("unexpected track fetch of %q", url)
	default:
	}
}

type stalledChat struct{}

func (stalledChat) Fetch(context.Context, func(error, []chat.Message)) {}

func TestPoller_RefreshReturnsWhenContextEnds(t *testing.T) {
	store := &state.Store{}
	p := &Poller{Store: store, Chat: stalledChat{}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		p.Refresh(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Refresh did not return after context deadline")
	}
	if err := store.Snapshot().LastError; !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("LastError = %v, want context.DeadlineExceeded", err)
	}
}

func TestPoller_StartStopsOnCancel(t *testing.T) {
	feed := &fakeChat{}
	p := &Poller{Store: &state.Store{}, Chat: feed, Interval: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for feed.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want >= 3", feed.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	time.Sleep(50 * time.Millisecond)
	stopped := feed.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if feed.calls.Load() != stopped {
		t.Fatal("poller kept running after cancel")
	}
}
