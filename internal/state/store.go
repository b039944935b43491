package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/five82/jsrl/internal/chat"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Messages            []chat.Message
	HasMessages         bool
	Station             string
	Tracks              []string
	ChatUpdated         time.Time
	TracksUpdated       time.Time
	LastError           error // most recent chat poll failure
	TracksError         error
	ConsecutiveFailures int // consecutive chat poll failures
	LastSend            SendStatus
}

// SendStatus records the outcome of the most recent chat post.
type SendStatus struct {
	At         time.Time
	StatusCode int
	Err        error
}

// IsOffline returns true when the chat feed has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateChat replaces the stored messages. When err is non-nil the previous
// messages are kept, including on a malformed document with a partial result,
// and the error is recorded.
func (s *Store) UpdateChat(messages []chat.Message, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.ChatUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.Messages = slices.Clone(messages)
	s.snapshot.HasMessages = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// UpdateTracks stores the track list of station. A result for a station other
// than the selected one is dropped.
func (s *Store) UpdateTracks(station string, tracks []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if station != s.snapshot.Station {
		return
	}
	s.snapshot.TracksUpdated = time.Now()
	if err != nil {
		s.snapshot.TracksError = err
		return
	}
	s.snapshot.Tracks = slices.Clone(tracks)
	s.snapshot.TracksError = nil
}

// SelectStation switches the station whose track list is shown and forgets
// the previous list.
func (s *Store) SelectStation(station string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if station == s.snapshot.Station {
		return
	}
	s.snapshot.Station = station
	s.snapshot.Tracks = nil
	s.snapshot.TracksError = nil
	s.snapshot.TracksUpdated = time.Time{}
}

// RecordSend stores the outcome of a chat post.
func (s *Store) RecordSend(statusCode int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastSend = SendStatus{At: time.Now(), StatusCode: statusCode, Err: err}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Messages = slices.Clone(s.snapshot.Messages)
	snap.Tracks = slices.Clone(s.snapshot.Tracks)
	snap.LastError = cloneErr(s.snapshot.LastError)
	snap.TracksError = cloneErr(s.snapshot.TracksError)
	snap.LastSend.Err = cloneErr(s.snapshot.LastSend.Err)
	return snap
}

func cloneErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w", err)
}
