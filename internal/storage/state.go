// Package storage persists the monitor state document: the snapshot series,
// the last fetch time and the instrument metadata cache.
package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/bradymd/trading212/internal/calendar"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bytedance/sonic"
)

var (
	ErrCorruptState = errors.New("corrupt persisted state")
)

type InstrumentCacheState struct {
	Entries  []model.InstrumentMetadata `json:"entries"`
	CachedAt time.Time                  `json:"cachedAt"`
}

// State is the whole persisted record of one installation.
type State struct {
	Snapshots       map[string]model.Snapshot `json:"snapshots"`
	LastFetchTime   *time.Time                `json:"lastFetchTime,omitempty"`
	InstrumentCache *InstrumentCacheState     `json:"instrumentCache,omitempty"`
}

func NewState() State {
	return State{Snapshots: make(map[string]model.Snapshot)}
}

// Clone copies the snapshot map. Snapshots, the fetch time and the cache are
// replaced as whole values and never mutated in place, so they are shared.
func (s State) Clone() State {
	c := s
	c.Snapshots = make(map[string]model.Snapshot, len(s.Snapshots))
	maps.Copy(c.Snapshots, s.Snapshots)
	return c
}

// Backend loads and stores the state document.
type Backend interface {
	// Load returns an empty state when nothing was stored yet and an error
	// wrapping ErrCorruptState when the stored record can't be decoded.
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
	Close() error
}

var _codec = sonic.ConfigStd

// Encode serialises the state with sorted keys so consecutive writes diff cleanly.
func Encode(s State) ([]byte, error) {
	if s.Snapshots == nil {
		s.Snapshots = make(map[string]model.Snapshot)
	}
	data, err := _codec.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: can't marshal state", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a state document and checks the snapshot keys.
func Decode(data []byte) (State, error) {
	if len(data) == 0 {
		return State{}, fmt.Errorf("%w: empty document", ErrCorruptState)
	}

	var s State
	if err := _codec.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("%w: %s", ErrCorruptState, err)
	}
	if s.Snapshots == nil {
		s.Snapshots = make(map[string]model.Snapshot)
	}

	for key, snap := range s.Snapshots {
		if !calendar.Valid(key) {
			return State{}, fmt.Errorf("%w: invalid snapshot key %q", ErrCorruptState, key)
		}
		if snap.Date == "" {
			snap.Date = key
			s.Snapshots[key] = snap
		}
		if snap.Date != key {
			return State{}, fmt.Errorf("%w: snapshot %q stored under %q", ErrCorruptState, snap.Date, key)
		}
	}

	return s, nil
}
