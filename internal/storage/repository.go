package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bradymd/trading212/internal/logger"
)

// Repository holds the current state in memory and writes every change
// through to the backend. A change becomes visible only after the backend
// accepted it.
type Repository struct {
	backend Backend
	logger  logger.Logger

	state State
}

// Open loads the persisted state. A corrupt record is logged and replaced by
// an empty state; other load errors are returned.
func Open(ctx context.Context, backend Backend, logger logger.Logger) (*Repository, error) {
	state, err := backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptState) {
			return nil, fmt.Errorf("%w: can't load state", err)
		}
		logger.Warnf("%s: starting with empty state", err)
		state = NewState()
	}

	return &Repository{
		backend: backend,
		logger:  logger,
		state:   state,
	}, nil
}

// View returns the current state. Callers must treat it as read-only.
func (r *Repository) View() State {
	return r.state
}

// Commit applies mutate to a copy of the state and persists the copy. On
// failure the in-memory state is left untouched.
func (r *Repository) Commit(ctx context.Context, mutate func(s *State)) error {
	next := r.state.Clone()
	mutate(&next)

	if err := r.backend.Save(ctx, next); err != nil {
		return fmt.Errorf("%w: can't persist state", err)
	}

	r.state = next
	return nil
}

func (r *Repository) Close() error {
	return r.backend.Close()
}
