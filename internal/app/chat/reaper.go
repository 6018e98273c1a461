/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Reaper, the background sweep that removes rooms whose members
are all gone but whose message history keeps them alive. Without it such rooms would
accumulate for the lifetime of the process.
*/
package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"spchat/internal/pkg/logx"
)

// ReapInterval is how often the reaper sweeps the room table.
const ReapInterval = 5 * time.Minute

// Reaper periodically deletes memberless rooms that have been idle longer
// than the configured TTL.
type Reaper struct {
	store *Store
	ttl   time.Duration

	// stopChan signals the sweep loop to exit.
	stopChan chan struct{}

	// wg waits for the sweep loop to finish during shutdown.
	wg sync.WaitGroup

	// structured logger with Reaper context.
	logger zerolog.Logger
}

// NewReaper constructs a Reaper over the given store. A zero or negative ttl
// disables reaping; Start becomes a no-op.
func NewReaper(store *Store, ttl time.Duration) *Reaper {
	reaperLogger := logx.Logger().With().Str("component", "Reaper").Logger()

	return &Reaper{
		store:    store,
		ttl:      ttl,
		stopChan: make(chan struct{}),
		logger:   reaperLogger,
	}
}

// Start launches the background sweep loop.
func (r *Reaper) Start() {
	if r.ttl <= 0 {
		r.logger.Info().Msg("Idle room reaping disabled.")
		return
	}

	r.wg.Add(1)
	go r.run()
}

func (r *Reaper) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(ReapInterval)
	defer ticker.Stop()

	r.logger.Info().Dur("ttl", r.ttl).Msg("Reaper started.")

	for {
		select {
		case <-ticker.C:
			if reaped := r.store.ReapIdle(r.ttl); reaped > 0 {
				r.logger.Info().Int("reaped", reaped).Msg("Idle rooms removed.")
			}

		case <-r.stopChan:
			r.logger.Info().Msg("Reaper stopped.")
			return
		}
	}
}

// Stop terminates the sweep loop and waits for it to exit. Safe to call even
// if Start never ran or reaping is disabled.
func (r *Reaper) Stop() {
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
	r.wg.Wait()
}
