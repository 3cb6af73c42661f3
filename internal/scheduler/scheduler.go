package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Entry drives periodic ingestion for a single location.
type Entry struct {
	Location string
	Interval time.Duration
}

// Task is one ingestion run for a location. Returned errors are logged and
// the entry retries on its next tick.
type Task func(ctx context.Context, location string) error

// Scheduler runs one independent periodic job per entry. Entries never affect
// each other: a persistently failing location keeps retrying on its own
// cadence while the others tick undisturbed. Jobs run in singleton mode, so a
// slow tick is never overlapped by the next one for the same entry.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	entries     []Entry
	task        Task
	tickTimeout time.Duration
}

// New creates a Scheduler for the given entries.
func New(entries []Entry, task Task) *Scheduler {
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		entries:     entries,
		task:        task,
		tickTimeout: 2 * time.Minute,
	}
}

// SetTickTimeout overrides the per-tick deadline.
func (s *Scheduler) SetTickTimeout(d time.Duration) {
	s.tickTimeout = d
}

// Start registers one job per entry and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.entries) == 0 {
		return errors.New("scheduler: no entries configured")
	}

	for _, entry := range s.entries {
		entry := entry
		_, err := s.scheduler.Every(entry.Interval).SingletonMode().Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.tickTimeout)
			defer cancel()

			if err := s.task(ctx, entry.Location); err != nil {
				log.Printf("scheduler: tick failed for %s: %v", entry.Location, err)
			}
		})
		if err != nil {
			return err
		}
		log.Printf("scheduler: registered %s every %s", entry.Location, entry.Interval)
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop cancels all entries together. An in-flight tick is allowed to finish.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
