// Package scheduler runs a periodic full rebuild of the POR catalog's
// InvertedIndex, adapted from worker/scheduler.go's mutex-guarded
// cron.Cron wrapper.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/trepgo/opentrep/pkg/logger"
)

// RebuildFunc performs one full index rebuild; scheduler does not know
// how to build an index, only when to ask for one.
type RebuildFunc func(ctx context.Context) error

// Scheduler runs RebuildFunc on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	rebuild RebuildFunc
	log     *logger.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	running bool
}

// New returns a Scheduler that will call rebuild on cronExpr (standard
// five-field cron syntax) once Start is called.
func New(rebuild RebuildFunc, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		rebuild: rebuild,
		log:     log,
	}
}

// Start registers the rebuild job on cronExpr and starts the cron loop.
func (s *Scheduler) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(cronExpr, s.runRebuild)
	if err != nil {
		return err
	}
	s.entryID = entryID
	s.cron.Start()
	s.running = true
	s.log.Info("index rebuild scheduler started", "cron", cronExpr)
	return nil
}

func (s *Scheduler) runRebuild() {
	ctx := context.Background()
	s.log.Info("starting scheduled index rebuild")
	if err := s.rebuild(ctx); err != nil {
		s.log.Error(err, "scheduled index rebuild failed")
		return
	}
	s.log.Info("scheduled index rebuild complete")
}

// Stop halts the cron loop and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.log.Info("index rebuild scheduler stopped")
}
