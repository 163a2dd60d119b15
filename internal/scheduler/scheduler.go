// Package scheduler runs backups periodically on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// BackupFunc performs one full backup run.
type BackupFunc func(ctx context.Context) error

// Scheduler triggers a backup function on a cron schedule. Only one
// run is in flight at a time; a tick that fires while the previous run
// is still going is skipped.
type Scheduler struct {
	schedule string
	run      BackupFunc

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.Mutex
	isRunning   bool
	isBackingUp bool
	cancelFunc  context.CancelFunc
}

// New creates a scheduler for the given cron expression.
func New(schedule string, run BackupFunc) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		run:      run,
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule. The scheduler stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runBackup(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("scheduler: started with schedule '%s', next run %v",
		s.schedule, s.cron.Entry(entryID).Schedule.Next(time.Now()))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running backup to finish and stops the schedule.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("scheduler: stopped")
}

// NextRunTime returns when the next backup will fire, or nil when the
// scheduler is not running.
func (s *Scheduler) NextRunTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

func (s *Scheduler) runBackup(ctx context.Context) {
	s.mu.Lock()
	if s.isBackingUp {
		s.mu.Unlock()
		log.Printf("scheduler: backup skipped (previous run still going)")
		return
	}
	s.isBackingUp = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isBackingUp = false
		s.mu.Unlock()
	}()

	start := time.Now()
	log.Printf("scheduler: starting backup")

	if err := s.run(ctx); err != nil {
		log.Printf("scheduler: backup failed: %v", err)
		return
	}

	log.Printf("scheduler: backup finished in %v", time.Since(start).Round(time.Millisecond))
}
