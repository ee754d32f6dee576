// Package scheduler runs the periodic system-wide holding refresh.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nkoopman/dividend-tracker-backend/internal/service"
)

// refreshTimeout caps one scheduled refresh cycle. A hung upstream must not
// let cycles pile up behind each other.
const refreshTimeout = 5 * time.Minute

// Scheduler triggers the system-wide refresh on a cron schedule.
type Scheduler struct {
	cron           *cron.Cron
	holdingService *service.HoldingService
}

// New creates a Scheduler that runs the refresh on the given cron
// expression (standard five-field syntax).
func New(schedule string, holdingService *service.HoldingService) (*Scheduler, error) {
	s := &Scheduler{
		cron:           cron.New(),
		holdingService: holdingService,
	}

	if _, err := s.cron.AddFunc(schedule, s.runRefresh); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	refreshed, retained, err := s.holdingService.RefreshSystem(ctx)
	if err != nil {
		log.Printf("scheduled refresh failed: %v", err)
		return
	}

	log.Printf("scheduled refresh done in %s: %d refreshed, %d retained", time.Since(start), refreshed, retained)
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
