// Package jobs runs the background maintenance schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dineops/dineops/internal/services"
)

// Scheduler owns the cron runner. Currently it carries one job: the
// periodic stock status sweep that catches expiry passing without a stock
// write.
type Scheduler struct {
	cron      *cron.Cron
	inventory *services.InventoryService
	log       *zap.SugaredLogger
}

func NewScheduler(inventory *services.InventoryService, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		inventory: inventory,
		log:       log.Named("jobs"),
	}
}

// Start registers the sweep on the given cron spec and launches the runner.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("scheduler started", "sweep_spec", spec)
	return nil
}

// Stop halts the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	changed, err := s.inventory.SweepStatuses(ctx, time.Now())
	if err != nil {
		s.log.Errorw("stock status sweep failed", "err", err)
		return
	}
	if changed > 0 {
		s.log.Infow("stock status sweep done", "changed", changed)
	}
}
