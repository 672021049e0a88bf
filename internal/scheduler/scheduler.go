// Package scheduler runs periodic maintenance jobs in the server process.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// auditTimeout bounds one scheduled audit run.
const auditTimeout = 5 * time.Minute

// Auditor is implemented by service.MaintenanceService.
type Auditor interface {
	Audit(ctx context.Context) (model.AuditReport, error)
}

// Scheduler wraps a cron runner. Overlapping runs of the same job are skipped.
type Scheduler struct {
	cron    *cron.Cron
	auditor Auditor
	log     zerolog.Logger
}

// New registers the audit job on a standard five-field cron schedule.
func New(schedule string, auditor Auditor, log zerolog.Logger) (*Scheduler, error) {
	log = log.With().Str("component", "scheduler").Logger()
	cronLog := cron.PrintfLogger(logging.Printf{Logger: log})

	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		auditor: auditor,
		log:     log,
	}

	if _, err := s.cron.AddFunc(schedule, s.runAudit); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Info().Time("next_run", e.Next).Msg("maintenance audit scheduled")
	}
}

// Stop prevents new runs and waits for a running job or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stopped before running job finished")
	}
}

func (s *Scheduler) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	if _, err := s.auditor.Audit(ctx); err != nil {
		s.log.Error().Err(err).Msg("scheduled audit failed")
	}
}
