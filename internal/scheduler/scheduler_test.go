package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

type countingAuditor struct {
	calls atomic.Int32
	err   error
}

func (a *countingAuditor) Audit(context.Context) (model.AuditReport, error) {
	a.calls.Add(1)
	return model.AuditReport{}, a.err
}

func TestNew(t *testing.T) {
	t.Run("accepts a standard schedule", func(t *testing.T) {
		s, err := New("0 3 * * *", &countingAuditor{}, logging.Nop())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(s.cron.Entries()) != 1 {
			t.Errorf("Expected 1 entry, got %d", len(s.cron.Entries()))
		}
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		if _, err := New("every night", &countingAuditor{}, logging.Nop()); err == nil {
			t.Error("Expected error for invalid schedule")
		}
	})
}

func TestRunAudit(t *testing.T) {
	t.Run("calls the auditor", func(t *testing.T) {
		a := &countingAuditor{}
		s, err := New("@every 1h", a, logging.Nop())
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}

		s.runAudit()

		if got := a.calls.Load(); got != 1 {
			t.Errorf("Expected 1 audit, got %d", got)
		}
	})

	t.Run("survives auditor errors", func(t *testing.T) {
		a := &countingAuditor{err: errors.New("db down")}
		s, err := New("@every 1h", a, logging.Nop())
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}

		s.runAudit()
		s.runAudit()

		if got := a.calls.Load(); got != 2 {
			t.Errorf("Expected 2 audits, got %d", got)
		}
	})
}

func TestStartStop(t *testing.T) {
	s, err := New("@every 1h", &countingAuditor{}, logging.Nop())
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}

	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if ctx.Err() != nil {
		t.Error("Expected Stop to return before the deadline")
	}
}
