package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a standard five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// MaintenanceEnqueuer hands cleanup work to the task queue.
type MaintenanceEnqueuer interface {
	EnqueueMaintenance(ctx context.Context, auditRetentionDays, jobRetentionDays int) error
}

type MaintenanceConfig struct {
	Enabled            bool
	Schedule           string
	AuditRetentionDays int
	JobRetentionDays   int
}

// MaintenanceScheduler periodically enqueues audit and import job cleanup.
type MaintenanceScheduler struct {
	cfg      MaintenanceConfig
	enqueuer MaintenanceEnqueuer
	logger   *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewMaintenanceScheduler(cfg MaintenanceConfig, enqueuer MaintenanceEnqueuer, logger *zap.Logger) *MaintenanceScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceScheduler{
		cfg:      cfg,
		enqueuer: enqueuer,
		logger:   logger.Named("maintenance"),
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the cleanup job. It is a no-op when maintenance is
// disabled or there is no queue to hand work to.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled || s.enqueuer == nil {
		s.logger.Info("maintenance scheduler disabled")
		return nil
	}

	if err := ValidateSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("maintenance scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.Time("next_run", s.cron.Entry(entryID).Next),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	s.logger.Info("maintenance scheduler stopped")
}

// RunNow enqueues the cleanup tasks immediately.
func (s *MaintenanceScheduler) RunNow(ctx context.Context) error {
	if s.enqueuer == nil {
		return fmt.Errorf("maintenance queue not configured")
	}
	return s.enqueuer.EnqueueMaintenance(ctx, s.cfg.AuditRetentionDays, s.cfg.JobRetentionDays)
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will be enqueued.
func (s *MaintenanceScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *MaintenanceScheduler) run(ctx context.Context) {
	if err := s.RunNow(ctx); err != nil {
		s.logger.Error("failed to enqueue maintenance", zap.Error(err))
		return
	}
	s.logger.Info("maintenance enqueued",
		zap.Int("audit_retention_days", s.cfg.AuditRetentionDays),
		zap.Int("job_retention_days", s.cfg.JobRetentionDays),
	)
}
