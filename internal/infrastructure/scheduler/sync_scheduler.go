package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	appsync "github.com/nicksmagento/syncbridge/internal/application/sync"
	"github.com/nicksmagento/syncbridge/internal/domain/connector"
)

var (
	// ErrSchedulerNotRunning is returned when triggering a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)

// SyncSchedulerConfig holds configuration for the periodic sync scheduler
type SyncSchedulerConfig struct {
	// Interval is how often a sync cycle runs
	Interval time.Duration
	// JobTimeout is the maximum time one sync cycle can run
	JobTimeout time.Duration
	// RunOnStart triggers a sync cycle immediately when the scheduler starts
	RunOnStart bool
}

// DefaultSyncSchedulerConfig returns default scheduler configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Interval:   time.Hour,
		JobTimeout: 10 * time.Minute,
		RunOnStart: false,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 || c.JobTimeout > c.Interval {
		return ErrInvalidConfig
	}
	return nil
}

// SyncScheduler runs inventory and order imports on a fixed interval.
// A cycle that overruns its timeout is cancelled; the next tick starts
// a fresh one.
type SyncScheduler struct {
	config SyncSchedulerConfig
	runner *appsync.Runner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncScheduler creates a new periodic sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, runner *appsync.Runner, logger *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncScheduler{
		config: config,
		runner: runner,
		logger: logger.Named("scheduler"),
	}, nil
}

// Start starts the scheduler
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerNow runs one sync cycle outside the regular schedule
func (s *SyncScheduler) TriggerNow(ctx context.Context) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()

	if !running {
		return ErrSchedulerNotRunning
	}

	s.runCycle(ctx)
	return nil
}

func (s *SyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	if s.config.RunOnStart {
		s.runCycle(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle imports inventory first so orders observe the fresher stock
func (s *SyncScheduler) runCycle(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	inventory := s.runner.RunInventory(ctx, connector.InventoryFilter{})
	s.logCycleResult("inventory", inventory)

	if ctx.Err() != nil {
		s.logger.Warn("Sync cycle cancelled before order import")
		return
	}

	orders := s.runner.RunOrders(ctx, connector.OrderFilter{})
	s.logCycleResult("orders", orders)
}

func (s *SyncScheduler) logCycleResult(stage string, run *appsync.Run) {
	if run.Failed() > 0 {
		s.logger.Warn("Scheduled sync completed with failures",
			zap.String("stage", stage),
			zap.Int("succeeded", run.Succeeded()),
			zap.Int("failed", run.Failed()),
		)
		return
	}
	s.logger.Info("Scheduled sync completed",
		zap.String("stage", stage),
		zap.Int("succeeded", run.Succeeded()),
	)
}
