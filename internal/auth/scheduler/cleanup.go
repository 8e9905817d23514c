package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"noshuff-backend/internal/auth/repository"

	"go.uber.org/zap"
)

// TokenCleanupScheduler purges expired refresh-token bookkeeping and OAuth states
type TokenCleanupScheduler struct {
	tokenRepo repository.TokenRepository
	stateRepo repository.StateRepository
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
	stopChan  chan struct{}
	stopOnce  sync.Once
	started   atomic.Bool
	done      chan struct{}
}

// NewTokenCleanupScheduler creates a new scheduler
func NewTokenCleanupScheduler(
	tokenRepo repository.TokenRepository,
	stateRepo repository.StateRepository,
	interval time.Duration,
	logger *zap.Logger,
) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{
		tokenRepo: tokenRepo,
		stateRepo: stateRepo,
		interval:  interval,
		logger:    logger.Named("cleanup"),
		now:       time.Now,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start begins the scheduler loop. A non-positive interval disables it.
func (s *TokenCleanupScheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("token cleanup disabled")
		return
	}
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	s.logger.Info("starting token cleanup scheduler", zap.Duration("interval", s.interval))

	go func() {
		defer close(s.done)

		// Run immediately on start
		s.RunOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-ctx.Done():
				s.logger.Info("scheduler stopped", zap.Error(ctx.Err()))
				return
			case <-s.stopChan:
				s.logger.Info("scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler and waits for the loop to exit
func (s *TokenCleanupScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	if s.started.Load() {
		<-s.done
	}
}

// RunOnce deletes everything that expired before now
func (s *TokenCleanupScheduler) RunOnce(ctx context.Context) {
	now := s.now()

	tokens, err := s.tokenRepo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("purging expired tokens", zap.Error(err))
	}

	states, err := s.stateRepo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("purging expired oauth states", zap.Error(err))
	}

	if tokens > 0 || states > 0 {
		s.logger.Info("purged expired rows", zap.Int64("tokens", tokens), zap.Int64("states", states))
	}
}
