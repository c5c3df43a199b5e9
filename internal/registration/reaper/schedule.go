package reaper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the reaper once after an initial delay and then on a fixed
// period. A cycle that is still running when the next one is due is skipped.
type Scheduler struct {
	reaper       *Reaper
	initialDelay time.Duration
	period       time.Duration
	logger       *slog.Logger
	cron         *cron.Cron

	mu      sync.Mutex
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

func NewScheduler(r *Reaper, initialDelay, period time.Duration, logger *slog.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		reaper:       r,
		initialDelay: initialDelay,
		period:       period,
		logger:       logger,
		cron:         cron.New(cron.WithLogger(cl)),
	}
}

// Start arms the schedule. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, s.cancel = context.WithCancel(ctx)

	cl := cronLogger{logger: s.logger}
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
		if _, err := s.reaper.RunCycle(ctx); err != nil {
			s.logger.ErrorContext(ctx, "reaper cycle failed", "error", err)
		}
	}))

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		timer := time.NewTimer(s.initialDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		job.Run()

		s.mu.Lock()
		defer s.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		s.cron.Schedule(cron.Every(s.period), job)
		s.cron.Start()
	}()
	s.logger.Info("reaper scheduled", "initial_delay", s.initialDelay, "period", s.period)
}

// Stop cancels pending runs and waits for a running cycle to finish or for
// ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		<-s.cron.Stop().Done()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
