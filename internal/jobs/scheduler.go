package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Completer is satisfied by the auto-completion use case.
type Completer interface {
	Execute(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	log     *slog.Logger
	timeout time.Duration
}

// NewScheduler bounds each run with timeout. Overlapping runs of one job are
// skipped and panics are recovered.
func NewScheduler(log *slog.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		log:     log,
		timeout: timeout,
	}
}

// AutoComplete registers the completion job. An empty spec disables it and
// returns false.
func (s *Scheduler) AutoComplete(spec string, uc Completer) (bool, error) {
	if spec == "" {
		s.log.Info("auto-complete job disabled")
		return false, nil
	}

	if _, err := s.cron.AddFunc(spec, func() { s.runAutoComplete(uc) }); err != nil {
		return false, err
	}
	s.log.Info("auto-complete job scheduled", slog.String("spec", spec))
	return true, nil
}

func (s *Scheduler) runAutoComplete(uc Completer) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	n, err := uc.Execute(ctx)
	if err != nil {
		s.log.Error("auto-complete job failed", slog.Any("error", err))
		return
	}
	s.log.Debug("auto-complete job finished", slog.Int("completed", n))
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to return.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
