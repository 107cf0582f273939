// Package scheduler runs the scrape batch on a cron schedule while the API is
// serving.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/quentin418/clear-fashion/internal/config"
	"github.com/quentin418/clear-fashion/internal/usecase"
	"github.com/quentin418/clear-fashion/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

type Scheduler struct {
	spec   string
	scrape usecase.ScrapeUsecase
	log    *logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool

	// jobs run under jobCtx; Stop cancels it
	ctxMu     sync.RWMutex
	jobCtx    context.Context
	cancelJob context.CancelFunc
}

// New validates the cron spec. An empty spec yields a scheduler that never
// runs.
func New(conf *config.Config, scrape usecase.ScrapeUsecase) (*Scheduler, error) {
	spec := conf.Scrape.Schedule
	if spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("parse scrape schedule %q: %w", spec, err)
		}
	}
	s := &Scheduler{
		spec:   spec,
		scrape: scrape,
		log:    logger.MustNamed("scheduler"),
	}
	s.jobCtx, s.cancelJob = context.WithCancel(context.Background())
	return s, nil
}

func (s *Scheduler) Enabled() bool {
	return s.spec != ""
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || !s.Enabled() {
		return nil
	}

	s.ctxMu.Lock()
	if s.jobCtx.Err() != nil {
		s.jobCtx, s.cancelJob = context.WithCancel(context.Background())
	}
	s.ctxMu.Unlock()

	cronLog := cronLogger{s.log}
	s.cron = cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		),
	)
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("add scrape job: %w", err)
	}
	s.cron.Start()
	s.running = true

	s.log.Infow("scrape scheduler started", "schedule", s.spec)
	return nil
}

// Stop cancels a running scrape and waits for it to return or ctx to be
// done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	stopped := s.cron.Stop()
	s.ctxMu.RLock()
	s.cancelJob()
	s.ctxMu.RUnlock()
	s.running = false
	s.cron = nil

	select {
	case <-stopped.Done():
		s.log.Info("scrape scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	s.ctxMu.RLock()
	ctx := s.jobCtx
	s.ctxMu.RUnlock()

	report, err := s.scrape.Run(ctx)
	if err != nil {
		s.log.Errorw("scheduled scrape failed", "error", err)
		return
	}
	s.log.Infow("scheduled scrape done", "total", report.Total, "upserted", report.Upserted)
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Register hooks the scheduler into the fx lifecycle.
func Register(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return s.Start()
		},
		OnStop: s.Stop,
	})
}
