package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Freeeeeet/roomstatus_bot/internal/model"
)

// Refresher пересчитывает статусы аудиторий по расписанию
type Refresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// Scheduler управляет фоновыми задачами: обновлением статусов
// на каждой границе пар и с запасным интервалом
type Scheduler struct {
	refresher Refresher
	cron      *cron.Cron
	logger    *zap.Logger
	timeout   time.Duration
}

// NewScheduler создаёт планировщик. every - запасное расписание в формате cron ("@every 5m").
func NewScheduler(
	ctx context.Context,
	refresher Refresher,
	boundaries []model.ClockTime,
	every string,
	loc *time.Location,
	logger *zap.Logger,
) (*Scheduler, error) {
	cronLogger := cronZapLogger{logger: logger.Sugar()}
	s := &Scheduler{
		refresher: refresher,
		logger:    logger,
		timeout:   time.Minute,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}

	job := func() { s.refresh(ctx) }

	for _, spec := range BoundarySpecs(boundaries) {
		if _, err := s.cron.AddFunc(spec, job); err != nil {
			return nil, fmt.Errorf("schedule refresh %q: %w", spec, err)
		}
	}
	if every != "" {
		if _, err := s.cron.AddFunc(every, job); err != nil {
			return nil, fmt.Errorf("schedule refresh %q: %w", every, err)
		}
	}

	return s, nil
}

// Start запускает фоновые задачи; первое обновление выполняется сразу
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Int("jobs", len(s.cron.Entries())))

	go s.refresh(ctx)
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущего обновления
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	changed, err := s.refresher.RefreshAll(ctx)
	if err != nil {
		s.logger.Error("Failed to refresh room statuses", zap.Int("changed", changed), zap.Error(err))
		return
	}
	s.logger.Debug("Room statuses refreshed", zap.Int("changed", changed))
}

// BoundarySpecs переводит границы пар в cron-выражения "M H * * *" без повторов
func BoundarySpecs(boundaries []model.ClockTime) []string {
	seen := make(map[model.ClockTime]bool, len(boundaries))
	specs := make([]string, 0, len(boundaries))
	for _, b := range boundaries {
		if seen[b] || !b.Valid() {
			continue
		}
		seen[b] = true
		specs = append(specs, fmt.Sprintf("%d %d * * *", b.Minute(), b.Hour()))
	}
	return specs
}

// cronZapLogger пишет события cron в zap
type cronZapLogger struct {
	logger *zap.SugaredLogger
}

func (l cronZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronZapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
