package party

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSweepSchedule - расписание очистки по умолчанию
const DefaultSweepSchedule = "@every 15m"

// Sweeper периодически удаляет устаревшие записи из реестра
type Sweeper struct {
	registry  *Registry
	cron      *cron.Cron
	schedule  string
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
	mu        sync.Mutex
	running   bool
}

// NewSweeper создает новый планировщик очистки
func NewSweeper(registry *Registry, schedule string, retention time.Duration, logger *zap.Logger) *Sweeper {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	return &Sweeper{
		registry:  registry,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		schedule:  schedule,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

// Start запускает периодическую очистку
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper is already running")
	}

	if s.retention <= 0 {
		s.logger.Info("Party retention disabled, sweeper not started")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.Run() }); err != nil {
		return fmt.Errorf("failed to schedule sweeper %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("Sweeper started",
		zap.String("schedule", s.schedule),
		zap.Duration("retention", s.retention))
	return nil
}

// Stop останавливает очистку и ждет завершения текущего прохода
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("Sweeper stopped")
}

// Run выполняет один проход очистки и возвращает число удаленных записей
func (s *Sweeper) Run() int {
	removed := s.registry.Sweep(s.now(), s.retention)
	if removed > 0 {
		s.logger.Info("Stale parties removed",
			zap.Int("removed", removed),
			zap.Int("remaining", s.registry.Len()))
	}
	return removed
}
