// Package service содержит бизнес-логику listening party.
package service

import (
	"context"
	"fmt"
	"time"

	"lpbot/internal/model"
	"lpbot/internal/party"

	"go.uber.org/zap"
)

// Config содержит настройки сервисов
type Config struct {
	Detector         DetectorConfig
	RegistryCapacity int
	Retention        time.Duration
	SweepSchedule    string
}

// Services содержит все сервисы приложения.
// Реестр создается здесь и передается остальным компонентам явно.
type Services struct {
	Registry *party.Registry
	Fetcher  *AlbumFetcher
	Detector *Detector
	Reporter *Reporter
	Sweeper  *party.Sweeper
	now      func() time.Time
	logger   *zap.Logger
}

// NewServices создает все сервисы
func NewServices(cfg Config, catalog Catalog, logger *zap.Logger) (*Services, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	registry, err := party.NewRegistry(cfg.RegistryCapacity, logger.Named("registry"))
	if err != nil {
		return nil, err
	}

	fetcher := NewAlbumFetcher(catalog, logger.Named("fetcher"))

	detector, err := NewDetector(cfg.Detector, fetcher, registry, logger.Named("detector"))
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement detector: %w", err)
	}

	return &Services{
		Registry: registry,
		Fetcher:  fetcher,
		Detector: detector,
		Reporter: NewReporter(registry, time.Now, logger.Named("reporter")),
		Sweeper:  party.NewSweeper(registry, cfg.SweepSchedule, cfg.Retention, logger.Named("sweeper")),
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Matches проверяет, похоже ли сообщение на объявление, без обращения к каталогу
func (s *Services) Matches(msg InboundMessage) bool {
	_, ok := s.Detector.Match(msg)
	return ok
}

// Announce обрабатывает входящее сообщение как возможное объявление
func (s *Services) Announce(ctx context.Context, msg InboundMessage) bool {
	return s.Detector.Handle(ctx, msg)
}

// Start отмечает старт вечеринки в канале текущим моментом
func (s *Services) Start(channel model.ChannelID) bool {
	return s.Registry.SignalStart(channel, s.now())
}

// Status возвращает текст статуса вечеринки в канале
func (s *Services) Status(channel model.ChannelID) string {
	return s.Reporter.Status(channel)
}
