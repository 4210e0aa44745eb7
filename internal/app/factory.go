// Package app содержит фабрику компонентов приложения.
package app

import (
	"fmt"

	"lpbot/internal/config"
	"lpbot/internal/external/spotify"
	"lpbot/internal/external/telegram"
	"lpbot/internal/handlers"
	"lpbot/internal/health"
	"lpbot/internal/middleware"
	"lpbot/internal/service"
	"lpbot/internal/worker"

	"go.uber.org/zap"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) (*ComponentFactory, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}, nil
}

// CreateTelegramClient создает клиент Telegram
func (f *ComponentFactory) CreateTelegramClient() (*telegram.Client, error) {
	if f.config.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	client, err := telegram.NewClient(f.config.BotToken, f.logger.Named("telegram"))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %w", err)
	}

	f.logger.Info("Telegram client created successfully")
	return client, nil
}

// SpotifyConfig переводит конфигурацию приложения в конфигурацию клиента каталога
func (f *ComponentFactory) SpotifyConfig() spotify.Config {
	return spotify.Config{
		ClientID:     f.config.SpotifyClientID,
		ClientSecret: f.config.SpotifyClientSecret,
		HTTPClient: spotify.HTTPClientConfig{
			MaxIdleConns:          f.config.HTTPClientConfig.MaxIdleConns,
			MaxIdleConnsPerHost:   f.config.HTTPClientConfig.MaxIdleConnsPerHost,
			IdleConnTimeout:       f.config.HTTPClientConfig.IdleConnTimeout,
			TLSHandshakeTimeout:   f.config.HTTPClientConfig.TLSHandshakeTimeout,
			ResponseHeaderTimeout: f.config.HTTPClientConfig.ResponseHeaderTimeout,
			DisableKeepAlives:     f.config.HTTPClientConfig.DisableKeepAlives,
			Timeout:               f.config.HTTPClientConfig.Timeout,
		},
		Retry: spotify.RetryConfig{
			MaxRetries:        f.config.RetryConfig.MaxRetries,
			InitialDelay:      f.config.RetryConfig.InitialDelay,
			MaxDelay:          f.config.RetryConfig.MaxDelay,
			BackoffMultiplier: f.config.RetryConfig.BackoffMultiplier,
		},
	}
}

// CreateSpotifyClient создает клиент каталога
func (f *ComponentFactory) CreateSpotifyClient() (*spotify.Client, error) {
	client, err := spotify.NewClient(f.SpotifyConfig(), f.logger.Named("spotify"))
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	f.logger.Info("Spotify client created successfully")
	return client, nil
}

// ServicesConfig переводит конфигурацию приложения в конфигурацию сервисов
func (f *ComponentFactory) ServicesConfig() service.Config {
	return service.Config{
		Detector: service.DetectorConfig{
			Roles:        f.config.PartyRoles,
			CatalogHost:  f.config.CatalogHost,
			FetchTimeout: f.config.FetchTimeout,
		},
		RegistryCapacity: f.config.RegistryCapacity,
		Retention:        f.config.PartyRetention,
		SweepSchedule:    f.config.SweepSchedule,
	}
}

// CreateServices создает все сервисы
func (f *ComponentFactory) CreateServices(catalog service.Catalog) (*service.Services, error) {
	services, err := service.NewServices(f.ServicesConfig(), catalog, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create services: %w", err)
	}

	f.logger.Info("Services created successfully",
		zap.Strings("party_roles", f.config.PartyRoles),
		zap.String("catalog_host", f.config.CatalogHost))
	return services, nil
}

// CreateWorkerPool создает пул воркеров для объявлений
func (f *ComponentFactory) CreateWorkerPool() *worker.Pool {
	return worker.NewPool(f.config.WorkerCount, f.config.WorkerQueueSize, f.logger.Named("worker"))
}

// CreateMiddleware создает middleware
func (f *ComponentFactory) CreateMiddleware() *middleware.Middleware {
	middlewareManager := middleware.New(f.config, f.logger.Named("middleware"))
	f.logger.Info("Middleware created successfully")
	return middlewareManager
}

// CreateHealthServer создает сервер health check, nil если он отключен
func (f *ComponentFactory) CreateHealthServer(parties health.PartyCounter, workers health.WorkerStats) *health.Server {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil
	}

	server := health.NewServer(f.config.HealthPort, parties, workers, f.logger.Named("health"))
	f.logger.Info("Health check server created", zap.String("port", f.config.HealthPort))
	return server
}

// CreateBot создает полный экземпляр бота со всеми зависимостями
func (f *ComponentFactory) CreateBot() (*Bot, error) {
	catalog, err := f.CreateSpotifyClient()
	if err != nil {
		return nil, err
	}

	services, err := f.CreateServices(catalog)
	if err != nil {
		return nil, err
	}

	tgClient, err := f.CreateTelegramClient()
	if err != nil {
		return nil, err
	}

	return f.assemble(services, tgClient, tgClient, tgClient.Username()), nil
}

// assemble связывает компоненты бота вокруг источника обновлений и отправителя
func (f *ComponentFactory) assemble(services *service.Services, source UpdateSource, sender telegram.Sender, botUsername string) *Bot {
	pool := f.CreateWorkerPool()
	middlewareManager := f.CreateMiddleware()
	h := handlers.New(services, sender, pool, f.logger.Named("handlers"))

	bot := NewBot(f.config, f.logger)
	bot.source = source
	bot.services = services
	bot.pool = pool
	bot.middleware = middlewareManager
	bot.router = NewRouter(h, middlewareManager, botUsername, f.logger.Named("router"))
	bot.health = f.CreateHealthServer(services.Registry, pool)

	f.logger.Info("Bot created successfully with all dependencies")
	return bot
}
