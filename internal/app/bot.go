// Package app содержит основную логику приложения.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lpbot/internal/config"
	"lpbot/internal/external/telegram"
	"lpbot/internal/health"
	"lpbot/internal/middleware"
	"lpbot/internal/service"
	"lpbot/internal/worker"

	"go.uber.org/zap"
)

// UpdateSource доставляет обновления обработчику до отмены контекста
type UpdateSource interface {
	Start(ctx context.Context, handler telegram.UpdateHandler) error
}

// Bot представляет основную логику бота
type Bot struct {
	config     *config.Config
	logger     *zap.Logger
	source     UpdateSource
	health     *health.Server
	services   *service.Services
	middleware *middleware.Middleware
	pool       *worker.Pool
	router     *Router
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	cleanupInterval    time.Duration
	restartDelay       time.Duration
	maxRestartAttempts int
	shutdownTimeout    time.Duration
}

// NewBot создает новый экземпляр бота без компонентов
func NewBot(cfg *config.Config, logger *zap.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		config:             cfg,
		logger:             logger,
		stopChan:           make(chan struct{}),
		ctx:                ctx,
		cancel:             cancel,
		cleanupInterval:    5 * time.Minute,
		restartDelay:       10 * time.Second,
		maxRestartAttempts: 10,
		shutdownTimeout:    30 * time.Second,
	}
}

// NewBotWithFactory создает новый экземпляр бота
func NewBotWithFactory(cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	factory, err := NewComponentFactory(cfg, logger)
	if err != nil {
		return nil, err
	}
	return factory.CreateBot()
}

// Start запускает фоновые компоненты и цикл обновлений.
// Блокирует до отмены контекста, вызова Stop или исчерпания попыток перезапуска.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	if err := b.services.Sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start party sweeper: %w", err)
	}

	b.pool.Start()

	if b.health != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := b.health.Start(); err != nil {
				b.logger.Error("Health check server failed", zap.Error(err))
			}
		}()
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				b.middleware.Cleanup()
			case <-b.ctx.Done():
				b.logger.Info("Middleware cleanup stopped by context")
				return
			}
		}
	}()

	if b.health != nil {
		b.health.SetReady(true)
	}
	b.logger.Info("Bot started successfully")

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-b.ctx.Done():
			cancel()
		case <-loopCtx.Done():
		}
	}()

	return b.runWithRestarts(loopCtx)
}

// runWithRestarts перезапускает цикл обновлений с нарастающей задержкой
func (b *Bot) runWithRestarts(ctx context.Context) error {
	restartAttempts := 0

	for {
		err := b.source.Start(ctx, b.router)
		if ctx.Err() != nil {
			b.logger.Info("Update loop stopped due to context cancellation")
			return nil
		}
		if err == nil || errors.Is(err, context.Canceled) {
			restartAttempts = 0
			continue
		}

		restartAttempts++
		b.logger.Error("Update loop error",
			zap.Error(err),
			zap.Int("restart_attempt", restartAttempts),
			zap.Int("max_attempts", b.maxRestartAttempts))

		if restartAttempts > b.maxRestartAttempts {
			return fmt.Errorf("max restart attempts reached: %w", err)
		}

		delay := time.Duration(restartAttempts) * b.restartDelay
		if delay > 5*time.Minute {
			delay = 5 * time.Minute
		}

		b.logger.Info("Waiting before restart", zap.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

// Stop gracefully останавливает бота, повторный вызов ничего не делает
func (b *Bot) Stop() error {
	var stopErr error
	b.stopOnce.Do(func() {
		stopErr = b.stop()
	})
	return stopErr
}

func (b *Bot) stop() error {
	b.logger.Info("Stopping bot gracefully")

	if b.health != nil {
		b.health.SetReady(false)
	}

	b.services.Sweeper.Stop()
	b.cancel()
	close(b.stopChan)

	if b.health != nil {
		if err := b.health.Stop(); err != nil {
			b.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.pool.Stop()
		b.wg.Wait()
	}()

	select {
	case <-done:
		b.logger.Info("All goroutines stopped successfully")
	case <-time.After(b.shutdownTimeout):
		b.logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
		return fmt.Errorf("graceful shutdown timed out after %s", b.shutdownTimeout)
	}

	b.logger.Info("Bot stopped successfully",
		zap.Int("parties", b.services.Registry.Len()))
	return nil
}

// Done закрывается после вызова Stop
func (b *Bot) Done() <-chan struct{} {
	return b.stopChan
}
