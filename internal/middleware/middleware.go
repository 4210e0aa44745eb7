// Package middleware содержит middleware компоненты.
package middleware

import (
	"lpbot/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Func описывает звено цепочки обработки обновления
type Func func(update tgbotapi.Update, next func(tgbotapi.Update))

// Middleware представляет middleware компонент
type Middleware struct {
	rateLimiter RateLimiterInterface
	debouncer   DebouncerInterface
	logger      *zap.Logger
	config      *config.Config
}

// New создает новый middleware
func New(config *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		rateLimiter: NewRateLimiter(config.RateLimitRequests, config.RateLimitWindow, logger),
		debouncer:   NewDebouncer(config.DebounceInterval, logger),
		logger:      logger,
		config:      config,
	}
}

// ProcessWithMiddleware применяет цепочку recovery -> logging -> debounce -> rate limit
func (m *Middleware) ProcessWithMiddleware(update tgbotapi.Update, handler func(tgbotapi.Update)) {
	Chain(handler,
		RecoveryMiddleware(m.logger),
		LoggingMiddleware(m.logger),
		DebounceMiddleware(m.debouncer, m.logger),
		RateLimitMiddleware(m.rateLimiter, m.logger),
	)(update)
}

// AdminOnly возвращает middleware проверки прав администратора
func (m *Middleware) AdminOnly(onDenied func(message *tgbotapi.Message)) Func {
	return AdminOnlyMiddleware(m.config.IsAdmin, onDenied, m.logger)
}

// Cleanup очищает устаревшие записи в middleware
func (m *Middleware) Cleanup() {
	m.rateLimiter.Cleanup()
	m.debouncer.Cleanup()
}

// Chain собирает цепочку: первое звено выполняется первым
func Chain(handler func(tgbotapi.Update), middlewares ...Func) func(tgbotapi.Update) {
	next := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		mw, inner := middlewares[i], next
		next = func(update tgbotapi.Update) {
			mw(update, inner)
		}
	}
	return next
}
