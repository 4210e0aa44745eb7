package middleware

import (
	"sync"
	"time"

	"lpbot/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RateLimiterInterface определяет интерфейс для ограничителя запросов
type RateLimiterInterface interface {
	// Allow проверяет, разрешен ли запрос
	Allow(userID int64) bool
	// Cleanup очищает устаревшие записи
	Cleanup()
}

// RateLimiter ограничивает количество запросов пользователя в скользящем окне
type RateLimiter struct {
	requests map[int64][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter создает новый rate limiter, limit <= 0 отключает ограничение
func NewRateLimiter(limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		logger:   logger,
	}
}

// Allow проверяет, разрешен ли запрос
func (rl *RateLimiter) Allow(userID int64) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	validRequests := rl.validSince(rl.requests[userID], now.Add(-rl.window))

	if len(validRequests) >= rl.limit {
		rl.requests[userID] = validRequests
		rl.logger.Warn("Rate limit exceeded",
			zap.Int64("user_id", userID),
			zap.Int("requests", len(validRequests)),
			zap.Int("limit", rl.limit))
		return false
	}

	rl.requests[userID] = append(validRequests, now)
	return true
}

// Cleanup очищает старые записи
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.window)
	for userID, requests := range rl.requests {
		if validRequests := rl.validSince(requests, windowStart); len(validRequests) == 0 {
			delete(rl.requests, userID)
		} else {
			rl.requests[userID] = validRequests
		}
	}
}

func (rl *RateLimiter) validSince(requests []time.Time, windowStart time.Time) []time.Time {
	var validRequests []time.Time
	for _, reqTime := range requests {
		if reqTime.After(windowStart) {
			validRequests = append(validRequests, reqTime)
		}
	}
	return validRequests
}

// RateLimitMiddleware ограничивает частоту команд отправителя
func RateLimitMiddleware(limiter RateLimiterInterface, logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next func(tgbotapi.Update)) {
		message := telegram.MessageOf(update)
		if message == nil || !message.IsCommand() {
			next(update)
			return
		}

		if !limiter.Allow(telegram.SenderID(message)) {
			logger.Debug("Command dropped by rate limiter",
				zap.String("command", message.Command()),
				zap.Int64("chat_id", message.Chat.ID),
				zap.Int("update_id", update.UpdateID))
			return
		}

		next(update)
	}
}
