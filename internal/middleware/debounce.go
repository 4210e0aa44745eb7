package middleware

import (
	"fmt"
	"sync"
	"time"

	"lpbot/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Команды с особыми таймаутами дебаунса
var commandDebounceTimeouts = map[string]time.Duration{
	"lpstart": 5 * time.Second,
}

// DebouncerInterface определяет интерфейс для debouncer
type DebouncerInterface interface {
	// CanProcessRequest проверяет, можно ли обработать запрос
	CanProcessRequest(key string) bool
	// CanProcessRequestWithTimeout проверяет, можно ли обработать запрос с кастомным таймаутом
	CanProcessRequestWithTimeout(key string, timeout time.Duration) bool
	// Cleanup очищает устаревшие записи
	Cleanup()
}

// Debouncer отбрасывает повтор команды в чате в пределах таймаута
type Debouncer struct {
	requests map[string]time.Time
	mu       sync.Mutex
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

var _ DebouncerInterface = (*Debouncer)(nil)

// NewDebouncer создает новый debouncer
func NewDebouncer(timeout time.Duration, logger *zap.Logger) *Debouncer {
	return &Debouncer{
		requests: make(map[string]time.Time),
		timeout:  timeout,
		now:      time.Now,
		logger:   logger,
	}
}

// CanProcessRequest проверяет, можно ли обработать запрос
func (d *Debouncer) CanProcessRequest(key string) bool {
	return d.CanProcessRequestWithTimeout(key, d.timeout)
}

// CanProcessRequestWithTimeout проверяет, можно ли обработать запрос с кастомным таймаутом
func (d *Debouncer) CanProcessRequestWithTimeout(key string, timeout time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	lastRequest, exists := d.requests[key]

	if !exists || now.Sub(lastRequest) > timeout {
		d.requests[key] = now
		return true
	}

	return false
}

// Cleanup очищает записи старше наибольшего таймаута
func (d *Debouncer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	maxTimeout := d.timeout
	for _, timeout := range commandDebounceTimeouts {
		if timeout > maxTimeout {
			maxTimeout = timeout
		}
	}

	now := d.now()
	for key, lastRequest := range d.requests {
		if now.Sub(lastRequest) > maxTimeout {
			delete(d.requests, key)
		}
	}
}

// DebounceMiddleware дебаунсит только команды, объявления проходят без задержки
func DebounceMiddleware(debouncer DebouncerInterface, logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next func(tgbotapi.Update)) {
		message := telegram.MessageOf(update)
		if message == nil || !message.IsCommand() {
			next(update)
			return
		}

		command := message.Command()
		key := fmt.Sprintf("%d:%s", message.Chat.ID, command)

		var canProcess bool
		timeout, hasCustomTimeout := commandDebounceTimeouts[command]
		if hasCustomTimeout {
			canProcess = debouncer.CanProcessRequestWithTimeout(key, timeout)
		} else {
			canProcess = debouncer.CanProcessRequest(key)
		}

		if !canProcess {
			logger.Info("Command debounced",
				zap.String("command", command),
				zap.Int64("chat_id", message.Chat.ID),
				zap.String("user", telegram.SenderIdentifier(message)),
				zap.Int("update_id", update.UpdateID))
			return
		}

		next(update)
	}
}
