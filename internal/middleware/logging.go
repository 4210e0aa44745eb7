package middleware

import (
	"time"

	"lpbot/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestContext содержит контекст для обработки запроса
type RequestContext struct {
	StartTime time.Time
	RequestID string
	UserID    int64
	ChatID    int64
	Command   string
}

// LoggingMiddleware логирует команды на Info, остальные сообщения на Debug
func LoggingMiddleware(logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next func(tgbotapi.Update)) {
		message := telegram.MessageOf(update)
		if message == nil {
			next(update)
			return
		}

		requestCtx := &RequestContext{
			StartTime: time.Now(),
			RequestID: uuid.NewString(),
			UserID:    telegram.SenderID(message),
			ChatID:    message.Chat.ID,
			Command:   message.Command(),
		}

		log := logger.Debug
		if message.IsCommand() {
			log = logger.Info
		}

		log("Processing update",
			zap.String("request_id", requestCtx.RequestID),
			zap.String("command", requestCtx.Command),
			zap.Int64("user_id", requestCtx.UserID),
			zap.Int64("chat_id", requestCtx.ChatID),
			zap.String("user", telegram.SenderIdentifier(message)),
			zap.Int("update_id", update.UpdateID))

		next(update)

		log("Update processed",
			zap.String("request_id", requestCtx.RequestID),
			zap.String("command", requestCtx.Command),
			zap.Duration("duration", time.Since(requestCtx.StartTime)))
	}
}
