package middleware

import (
	"runtime/debug"

	"lpbot/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// RecoveryMiddleware перехватывает панику обработчика, обновление отбрасывается
func RecoveryMiddleware(logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next func(tgbotapi.Update)) {
		defer func() {
			if panicErr := recover(); panicErr != nil {
				fields := []zap.Field{
					zap.Int("update_id", update.UpdateID),
					zap.Any("panic", panicErr),
					zap.String("stack", string(debug.Stack())),
				}
				if message := telegram.MessageOf(update); message != nil {
					fields = append(fields,
						zap.String("command", message.Command()),
						zap.Int64("chat_id", message.Chat.ID),
						zap.String("user", telegram.SenderIdentifier(message)))
				}
				logger.Error("Panic recovered in recovery middleware", fields...)
			}
		}()
		next(update)
	}
}
