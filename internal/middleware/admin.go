package middleware

import (
	"lpbot/internal/external/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// AdminOnlyMiddleware пропускает команду только от администраторов.
// Посты канала пропускаются: публиковать в канале могут только его администраторы.
func AdminOnlyMiddleware(isAdmin func(username string) bool, onDenied func(message *tgbotapi.Message), logger *zap.Logger) Func {
	return func(update tgbotapi.Update, next func(tgbotapi.Update)) {
		message := telegram.MessageOf(update)
		if message == nil || update.ChannelPost != nil {
			next(update)
			return
		}

		username := ""
		if message.From != nil {
			username = message.From.UserName
		}

		if !isAdmin(username) {
			logger.Warn("Unauthorized access attempt",
				zap.String("command", message.Command()),
				zap.String("user", telegram.SenderIdentifier(message)),
				zap.Int64("chat_id", message.Chat.ID))
			if onDenied != nil {
				onDenied(message)
			}
			return
		}

		next(update)
	}
}
