package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UpdateHandler определяет интерфейс обработчика обновлений
type UpdateHandler interface {
	HandleUpdate(update tgbotapi.Update)
	RegisterBotCommands() []tgbotapi.BotCommand
}

// Sender отправляет текстовые ответы в чат
type Sender interface {
	SendText(chatID int64, text string, replyTo int) error
}
