package handlers

import (
	"lpbot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Ответы команд
const (
	StartedMessage = "Listening party started!"
	DeniedMessage  = "Only bot admins can start a listening party."
	UnknownMessage = "Unknown command. Use /help to see available commands."
	HelpMessage    = "Listening party tracker\n" +
		"\n/lp - Show the album and the track playing right now\n" +
		"/lpstart - Mark the announced listening party as started\n" +
		"/help - Show this message\n" +
		"\nAnnounce a party by mentioning the party role together with an album link."
)

// Status обрабатывает команду /lp
func (h *Handlers) Status(message *tgbotapi.Message) {
	h.reply(message, h.services.Status(model.ChannelID(message.Chat.ID)))
}

// StartParty обрабатывает команду /lpstart
func (h *Handlers) StartParty(message *tgbotapi.Message) {
	channel := model.ChannelID(message.Chat.ID)
	if !h.services.Start(channel) {
		h.reply(message, h.services.Status(channel))
		return
	}

	h.logger.Info("Listening party started", zap.Int64("chat_id", message.Chat.ID))
	h.reply(message, StartedMessage)
}

// Denied сообщает об отказе в доступе к /lpstart
func (h *Handlers) Denied(message *tgbotapi.Message) {
	h.reply(message, DeniedMessage)
}

// Help обрабатывает команду /help
func (h *Handlers) Help(message *tgbotapi.Message) {
	h.reply(message, HelpMessage)
}

// Unknown обрабатывает неизвестные команды
func (h *Handlers) Unknown(message *tgbotapi.Message) {
	h.reply(message, UnknownMessage)
}
