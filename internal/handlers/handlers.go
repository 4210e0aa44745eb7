// Package handlers содержит обработчики команд и объявлений.
package handlers

import (
	"context"

	"lpbot/internal/external/telegram"
	"lpbot/internal/model"
	"lpbot/internal/service"
	"lpbot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// PartyService определяет операции над вечеринками, нужные обработчикам
type PartyService interface {
	Matches(msg service.InboundMessage) bool
	Announce(ctx context.Context, msg service.InboundMessage) bool
	Start(channel model.ChannelID) bool
	Status(channel model.ChannelID) string
}

// JobSubmitter ставит задачу в очередь пула воркеров
type JobSubmitter interface {
	Submit(job worker.Job) error
}

// Handlers содержит все обработчики команд
type Handlers struct {
	services PartyService
	sender   telegram.Sender
	pool     JobSubmitter
	logger   *zap.Logger
}

// New создает новый экземпляр обработчиков
func New(services PartyService, sender telegram.Sender, pool JobSubmitter, logger *zap.Logger) *Handlers {
	return &Handlers{
		services: services,
		sender:   sender,
		pool:     pool,
		logger:   logger,
	}
}

// RegisterBotCommands возвращает меню команд бота
func (h *Handlers) RegisterBotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "lp", Description: "Show the ongoing listening party"},
		{Command: "lpstart", Description: "Start the announced listening party"},
		{Command: "help", Description: "Show help"},
	}
}

// reply отправляет ответ на сообщение, ошибка отправки только логируется
func (h *Handlers) reply(message *tgbotapi.Message, text string) {
	if err := h.sender.SendText(message.Chat.ID, text, message.MessageID); err != nil {
		h.logger.Error("Failed to send reply",
			zap.Int64("chat_id", message.Chat.ID),
			zap.Error(err))
	}
}
