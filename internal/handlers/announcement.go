package handlers

import (
	"context"
	"errors"

	"lpbot/internal/external/telegram"
	"lpbot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// JobKindAnnouncement - тип задачи загрузки объявленного альбома
const JobKindAnnouncement = "announcement"

// Announcement передает подходящее объявление в пул воркеров.
// Загрузка альбома выполняется асинхронно и не блокирует цикл обновлений.
func (h *Handlers) Announcement(updateID int, message *tgbotapi.Message) {
	inbound := telegram.ToInbound(message)
	if !h.services.Matches(inbound) {
		return
	}

	err := h.pool.Submit(worker.Job{
		UpdateID: updateID,
		ChatID:   message.Chat.ID,
		Kind:     JobKindAnnouncement,
		Handler: func(ctx context.Context) error {
			if h.services.Announce(ctx, inbound) {
				h.logger.Info("Found announced listening party", zap.Int64("chat_id", message.Chat.ID))
			}
			return nil
		},
	})

	switch {
	case err == nil:
		h.logger.Debug("Announcement queued", zap.Int64("chat_id", message.Chat.ID), zap.Int("update_id", updateID))
	case errors.Is(err, worker.ErrQueueFull):
		h.logger.Warn("Announcement dropped, worker queue is full",
			zap.Int64("chat_id", message.Chat.ID),
			zap.Int("update_id", updateID))
	default:
		h.logger.Warn("Announcement dropped",
			zap.Int64("chat_id", message.Chat.ID),
			zap.Int("update_id", updateID),
			zap.Error(err))
	}
}
