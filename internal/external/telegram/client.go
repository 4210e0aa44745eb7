// Package telegram содержит интеграцию с Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Client представляет клиент Telegram Bot API
type Client struct {
	bot            *tgbotapi.BotAPI
	logger         *zap.Logger
	reconnectDelay time.Duration
}

var _ Sender = (*Client)(nil)

// NewClient создает новый клиент Telegram
func NewClient(botToken string, logger *zap.Logger) (*Client, error) {
	return NewClientWithEndpoint(botToken, tgbotapi.APIEndpoint, logger)
}

// NewClientWithEndpoint создает клиент для заданного адреса Bot API
func NewClientWithEndpoint(botToken, endpoint string, logger *zap.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(botToken, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false
	logger.Info("Telegram bot created", zap.String("username", bot.Self.UserName))

	return &Client{
		bot:            bot,
		logger:         logger,
		reconnectDelay: 10 * time.Second,
	}, nil
}

// Username возвращает имя бота
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Start запускает long polling и передает обновления обработчику.
// Возвращает ошибку при закрытии канала обновлений, вызывающий перезапускает цикл.
func (c *Client) Start(ctx context.Context, handler UpdateHandler) error {
	c.logger.Info("Bot started", zap.String("username", c.bot.Self.UserName))

	if _, err := c.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		c.logger.Error("Failed to delete webhook", zap.Error(err))
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	if err := c.SetCommands(handler.RegisterBotCommands()); err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "channel_post"}

	c.logger.Info("Starting to fetch updates")
	updatesChan := c.bot.GetUpdatesChan(u)
	defer c.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Update loop cancelled by context")
			return ctx.Err()
		case update, ok := <-updatesChan:
			if !ok {
				c.logger.Warn("Update channel closed, will try to reconnect after delay")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.reconnectDelay):
					return fmt.Errorf("update channel closed, reconnecting")
				}
			}

			c.processUpdate(update, handler)
		}
	}
}

// processUpdate передает обработчику только сообщения и посты каналов
func (c *Client) processUpdate(update tgbotapi.Update, handler UpdateHandler) {
	message := MessageOf(update)
	if message == nil {
		return
	}

	c.logger.Debug("Processing update",
		zap.Int("update_id", update.UpdateID),
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("user", SenderIdentifier(message)),
		zap.String("update_type", UpdateType(update)))

	handler.HandleUpdate(update)
}

// SetCommands регистрирует меню команд бота
func (c *Client) SetCommands(commands []tgbotapi.BotCommand) error {
	if _, err := c.bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

// SendText отправляет текст без разметки и без превью ссылок
func (c *Client) SendText(chatID int64, text string, replyTo int) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	msg.ReplyToMessageID = replyTo

	if _, err := c.bot.Send(msg); err != nil {
		c.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
