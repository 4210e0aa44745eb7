// Package app содержит маршрутизацию команд.
package app

import (
	"strings"

	"lpbot/internal/external/telegram"
	"lpbot/internal/handlers"
	"lpbot/internal/middleware"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Router обрабатывает маршрутизацию команд и объявлений
type Router struct {
	handlers    *handlers.Handlers
	middleware  *middleware.Middleware
	botUsername string
	logger      *zap.Logger
}

var _ telegram.UpdateHandler = (*Router)(nil)

// NewRouter создает новый роутер
func NewRouter(h *handlers.Handlers, mw *middleware.Middleware, botUsername string, logger *zap.Logger) *Router {
	return &Router{
		handlers:    h,
		middleware:  mw,
		botUsername: botUsername,
		logger:      logger,
	}
}

// HandleUpdate обрабатывает обновление от Telegram
func (r *Router) HandleUpdate(update tgbotapi.Update) {
	r.middleware.ProcessWithMiddleware(update, r.dispatch)
}

// dispatch направляет команды обработчикам, остальные сообщения проверяются как объявления
func (r *Router) dispatch(update tgbotapi.Update) {
	message := telegram.MessageOf(update)
	if message == nil {
		return
	}

	if !message.IsCommand() {
		r.handlers.Announcement(update.UpdateID, message)
		return
	}

	if !r.addressedToUs(message) {
		return
	}

	switch strings.ToLower(message.Command()) {
	case "lp":
		r.handlers.Status(message)
	case "lpstart":
		r.middleware.AdminOnly(r.handlers.Denied)(update, func(tgbotapi.Update) {
			r.handlers.StartParty(message)
		})
	case "help", "start":
		r.handlers.Help(message)
	default:
		if message.Chat.IsPrivate() {
			r.handlers.Unknown(message)
		}
	}
}

// addressedToUs отсекает команды вида /cmd@other_bot
func (r *Router) addressedToUs(message *tgbotapi.Message) bool {
	command := message.CommandWithAt()
	at := strings.Index(command, "@")
	if at < 0 || r.botUsername == "" {
		return true
	}
	return strings.EqualFold(command[at+1:], r.botUsername)
}

// RegisterBotCommands регистрирует команды бота
func (r *Router) RegisterBotCommands() []tgbotapi.BotCommand {
	return r.handlers.RegisterBotCommands()
}
