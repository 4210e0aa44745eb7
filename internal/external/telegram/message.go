package telegram

import (
	"fmt"
	"unicode/utf16"

	"lpbot/internal/model"
	"lpbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Типы сущностей, которые считаются упоминанием роли
const (
	EntityMention = "mention"
	EntityHashtag = "hashtag"
)

// MessageOf возвращает сообщение или пост канала из обновления
func MessageOf(update tgbotapi.Update) *tgbotapi.Message {
	switch {
	case update.Message != nil:
		return update.Message
	case update.ChannelPost != nil:
		return update.ChannelPost
	default:
		return nil
	}
}

// ToInbound переводит сообщение Telegram в входящее сообщение сервиса.
// Для сообщений с вложением используется подпись и ее сущности.
func ToInbound(message *tgbotapi.Message) service.InboundMessage {
	text, entities := message.Text, message.Entities
	if text == "" {
		text, entities = message.Caption, message.CaptionEntities
	}

	var channel model.ChannelID
	if message.Chat != nil {
		channel = model.ChannelID(message.Chat.ID)
	}

	return service.InboundMessage{
		Text:         text,
		RoleMentions: RoleMentions(text, entities),
		Channel:      channel,
	}
}

// RoleMentions извлекает тексты @упоминаний и #хэштегов.
// Смещения сущностей Telegram заданы в кодовых единицах UTF-16.
func RoleMentions(text string, entities []tgbotapi.MessageEntity) []string {
	if len(entities) == 0 {
		return nil
	}

	encoded := utf16.Encode([]rune(text))
	var mentions []string
	for _, entity := range entities {
		if entity.Type != EntityMention && entity.Type != EntityHashtag {
			continue
		}
		end := entity.Offset + entity.Length
		if entity.Offset < 0 || entity.Length <= 0 || end > len(encoded) {
			continue
		}
		mentions = append(mentions, string(utf16.Decode(encoded[entity.Offset:end])))
	}
	return mentions
}

// UpdateType определяет тип обновления
func UpdateType(update tgbotapi.Update) string {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		return "command"
	case update.Message != nil:
		return "message"
	case update.ChannelPost != nil && update.ChannelPost.IsCommand():
		return "channel_command"
	case update.ChannelPost != nil:
		return "channel_post"
	default:
		return "unknown"
	}
}

// SenderID возвращает ID отправителя, для постов канала - ID чата
func SenderID(message *tgbotapi.Message) int64 {
	if message.From != nil {
		return message.From.ID
	}
	if message.SenderChat != nil {
		return message.SenderChat.ID
	}
	if message.Chat != nil {
		return message.Chat.ID
	}
	return 0
}

// SenderIdentifier возвращает читаемый идентификатор отправителя
func SenderIdentifier(message *tgbotapi.Message) string {
	user := message.From
	if user == nil {
		if message.Chat != nil && message.Chat.Title != "" {
			return message.Chat.Title
		}
		return "unknown"
	}

	if user.UserName != "" {
		return "@" + user.UserName
	}

	if user.FirstName != "" {
		if user.LastName != "" {
			return user.FirstName + " " + user.LastName
		}
		return user.FirstName
	}

	return fmt.Sprintf("user_%d", user.ID)
}
