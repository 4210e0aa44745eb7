package service

import (
	"errors"
	"fmt"
	"time"

	"lpbot/internal/model"

	"go.uber.org/zap"
)

// Тексты статуса
const (
	NoPartyMessage    = "There is no listening party at the moment."
	NotStartedMessage = "Not yet started."
	NoLinkMessage     = "No album link available"
)

// Reporter формирует текст статуса вечеринки для канала
type Reporter struct {
	store  PartyStore
	now    func() time.Time
	logger *zap.Logger
}

// NewReporter создает новый формирователь статуса
func NewReporter(store PartyStore, now func() time.Time, logger *zap.Logger) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{
		store:  store,
		now:    now,
		logger: logger,
	}
}

// Status возвращает текст статуса вечеринки в канале
func (r *Reporter) Status(channel model.ChannelID) string {
	record, ok := r.store.Get(channel)
	if !ok {
		return NoPartyMessage
	}

	now := r.now()
	state, err := record.NowPlaying(now)
	if errors.Is(err, model.ErrClockAnomaly) {
		r.logger.Warn("Party start timestamp is in the future",
			zap.Int64("channel", int64(channel)),
			zap.Timep("started_at", record.StartedAt),
			zap.Time("now", now))
	}

	return RenderStatus(record.Album, state)
}

// RenderStatus собирает сообщение: заголовок, строка статуса, ссылка
func RenderStatus(album model.Album, state model.PlayState) string {
	link := NoLinkMessage
	if album.HasURL() {
		link = "Album: " + album.URL
	}

	return fmt.Sprintf("Ongoing Listening Party:\n%s - %s (%s)\n%s\n%s",
		album.Artist,
		album.Name,
		model.FormatDuration(album.TotalDuration()),
		renderPlayState(album, state),
		link)
}

// renderPlayState формирует строку статуса воспроизведения
func renderPlayState(album model.Album, state model.PlayState) string {
	switch state.Status {
	case model.StatusFinished:
		return fmt.Sprintf("LP ended %s ago", model.FormatDuration(state.SinceEnd))
	case model.StatusPlaying:
		track, ok := state.Track(album)
		if !ok {
			return NotStartedMessage
		}
		return fmt.Sprintf("Playing Track %d: \"%s\" at %s / %s",
			track.Number,
			track.Name,
			model.FormatDuration(state.Position),
			model.FormatDuration(track.Duration))
	default:
		return NotStartedMessage
	}
}
