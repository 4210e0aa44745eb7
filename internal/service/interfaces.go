package service

import (
	"context"
	"time"

	"lpbot/internal/external/spotify"
	"lpbot/internal/model"
)

// Catalog определяет внешний каталог, из которого загружаются альбомы
type Catalog interface {
	// AlbumSummary получает метаданные альбома
	AlbumSummary(ctx context.Context, id string) (*spotify.AlbumSummary, error)
	// AlbumTracks получает все треки альбома в порядке каталога
	AlbumTracks(ctx context.Context, id string) ([]spotify.TrackItem, error)
}

// Fetcher определяет загрузку альбома по идентификатору
type Fetcher interface {
	Fetch(ctx context.Context, id string) (model.Album, error)
}

// PartyStore определяет операции реестра вечеринок
type PartyStore interface {
	RecordAnnouncement(channel model.ChannelID, album model.Album)
	SignalStart(channel model.ChannelID, at time.Time) bool
	Get(channel model.ChannelID) (model.PartyRecord, bool)
}

// InboundMessage представляет входящее сообщение чата
type InboundMessage struct {
	Text         string
	RoleMentions []string
	Channel      model.ChannelID
}
