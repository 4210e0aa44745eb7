package service

import (
	"context"
	"strings"

	"lpbot/internal/model"

	"go.uber.org/zap"
)

// AlbumFetcher загружает альбом и список треков из каталога
type AlbumFetcher struct {
	catalog Catalog
	logger  *zap.Logger
}

var _ Fetcher = (*AlbumFetcher)(nil)

// NewAlbumFetcher создает новый загрузчик альбомов
func NewAlbumFetcher(catalog Catalog, logger *zap.Logger) *AlbumFetcher {
	return &AlbumFetcher{
		catalog: catalog,
		logger:  logger,
	}
}

// Fetch валидирует идентификатор и выполняет два запроса к каталогу: альбом и треки.
// Частичный результат не возвращается: при любой ошибке каталога возвращается *model.FetchError.
func (f *AlbumFetcher) Fetch(ctx context.Context, id string) (model.Album, error) {
	if err := model.ValidateAlbumID(id); err != nil {
		return model.Album{}, err
	}

	summary, err := f.catalog.AlbumSummary(ctx, id)
	if err != nil {
		return model.Album{}, model.NewFetchError(model.FetchStageAlbum, id, err)
	}

	artists := strings.Join(summary.Artists, ", ")
	f.logger.Debug("Album pinged",
		zap.String("album_id", id),
		zap.String("artist", artists),
		zap.String("album", summary.Name))

	items, err := f.catalog.AlbumTracks(ctx, id)
	if err != nil {
		return model.Album{}, model.NewFetchError(model.FetchStageTracks, id, err)
	}

	tracks := make([]model.Track, 0, len(items))
	for _, item := range items {
		duration := item.Duration
		if duration < 0 {
			duration = 0
		}
		tracks = append(tracks, model.Track{
			Number:   item.Number,
			Name:     item.Name,
			URL:      item.URL,
			Duration: duration,
		})
	}

	return model.Album{
		Artist: artists,
		Name:   summary.Name,
		URL:    summary.URL,
		Tracks: tracks,
	}, nil
}
