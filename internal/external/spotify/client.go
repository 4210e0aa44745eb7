// Package spotify реализует клиент каталога на основе Spotify Web API.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// albumTracksPageSize - максимальный размер страницы треков альбома
const albumTracksPageSize = 50

// Client представляет клиент каталога Spotify с Client Credentials Flow
type Client struct {
	api    *spotify.Client
	retry  RetryConfig
	logger *zap.Logger
}

// NewClient создает новый клиент каталога
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	baseClient := &http.Client{
		Transport: newTransport(cfg.HTTPClient),
		Timeout:   cfg.HTTPClient.Timeout,
	}

	// Токен запрашивается и обновляется через тот же транспорт
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, baseClient)
	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	var opts []spotify.ClientOption
	if cfg.APIBaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(cfg.APIBaseURL))
	}

	logger.Info("Spotify client created with client credentials flow")

	return &Client{
		api:    spotify.New(credentials.Client(ctx), opts...),
		retry:  cfg.Retry,
		logger: logger,
	}, nil
}

// newTransport создает HTTP транспорт по конфигурации
func newTransport(config HTTPClientConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.MaxIdleConns > 0 {
		transport.MaxIdleConns = config.MaxIdleConns
	}
	if config.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
	}
	if config.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = config.IdleConnTimeout
	}
	if config.TLSHandshakeTimeout > 0 {
		transport.TLSHandshakeTimeout = config.TLSHandshakeTimeout
	}
	if config.ResponseHeaderTimeout > 0 {
		transport.ResponseHeaderTimeout = config.ResponseHeaderTimeout
	}
	transport.DisableKeepAlives = config.DisableKeepAlives
	return transport
}

// AlbumSummary получает метаданные альбома
func (c *Client) AlbumSummary(ctx context.Context, id string) (*AlbumSummary, error) {
	c.logger.Debug("Requesting album from Spotify API", zap.String("album_id", id))

	var album *spotify.FullAlbum
	err := withRetry(ctx, c.logger, c.retry, func() error {
		var err error
		album, err = c.api.GetAlbum(ctx, spotify.ID(id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get album %s: %w", id, err)
	}

	artists := make([]string, 0, len(album.Artists))
	for _, artist := range album.Artists {
		artists = append(artists, artist.Name)
	}

	return &AlbumSummary{
		ID:      string(album.ID),
		Artists: artists,
		Name:    album.Name,
		URL:     album.ExternalURLs["spotify"],
	}, nil
}

// AlbumTracks получает все треки альбома в порядке каталога, проходя по всем страницам
func (c *Client) AlbumTracks(ctx context.Context, id string) ([]TrackItem, error) {
	var page *spotify.SimpleTrackPage
	err := withRetry(ctx, c.logger, c.retry, func() error {
		var err error
		page, err = c.api.GetAlbumTracks(ctx, spotify.ID(id), spotify.Limit(albumTracksPageSize))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get tracks of album %s: %w", id, err)
	}

	var tracks []TrackItem
	for {
		for _, track := range page.Tracks {
			tracks = append(tracks, TrackItem{
				Number:   int(track.TrackNumber),
				Name:     track.Name,
				Duration: time.Duration(track.Duration) * time.Millisecond,
				URL:      track.ExternalURLs["spotify"],
			})
		}

		if page.Next == "" {
			break
		}

		// NextPage обнуляет страницу перед запросом, поэтому повтор идет с копии
		current := *page
		err := withRetry(ctx, c.logger, c.retry, func() error {
			next := current
			if err := c.api.NextPage(ctx, &next); err != nil {
				return err
			}
			page = &next
			return nil
		})
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get tracks of album %s at offset %d: %w", id, len(tracks), err)
		}
	}

	c.logger.Debug("Retrieved album tracks",
		zap.String("album_id", id),
		zap.Int("total_tracks", len(tracks)))

	return tracks, nil
}
