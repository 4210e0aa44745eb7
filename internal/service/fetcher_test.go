package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lpbot/internal/external/spotify"
	"lpbot/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAlbumFetcher_Fetch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add(&spotify.AlbumSummary{
		ID:      "ABC123",
		Artists: []string{"Daft Punk", "Pharrell Williams"},
		Name:    "Random Access Memories",
		URL:     "https://open.spotify.com/album/ABC123",
	},
		spotify.TrackItem{Number: 1, Name: "Give Life Back to Music", Duration: 274 * time.Second, URL: "https://open.spotify.com/track/1"},
		spotify.TrackItem{Number: 2, Name: "The Game of Love", Duration: 321 * time.Second},
		spotify.TrackItem{Number: 3, Name: "Broken", Duration: -time.Second},
	)

	album, err := NewAlbumFetcher(catalog, zap.NewNop()).Fetch(context.Background(), "ABC123")
	require.NoError(t, err)

	want := model.Album{
		Artist: "Daft Punk, Pharrell Williams",
		Name:   "Random Access Memories",
		URL:    "https://open.spotify.com/album/ABC123",
		Tracks: []model.Track{
			{Number: 1, Name: "Give Life Back to Music", URL: "https://open.spotify.com/track/1", Duration: 274 * time.Second},
			{Number: 2, Name: "The Game of Love", Duration: 321 * time.Second},
			{Number: 3, Name: "Broken", Duration: 0},
		},
	}
	if diff := cmp.Diff(want, album); diff != "" {
		t.Errorf("Fetch() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"album:ABC123", "tracks:ABC123"}, catalog.callLog())
}

func TestAlbumFetcher_InvalidIdentifierNeverReachesCatalog(t *testing.T) {
	catalog := newFakeCatalog()
	fetcher := NewAlbumFetcher(catalog, zap.NewNop())

	_, err := fetcher.Fetch(context.Background(), "not-an-id")
	assert.True(t, errors.Is(err, model.ErrInvalidIdentifier))
	assert.False(t, model.IsFetchError(err))
	assert.Empty(t, catalog.callLog())
}

func TestAlbumFetcher_FetchErrors(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name      string
		setup     func(c *fakeCatalog)
		wantStage string
		wantCalls []string
	}{
		{
			name:      "album request fails",
			setup:     func(c *fakeCatalog) { c.summaryErr = cause },
			wantStage: model.FetchStageAlbum,
			wantCalls: []string{"album:ABC123"},
		},
		{
			name: "tracks request fails",
			setup: func(c *fakeCatalog) {
				c.add(&spotify.AlbumSummary{ID: "ABC123", Name: "Album"})
				c.tracksErr = cause
			},
			wantStage: model.FetchStageTracks,
			wantCalls: []string{"album:ABC123", "tracks:ABC123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newFakeCatalog()
			tt.setup(catalog)

			album, err := NewAlbumFetcher(catalog, zap.NewNop()).Fetch(context.Background(), "ABC123")
			require.Error(t, err)
			assert.Empty(t, album.Tracks, "no partial result")

			var fetchErr *model.FetchError
			require.True(t, errors.As(err, &fetchErr))
			assert.Equal(t, tt.wantStage, fetchErr.Stage)
			assert.Equal(t, "ABC123", fetchErr.AlbumID)
			assert.True(t, errors.Is(err, cause))
			assert.Equal(t, tt.wantCalls, catalog.callLog())
		})
	}
}
