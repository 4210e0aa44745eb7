package service

import (
	"context"
	"sync"

	"lpbot/internal/external/spotify"
)

// fakeCatalog подменяет каталог и считает обращения
type fakeCatalog struct {
	mu         sync.Mutex
	summaries  map[string]*spotify.AlbumSummary
	tracks     map[string][]spotify.TrackItem
	summaryErr error
	tracksErr  error
	calls      []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		summaries: make(map[string]*spotify.AlbumSummary),
		tracks:    make(map[string][]spotify.TrackItem),
	}
}

func (c *fakeCatalog) add(summary *spotify.AlbumSummary, tracks ...spotify.TrackItem) {
	c.summaries[summary.ID] = summary
	c.tracks[summary.ID] = tracks
}

func (c *fakeCatalog) AlbumSummary(_ context.Context, id string) (*spotify.AlbumSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "album:"+id)
	if c.summaryErr != nil {
		return nil, c.summaryErr
	}
	summary, ok := c.summaries[id]
	if !ok {
		return nil, errNotFound
	}
	return summary, nil
}

func (c *fakeCatalog) AlbumTracks(_ context.Context, id string) ([]spotify.TrackItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "tracks:"+id)
	if c.tracksErr != nil {
		return nil, c.tracksErr
	}
	return c.tracks[id], nil
}

func (c *fakeCatalog) callLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type notFoundError struct{}

func (notFoundError) Error() string { return "album not found" }

var errNotFound error = notFoundError{}
