// Package party содержит потокобезопасный реестр listening party по каналам.
package party

import (
	"fmt"
	"sync"
	"time"

	"lpbot/internal/model"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"
)

// DefaultCapacity - емкость реестра по умолчанию
const DefaultCapacity = 1000

// Registry хранит последнюю объявленную вечеринку для каждого канала.
// Вся карта защищена одним RWMutex: чтения идут параллельно, запись эксклюзивна.
type Registry struct {
	mu      sync.RWMutex
	parties *simplelru.LRU[model.ChannelID, *model.PartyRecord]
	now     func() time.Time
	logger  *zap.Logger
}

// NewRegistry создает новый реестр.
// При превышении capacity вытесняется канал с самой старой записью.
func NewRegistry(capacity int, logger *zap.Logger) (*Registry, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	r := &Registry{
		now:    time.Now,
		logger: logger,
	}

	parties, err := simplelru.NewLRU[model.ChannelID, *model.PartyRecord](capacity, r.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create party registry: %w", err)
	}
	r.parties = parties

	return r, nil
}

// onEvict вызывается под блокировкой записи
func (r *Registry) onEvict(channel model.ChannelID, record *model.PartyRecord) {
	r.logger.Info("Party evicted from registry",
		zap.Int64("channel", int64(channel)),
		zap.String("album", record.Album.Name))
}

// RecordAnnouncement безусловно заменяет запись канала новым альбомом со сброшенным стартом
func (r *Registry) RecordAnnouncement(channel model.ChannelID, album model.Album) {
	record := &model.PartyRecord{
		Album:       album,
		AnnouncedAt: r.now(),
	}

	r.mu.Lock()
	r.parties.Add(channel, record)
	r.mu.Unlock()

	r.logger.Info("Party announced",
		zap.Int64("channel", int64(channel)),
		zap.String("artist", album.Artist),
		zap.String("album", album.Name),
		zap.Int("tracks", len(album.Tracks)))
}

// SignalStart отмечает старт вечеринки в канале.
// Если записи нет, ничего не делает и возвращает false.
func (r *Registry) SignalStart(channel model.ChannelID, at time.Time) bool {
	r.mu.Lock()
	record, ok := r.parties.Get(channel)
	if ok {
		started := at
		record.StartedAt = &started
	}
	r.mu.Unlock()

	if !ok {
		r.logger.Debug("Start signal ignored, no party announced", zap.Int64("channel", int64(channel)))
		return false
	}

	r.logger.Info("Party started",
		zap.Int64("channel", int64(channel)),
		zap.String("album", record.Album.Name),
		zap.Time("started_at", at))
	return true
}

// Get возвращает копию записи канала
func (r *Registry) Get(channel model.ChannelID) (model.PartyRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.parties.Peek(channel)
	if !ok {
		return model.PartyRecord{}, false
	}
	return record.Clone(), true
}

// Len возвращает количество каналов с записями
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.parties.Len()
}

// Sweep удаляет записи, устаревшие более чем на retention:
// не запущенные с момента объявления и завершившиеся с момента окончания.
func (r *Registry) Sweep(now time.Time, retention time.Duration) int {
	if retention <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, channel := range r.parties.Keys() {
		record, ok := r.parties.Peek(channel)
		if !ok || !expired(record, now, retention) {
			continue
		}
		r.parties.Remove(channel)
		removed++
	}
	return removed
}

// expired проверяет, устарела ли запись
func expired(record *model.PartyRecord, now time.Time, retention time.Duration) bool {
	if record.StartedAt == nil {
		return now.Sub(record.AnnouncedAt) > retention
	}
	end := record.StartedAt.Add(record.Album.TotalDuration())
	return now.Sub(end) > retention
}
