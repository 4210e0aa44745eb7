package model

import "time"

// PartyRecord хранит последний объявленный в канале альбом.
// StartedAt равен nil, пока вечеринка не запущена.
type PartyRecord struct {
	Album       Album
	AnnouncedAt time.Time
	StartedAt   *time.Time
}

// Started сообщает, был ли получен сигнал старта
func (r PartyRecord) Started() bool {
	return r.StartedAt != nil
}

// Clone возвращает копию записи, не разделяющую StartedAt с оригиналом.
// Album неизменяем после загрузки, поэтому треки не копируются.
func (r PartyRecord) Clone() PartyRecord {
	clone := r
	if r.StartedAt != nil {
		started := *r.StartedAt
		clone.StartedAt = &started
	}
	return clone
}

// NowPlaying вычисляет состояние воспроизведения на момент now.
// Если момент старта находится в будущем, возвращается NotStarted и ErrClockAnomaly.
func (r PartyRecord) NowPlaying(now time.Time) (PlayState, error) {
	if r.StartedAt == nil {
		return PlayState{Status: StatusNotStarted}, nil
	}

	started := *r.StartedAt
	if started.After(now) {
		return PlayState{Status: StatusNotStarted}, ErrClockAnomaly
	}

	remaining := now.Sub(started)
	for i, track := range r.Album.Tracks {
		if remaining < track.Duration {
			return PlayState{
				Status:     StatusPlaying,
				TrackIndex: i,
				Position:   remaining,
			}, nil
		}
		if track.Duration > 0 {
			remaining -= track.Duration
		}
	}

	// Все треки прошли, remaining - время с момента окончания
	return PlayState{Status: StatusFinished, SinceEnd: remaining}, nil
}
