package model

import "time"

// PlayStatus описывает вид состояния воспроизведения
type PlayStatus int

const (
	// StatusNotStarted - вечеринка объявлена, но не запущена
	StatusNotStarted PlayStatus = iota
	// StatusPlaying - сейчас играет трек
	StatusPlaying
	// StatusFinished - все треки уже прошли
	StatusFinished
)

// String возвращает строковое представление статуса
func (s PlayStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// PlayState - производное состояние записи, никогда не хранится.
// TrackIndex и Position заполнены только для StatusPlaying, SinceEnd только для StatusFinished.
type PlayState struct {
	Status     PlayStatus
	TrackIndex int
	Position   time.Duration
	SinceEnd   time.Duration
}

// Track возвращает текущий трек для StatusPlaying
func (s PlayState) Track(album Album) (Track, bool) {
	if s.Status != StatusPlaying || s.TrackIndex < 0 || s.TrackIndex >= len(album.Tracks) {
		return Track{}, false
	}
	return album.Tracks[s.TrackIndex], true
}
