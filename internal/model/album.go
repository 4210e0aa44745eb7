// Package model содержит модель данных listening party: альбом, треки и состояние воспроизведения.
package model

import "time"

// ChannelID идентифицирует чат, в котором объявлена вечеринка
type ChannelID int64

// Track представляет трек альбома
type Track struct {
	Number   int           // Номер трека в альбоме
	Name     string        // Название трека
	URL      string        // Внешняя ссылка, пустая если отсутствует
	Duration time.Duration // Длительность трека
}

// Album представляет альбом с полным списком треков.
// Порядок Tracks совпадает с порядком воспроизведения.
type Album struct {
	Artist string // Исполнители через ", "
	Name   string
	URL    string
	Tracks []Track
}

// HasURL сообщает, есть ли у альбома внешняя ссылка
func (a Album) HasURL() bool {
	return a.URL != ""
}

// TotalDuration возвращает суммарную длительность всех треков
func (a Album) TotalDuration() time.Duration {
	var total time.Duration
	for _, track := range a.Tracks {
		if track.Duration > 0 {
			total += track.Duration
		}
	}
	return total
}
