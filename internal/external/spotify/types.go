// Package spotify содержит типы для работы с Spotify API.
package spotify

import "time"

// AlbumSummary содержит метаданные альбома
type AlbumSummary struct {
	ID      string
	Artists []string // Имена исполнителей в порядке каталога
	Name    string
	URL     string // Ссылка open.spotify.com, пустая если отсутствует
}

// TrackItem представляет трек из списка треков альбома
type TrackItem struct {
	Number   int
	Name     string
	Duration time.Duration
	URL      string
}

// Config содержит настройки клиента каталога
type Config struct {
	ClientID     string
	ClientSecret string
	// TokenURL и APIBaseURL переопределяются только в тестах
	TokenURL   string
	APIBaseURL string
	HTTPClient HTTPClientConfig
	Retry      RetryConfig
}

// HTTPClientConfig представляет конфигурацию HTTP транспорта
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
	Timeout               time.Duration
}

// RetryConfig представляет конфигурацию повторов
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}
