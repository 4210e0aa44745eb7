package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"lpbot/internal/model"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// DefaultCatalogHost - хост канонических ссылок на альбомы
const DefaultCatalogHost = "open.spotify.com"

// DetectorConfig содержит настройки детектора объявлений
type DetectorConfig struct {
	// Roles - упоминания, которые считаются объявлением вечеринки
	Roles []string
	// CatalogHost - хост ссылок на альбомы
	CatalogHost string
	// FetchTimeout ограничивает загрузку альбома, 0 - без ограничения
	FetchTimeout time.Duration
}

// Detector распознает объявления вечеринок и сохраняет альбом в реестр
type Detector struct {
	roles   map[string]struct{}
	pattern *regexp.Regexp
	fetcher Fetcher
	store   PartyStore
	timeout time.Duration
	logger  *zap.Logger
}

// NewDetector создает новый детектор объявлений
func NewDetector(cfg DetectorConfig, fetcher Fetcher, store PartyStore, logger *zap.Logger) (*Detector, error) {
	if len(cfg.Roles) == 0 {
		return nil, fmt.Errorf("at least one announcement role is required")
	}

	roles := make(map[string]struct{}, len(cfg.Roles))
	for _, role := range cfg.Roles {
		if normalized := NormalizeRole(role); normalized != "" {
			roles[normalized] = struct{}{}
		}
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("announcement roles are empty")
	}

	host := cfg.CatalogHost
	if host == "" {
		host = DefaultCatalogHost
	}

	return &Detector{
		roles:   roles,
		pattern: AlbumLinkPattern(host),
		fetcher: fetcher,
		store:   store,
		timeout: cfg.FetchTimeout,
		logger:  logger,
	}, nil
}

// AlbumLinkPattern возвращает регулярное выражение ссылки на альбом для хоста.
// Первая группа захватывает идентификатор альбома.
func AlbumLinkPattern(host string) *regexp.Regexp {
	return regexp.MustCompile(`\bhttps://` + regexp.QuoteMeta(host) +
		`/album/([a-zA-Z0-9]+)(?:\?[a-zA-Z0-9?=&_\-]*)?\b`)
}

// NormalizeRole приводит упоминание к каноническому виду без учета регистра
func NormalizeRole(role string) string {
	return cases.Fold().String(strings.TrimSpace(role))
}

// Trusted проверяет, упоминает ли сообщение одну из доверенных ролей
func (d *Detector) Trusted(msg InboundMessage) bool {
	for _, mention := range msg.RoleMentions {
		if _, ok := d.roles[NormalizeRole(mention)]; ok {
			return true
		}
	}
	return false
}

// ExtractAlbumID возвращает идентификатор из первой ссылки на альбом в тексте
func (d *Detector) ExtractAlbumID(text string) (string, bool) {
	match := d.pattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Match проверяет сообщение и возвращает идентификатор объявленного альбома
func (d *Detector) Match(msg InboundMessage) (string, bool) {
	if !d.Trusted(msg) {
		return "", false
	}
	return d.ExtractAlbumID(msg.Text)
}

// Handle обрабатывает сообщение: при совпадении загружает альбом и заменяет запись канала.
// Ошибки не возвращаются, только логируются; результат сообщает, была ли записана вечеринка.
func (d *Detector) Handle(ctx context.Context, msg InboundMessage) bool {
	albumID, ok := d.Match(msg)
	if !ok {
		return false
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	// Загрузка выполняется до блокировки реестра
	album, err := d.fetcher.Fetch(ctx, albumID)
	if err != nil {
		if errors.Is(err, model.ErrInvalidIdentifier) {
			d.logger.Warn("Announcement ignored, invalid album identifier",
				zap.Int64("channel", int64(msg.Channel)),
				zap.String("album_id", albumID),
				zap.Error(err))
		} else {
			d.logger.Error("Error resolving announcement",
				zap.Int64("channel", int64(msg.Channel)),
				zap.String("album_id", albumID),
				zap.Error(err))
		}
		return false
	}

	d.store.RecordAnnouncement(msg.Channel, album)
	return true
}
