package model

import (
	"errors"
	"fmt"
)

// Ошибки домена
var (
	ErrInvalidIdentifier = errors.New("invalid album identifier")
	ErrClockAnomaly      = errors.New("party start is in the future")
)

// Стадии загрузки альбома
const (
	FetchStageAlbum  = "album"
	FetchStageTracks = "tracks"
)

// FetchError представляет ошибку обращения к каталогу
type FetchError struct {
	Stage   string
	AlbumID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s %s failed: %v", e.Stage, e.AlbumID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError создает новую ошибку загрузки
func NewFetchError(stage, albumID string, err error) *FetchError {
	return &FetchError{
		Stage:   stage,
		AlbumID: albumID,
		Err:     err,
	}
}

// IsFetchError проверяет, является ли ошибка FetchError
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
