// Package model содержит валидаторы для моделей.
package model

import (
	"fmt"
	"regexp"
)

// MaxAlbumIDLength - длина base62 идентификатора альбома в каталоге
const MaxAlbumIDLength = 22

var albumIDRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidateAlbumID проверяет идентификатор альбома.
// Возвращает ошибку, оборачивающую ErrInvalidIdentifier.
func ValidateAlbumID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if len(id) > MaxAlbumIDLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidIdentifier, id, MaxAlbumIDLength)
	}
	if !albumIDRegex.MatchString(id) {
		return fmt.Errorf("%w: %q is not base62", ErrInvalidIdentifier, id)
	}
	return nil
}
