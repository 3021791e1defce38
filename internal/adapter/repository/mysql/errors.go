package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicate reports a unique-constraint violation. TranslateError covers
// connections opened through infrastructure/db; the string match covers raw
// handles.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// notFound maps gorm's missing-row error onto a domain sentinel.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
