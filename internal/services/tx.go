package services

import (
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// txRunner выполняет fn в транзакции: откат при ошибке, commit при успехе
type txRunner func(db *gorm.DB, fn func(tx *gorm.DB) error) error

func runInTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
