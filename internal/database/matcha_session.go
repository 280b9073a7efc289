package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thereayou/matcha-tracker/internal/models"
)

// CreateMatchaSession stores a standalone session. A client supplied id that
// is already in use yields ErrConflict.
func (d *Database) CreateMatchaSession(ctx context.Context, session *models.MatchaSession) error {
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		if session.ID != uuid.Nil {
			var n int64
			if err := tx.Model(&models.MatchaSession{}).Where("id = ?", session.ID).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrConflict
			}
		}
		return tx.Create(session).Error
	})
	return mapError("create matcha session", err)
}

func (d *Database) GetMatchaSession(ctx context.Context, id uuid.UUID) (*models.MatchaSession, error) {
	var session models.MatchaSession
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		return tx.First(&session, "id = ?", id).Error
	})
	if err != nil {
		return nil, mapError("get matcha session", err)
	}
	return &session, nil
}

func (d *Database) ListMatchaSessions(ctx context.Context, filter SessionFilter) ([]models.MatchaSession, error) {
	sessions := []models.MatchaSession{}
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		return filter.apply(tx.Model(&models.MatchaSession{})).Find(&sessions).Error
	})
	if err != nil {
		return nil, mapError("list matcha sessions", err)
	}
	return sessions, nil
}

func (d *Database) UpdateMatchaSession(ctx context.Context, id uuid.UUID, patch SessionPatch) (*models.MatchaSession, error) {
	var session models.MatchaSession
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", id).Error; err != nil {
			return err
		}
		now := tx.NowFunc()
		if err := tx.Model(&session).Updates(patch.columns(now)).Error; err != nil {
			return err
		}
		patch.Apply(&session, now)
		return nil
	})
	if err != nil {
		return nil, mapError("update matcha session", err)
	}
	return &session, nil
}

func (d *Database) DeleteMatchaSession(ctx context.Context, id uuid.UUID) error {
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		res := tx.Delete(&models.MatchaSession{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return mapError("delete matcha session", err)
}
