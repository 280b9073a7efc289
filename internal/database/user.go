package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thereayou/matcha-tracker/internal/models"
)

// CreateUser stores user together with its embedded sessions. A missing id
// is generated. Sessions are attached to the new user.
func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		taken, err := userTaken(tx, &user.Username, &user.Email, nil)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		return insertSessions(tx, user.ID, user.MatchaSessions)
	})
	return mapError("create user", err)
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		return loadUser(tx, id, &user)
	})
	if err != nil {
		return nil, mapError("get user", err)
	}
	return &user, nil
}

func (d *Database) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	users := []models.User{}
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		return filter.apply(tx.Model(&models.User{})).
			Preload("MatchaSessions").
			Find(&users).Error
	})
	if err != nil {
		return nil, mapError("list users", err)
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of patch. A changed username or
// email is checked against every other user. When patch.Sessions is set the
// user's session collection is replaced as a whole.
func (d *Database) UpdateUser(ctx context.Context, id uuid.UUID, patch UserPatch) (*models.User, error) {
	var user models.User
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}

		username := changed(patch.Username, user.Username)
		email := changed(patch.Email, user.Email)
		taken, err := userTaken(tx, username, email, &user.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}

		if err := tx.Model(&user).Updates(patch.columns(tx.NowFunc())).Error; err != nil {
			return err
		}

		if patch.Sessions != nil {
			if err := replaceSessions(tx, user.ID, *patch.Sessions); err != nil {
				return err
			}
		}
		user = models.User{}
		return loadUser(tx, id, &user)
	})
	if err != nil {
		return nil, mapError("update user", err)
	}
	return &user, nil
}

// DeleteUser removes the user and every session it owns.
func (d *Database) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := d.withTx(ctx, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.MatchaSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
	return mapError("delete user", err)
}

func loadUser(tx *gorm.DB, id uuid.UUID, user *models.User) error {
	return tx.Preload("MatchaSessions").First(user, "id = ?", id).Error
}

// userTaken reports whether another user already holds username or email.
// It is a fast path only: the unique indexes decide races.
func userTaken(tx *gorm.DB, username, email *string, exclude *uuid.UUID) (bool, error) {
	var conds []string
	var args []interface{}
	if username != nil {
		conds = append(conds, "username = ?")
		args = append(args, *username)
	}
	if email != nil {
		conds = append(conds, "email = ?")
		args = append(args, *email)
	}
	if len(conds) == 0 {
		return false, nil
	}

	q := tx.Model(&models.User{}).Where("("+strings.Join(conds, " OR ")+")", args...)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func changed(v *string, current string) *string {
	if v == nil || *v == current {
		return nil
	}
	return v
}

// replaceSessions deletes every session owned by userID and inserts sessions
// in their place.
func replaceSessions(tx *gorm.DB, userID uuid.UUID, sessions []models.MatchaSession) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.MatchaSession{}).Error; err != nil {
		return err
	}
	return insertSessions(tx, userID, sessions)
}

// insertSessions stores sessions as owned by userID. Client supplied ids must
// be unique within the batch and unused in the store.
func insertSessions(tx *gorm.DB, userID uuid.UUID, sessions []models.MatchaSession) error {
	if len(sessions) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(sessions))
	ids := make([]uuid.UUID, 0, len(sessions))
	for i := range sessions {
		owner := userID
		sessions[i].UserID = &owner
		id := sessions[i].ID
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			return ErrConflict
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) > 0 {
		var n int64
		if err := tx.Model(&models.MatchaSession{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict
		}
	}

	if err := tx.Create(&sessions).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}
