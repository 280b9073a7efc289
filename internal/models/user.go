package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                   uuid.UUID `gorm:"type:char(36);primaryKey"`
	Username             string    `gorm:"size:20;uniqueIndex;not null"`
	Email                string    `gorm:"size:255;uniqueIndex;not null"`
	FirstName            string    `gorm:"size:100;not null"`
	LastName             string    `gorm:"size:100;not null"`
	Phone                *string   `gorm:"size:50"`
	FavoriteMatchaPowder *string   `gorm:"size:255"`
	FavoriteMatchaPlace  *string   `gorm:"size:255"`
	MatchaBudget         *float64
	JoinDate             *Date
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`

	// sessions are removed with their user
	MatchaSessions []MatchaSession `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a fresh id when the caller did not supply one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
