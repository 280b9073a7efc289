package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CeremonialGrade = "Ceremonial Grade"
	PremiumGrade    = "Premium Grade"
	CulinaryGrade   = "Culinary Grade"
	LatteGrade      = "Latte Grade"
)

// MatchaTypes lists every accepted matcha_type value. Matching is exact.
var MatchaTypes = []string{CeremonialGrade, PremiumGrade, CulinaryGrade, LatteGrade}

func IsMatchaType(s string) bool {
	for _, t := range MatchaTypes {
		if s == t {
			return true
		}
	}
	return false
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

type MatchaSession struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID      *uuid.UUID `gorm:"type:char(36);index"`
	SessionDate Date       `gorm:"not null"`
	Location    string     `gorm:"size:255;not null"`
	MatchaType  string     `gorm:"size:50;not null"`
	Brand       *string    `gorm:"size:255"`
	Rating      *float64
	Notes       *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (MatchaSession) TableName() string {
	return "sessions"
}

func (s *MatchaSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
