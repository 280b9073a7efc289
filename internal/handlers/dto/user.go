package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/matcha-tracker/internal/database"
	"github.com/thereayou/matcha-tracker/internal/models"
)

type UserCreate struct {
	Username             string                `json:"username" binding:"required,username"`
	Email                string                `json:"email" binding:"required,email"`
	FirstName            string                `json:"first_name" binding:"required"`
	LastName             string                `json:"last_name" binding:"required"`
	Phone                *string               `json:"phone"`
	FavoriteMatchaPowder *string               `json:"favorite_matcha_powder"`
	FavoriteMatchaPlace  *string               `json:"favorite_matcha_place"`
	MatchaBudget         *float64              `json:"matcha_budget" binding:"omitempty,gte=0"`
	JoinDate             *string               `json:"join_date" binding:"omitempty,date"`
	MatchaSessions       []MatchaSessionCreate `json:"matcha_sessions" binding:"omitempty,dive"`
}

// UserUpdate is a partial patch. MatchaSessions, when present, replaces the
// user's sessions as a whole instead of being merged.
type UserUpdate struct {
	Username             *string                `json:"username" binding:"omitempty,username"`
	Email                *string                `json:"email" binding:"omitempty,email"`
	FirstName            *string                `json:"first_name" binding:"omitempty,min=1"`
	LastName             *string                `json:"last_name" binding:"omitempty,min=1"`
	Phone                *string                `json:"phone"`
	FavoriteMatchaPowder *string                `json:"favorite_matcha_powder"`
	FavoriteMatchaPlace  *string                `json:"favorite_matcha_place"`
	MatchaBudget         *float64               `json:"matcha_budget" binding:"omitempty,gte=0"`
	JoinDate             *string                `json:"join_date" binding:"omitempty,date"`
	MatchaSessions       *[]MatchaSessionCreate `json:"matcha_sessions" binding:"omitempty,dive"`
}

type UserRead struct {
	ID                   uuid.UUID           `json:"id"`
	Username             string              `json:"username"`
	Email                string              `json:"email"`
	FirstName            string              `json:"first_name"`
	LastName             string              `json:"last_name"`
	Phone                *string             `json:"phone"`
	FavoriteMatchaPowder *string             `json:"favorite_matcha_powder"`
	FavoriteMatchaPlace  *string             `json:"favorite_matcha_place"`
	MatchaBudget         *float64            `json:"matcha_budget"`
	JoinDate             *models.Date        `json:"join_date"`
	MatchaSessions       []MatchaSessionRead `json:"matcha_sessions"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// UserFilter is bound from the query string of GET /users.
type UserFilter struct {
	Username             *string `form:"username"`
	FirstName            *string `form:"first_name"`
	LastName             *string `form:"last_name"`
	Email                *string `form:"email"`
	Phone                *string `form:"phone"`
	FavoriteMatchaPowder *string `form:"favorite_matcha_powder"`
	FavoriteMatchaPlace  *string `form:"favorite_matcha_place"`
	MinBudget            *string `form:"min_budget"`
	MaxBudget            *string `form:"max_budget"`
	JoinDate             *string `form:"join_date"`
}

func (r UserCreate) Model() models.User {
	return models.User{
		Username:             r.Username,
		Email:                r.Email,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Phone:                r.Phone,
		FavoriteMatchaPowder: r.FavoriteMatchaPowder,
		FavoriteMatchaPlace:  r.FavoriteMatchaPlace,
		MatchaBudget:         r.MatchaBudget,
		JoinDate:             toDate(r.JoinDate),
		MatchaSessions:       sessionModels(r.MatchaSessions),
	}
}

func (r UserUpdate) Patch() database.UserPatch {
	p := database.UserPatch{
		Username:             r.Username,
		Email:                r.Email,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Phone:                r.Phone,
		FavoriteMatchaPowder: r.FavoriteMatchaPowder,
		FavoriteMatchaPlace:  r.FavoriteMatchaPlace,
		MatchaBudget:         r.MatchaBudget,
		JoinDate:             toDate(r.JoinDate),
	}
	if r.MatchaSessions != nil {
		sessions := sessionModels(*r.MatchaSessions)
		p.Sessions = &sessions
	}
	return p
}

func (f UserFilter) Filter() (database.UserFilter, []FieldError) {
	var errs []FieldError
	out := database.UserFilter{
		Username:             f.Username,
		FirstName:            f.FirstName,
		LastName:             f.LastName,
		Email:                f.Email,
		Phone:                f.Phone,
		FavoriteMatchaPowder: f.FavoriteMatchaPowder,
		FavoriteMatchaPlace:  f.FavoriteMatchaPlace,
		MinBudget:            parseNumber("min_budget", f.MinBudget, &errs),
		MaxBudget:            parseNumber("max_budget", f.MaxBudget, &errs),
		JoinDate:             parseDate("join_date", f.JoinDate, &errs),
	}
	return out, errs
}

func NewUserRead(u models.User) UserRead {
	return UserRead{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Phone:                u.Phone,
		FavoriteMatchaPowder: u.FavoriteMatchaPowder,
		FavoriteMatchaPlace:  u.FavoriteMatchaPlace,
		MatchaBudget:         u.MatchaBudget,
		JoinDate:             u.JoinDate,
		MatchaSessions:       NewMatchaSessionReads(u.MatchaSessions),
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func sessionModels(in []MatchaSessionCreate) []models.MatchaSession {
	out := make([]models.MatchaSession, 0, len(in))
	for _, s := range in {
		out = append(out, s.Model())
	}
	return out
}
