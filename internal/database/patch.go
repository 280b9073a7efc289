package database

import (
	"time"

	"github.com/thereayou/matcha-tracker/internal/models"
)

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Username             *string
	Email                *string
	FirstName            *string
	LastName             *string
	Phone                *string
	FavoriteMatchaPowder *string
	FavoriteMatchaPlace  *string
	MatchaBudget         *float64
	JoinDate             *models.Date

	// Sessions is not merged: when non-nil it replaces the user's whole
	// session collection.
	Sessions *[]models.MatchaSession
}

type SessionPatch struct {
	SessionDate *models.Date
	Location    *string
	MatchaType  *string
	Brand       *string
	Rating      *float64
	Notes       *string
}

func (p UserPatch) columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	setString(cols, "username", p.Username)
	setString(cols, "email", p.Email)
	setString(cols, "first_name", p.FirstName)
	setString(cols, "last_name", p.LastName)
	setString(cols, "phone", p.Phone)
	setString(cols, "favorite_matcha_powder", p.FavoriteMatchaPowder)
	setString(cols, "favorite_matcha_place", p.FavoriteMatchaPlace)
	if p.MatchaBudget != nil {
		cols["matcha_budget"] = *p.MatchaBudget
	}
	if p.JoinDate != nil {
		cols["join_date"] = *p.JoinDate
	}
	return cols
}

// Apply copies the supplied scalar fields onto u and stamps UpdatedAt.
// Sessions are not touched.
func (p UserPatch) Apply(u *models.User, now time.Time) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = copyString(p.Phone)
	}
	if p.FavoriteMatchaPowder != nil {
		u.FavoriteMatchaPowder = copyString(p.FavoriteMatchaPowder)
	}
	if p.FavoriteMatchaPlace != nil {
		u.FavoriteMatchaPlace = copyString(p.FavoriteMatchaPlace)
	}
	if p.MatchaBudget != nil {
		v := *p.MatchaBudget
		u.MatchaBudget = &v
	}
	if p.JoinDate != nil {
		v := *p.JoinDate
		u.JoinDate = &v
	}
	u.UpdatedAt = now
}

func (p SessionPatch) columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	if p.SessionDate != nil {
		cols["session_date"] = *p.SessionDate
	}
	setString(cols, "location", p.Location)
	setString(cols, "matcha_type", p.MatchaType)
	setString(cols, "brand", p.Brand)
	if p.Rating != nil {
		cols["rating"] = *p.Rating
	}
	setString(cols, "notes", p.Notes)
	return cols
}

func (p SessionPatch) Apply(s *models.MatchaSession, now time.Time) {
	if p.SessionDate != nil {
		s.SessionDate = *p.SessionDate
	}
	if p.Location != nil {
		s.Location = *p.Location
	}
	if p.MatchaType != nil {
		s.MatchaType = *p.MatchaType
	}
	if p.Brand != nil {
		s.Brand = copyString(p.Brand)
	}
	if p.Rating != nil {
		v := *p.Rating
		s.Rating = &v
	}
	if p.Notes != nil {
		s.Notes = copyString(p.Notes)
	}
	s.UpdatedAt = now
}

func setString(cols map[string]interface{}, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}

func copyString(v *string) *string {
	s := *v
	return &s
}
