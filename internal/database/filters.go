package database

import (
	"gorm.io/gorm"

	"github.com/thereayou/matcha-tracker/internal/models"
)

// UserFilter holds optional list predicates. Nil fields impose no
// constraint; the rest are combined with AND.
type UserFilter struct {
	Username             *string
	FirstName            *string
	LastName             *string
	Email                *string
	Phone                *string
	FavoriteMatchaPowder *string
	FavoriteMatchaPlace  *string
	MinBudget            *float64
	MaxBudget            *float64
	JoinDate             *models.Date
}

type SessionFilter struct {
	SessionDate *models.Date
	Location    *string
	MatchaType  *string
	Brand       *string
	MinRating   *float64
	MaxRating   *float64
}

func (f UserFilter) apply(q *gorm.DB) *gorm.DB {
	q = whereEq(q, "username", f.Username)
	q = whereEq(q, "first_name", f.FirstName)
	q = whereEq(q, "last_name", f.LastName)
	q = whereEq(q, "email", f.Email)
	q = whereEq(q, "phone", f.Phone)
	q = whereEq(q, "favorite_matcha_powder", f.FavoriteMatchaPowder)
	q = whereEq(q, "favorite_matcha_place", f.FavoriteMatchaPlace)
	if f.MinBudget != nil {
		q = q.Where("matcha_budget >= ?", *f.MinBudget)
	}
	if f.MaxBudget != nil {
		q = q.Where("matcha_budget <= ?", *f.MaxBudget)
	}
	if f.JoinDate != nil {
		q = q.Where("join_date = ?", *f.JoinDate)
	}
	return q
}

// Match reports whether u satisfies every predicate of the filter.
func (f UserFilter) Match(u *models.User) bool {
	return eq(f.Username, u.Username) &&
		eq(f.FirstName, u.FirstName) &&
		eq(f.LastName, u.LastName) &&
		eq(f.Email, u.Email) &&
		eqPtr(f.Phone, u.Phone) &&
		eqPtr(f.FavoriteMatchaPowder, u.FavoriteMatchaPowder) &&
		eqPtr(f.FavoriteMatchaPlace, u.FavoriteMatchaPlace) &&
		inRange(u.MatchaBudget, f.MinBudget, f.MaxBudget) &&
		(f.JoinDate == nil || (u.JoinDate != nil && u.JoinDate.Equal(*f.JoinDate)))
}

func (f SessionFilter) apply(q *gorm.DB) *gorm.DB {
	if f.SessionDate != nil {
		q = q.Where("session_date = ?", *f.SessionDate)
	}
	q = whereEq(q, "location", f.Location)
	q = whereEq(q, "matcha_type", f.MatchaType)
	q = whereEq(q, "brand", f.Brand)
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		q = q.Where("rating <= ?", *f.MaxRating)
	}
	return q
}

func (f SessionFilter) Match(s *models.MatchaSession) bool {
	return (f.SessionDate == nil || s.SessionDate.Equal(*f.SessionDate)) &&
		eq(f.Location, s.Location) &&
		eq(f.MatchaType, s.MatchaType) &&
		eqPtr(f.Brand, s.Brand) &&
		inRange(s.Rating, f.MinRating, f.MaxRating)
}

func whereEq(q *gorm.DB, column string, v *string) *gorm.DB {
	if v == nil {
		return q
	}
	return q.Where(column+" = ?", *v)
}

func eq(want *string, got string) bool {
	return want == nil || *want == got
}

func eqPtr(want *string, got *string) bool {
	return want == nil || (got != nil && *want == *got)
}

// inRange mirrors SQL comparison semantics: a NULL value never satisfies a
// bound.
func inRange(v *float64, min *float64, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}
