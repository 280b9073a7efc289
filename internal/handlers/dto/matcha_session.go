package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/matcha-tracker/internal/database"
	"github.com/thereayou/matcha-tracker/internal/models"
)

// MatchaSessionCreate is the body of POST /matcha-sessions and the element
// type of matcha_sessions on user payloads.
type MatchaSessionCreate struct {
	ID          *string  `json:"id" binding:"omitempty,uuid"`
	SessionDate *string  `json:"session_date" binding:"required,date"`
	Location    string   `json:"location" binding:"required"`
	MatchaType  string   `json:"matcha_type" binding:"required,matcha_type"`
	Brand       *string  `json:"brand"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Notes       *string  `json:"notes"`
}

type MatchaSessionUpdate struct {
	SessionDate *string  `json:"session_date" binding:"omitempty,date"`
	Location    *string  `json:"location" binding:"omitempty,min=1"`
	MatchaType  *string  `json:"matcha_type" binding:"omitempty,matcha_type"`
	Brand       *string  `json:"brand"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	Notes       *string  `json:"notes"`
}

type MatchaSessionRead struct {
	ID          uuid.UUID   `json:"id"`
	UserID      *uuid.UUID  `json:"user_id"`
	SessionDate models.Date `json:"session_date"`
	Location    string      `json:"location"`
	MatchaType  string      `json:"matcha_type"`
	Brand       *string     `json:"brand"`
	Rating      *float64    `json:"rating"`
	Notes       *string     `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// MatchaSessionFilter is bound from the query string of GET /matcha-sessions.
// Dates and bounds stay raw so each bad parameter is reported on its own.
type MatchaSessionFilter struct {
	SessionDate *string `form:"session_date"`
	Location    *string `form:"location"`
	MatchaType  *string `form:"matcha_type"`
	Brand       *string `form:"brand"`
	MinRating   *string `form:"min_rating"`
	MaxRating   *string `form:"max_rating"`
}

func (r MatchaSessionCreate) Model() models.MatchaSession {
	s := models.MatchaSession{
		Location:   r.Location,
		MatchaType: r.MatchaType,
		Brand:      r.Brand,
		Rating:     r.Rating,
		Notes:      r.Notes,
	}
	// both fields have already passed the uuid and date rules
	if r.ID != nil {
		s.ID, _ = uuid.Parse(*r.ID)
	}
	if d := toDate(r.SessionDate); d != nil {
		s.SessionDate = *d
	}
	return s
}

func (r MatchaSessionUpdate) Patch() database.SessionPatch {
	return database.SessionPatch{
		SessionDate: toDate(r.SessionDate),
		Location:    r.Location,
		MatchaType:  r.MatchaType,
		Brand:       r.Brand,
		Rating:      r.Rating,
		Notes:       r.Notes,
	}
}

func (f MatchaSessionFilter) Filter() (database.SessionFilter, []FieldError) {
	var errs []FieldError
	out := database.SessionFilter{
		SessionDate: parseDate("session_date", f.SessionDate, &errs),
		Location:    f.Location,
		MatchaType:  f.MatchaType,
		Brand:       f.Brand,
		MinRating:   parseNumber("min_rating", f.MinRating, &errs),
		MaxRating:   parseNumber("max_rating", f.MaxRating, &errs),
	}
	return out, errs
}

func NewMatchaSessionRead(s models.MatchaSession) MatchaSessionRead {
	return MatchaSessionRead{
		ID:          s.ID,
		UserID:      s.UserID,
		SessionDate: s.SessionDate,
		Location:    s.Location,
		MatchaType:  s.MatchaType,
		Brand:       s.Brand,
		Rating:      s.Rating,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewMatchaSessionReads(sessions []models.MatchaSession) []MatchaSessionRead {
	out := make([]MatchaSessionRead, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewMatchaSessionRead(s))
	}
	return out
}

func toDate(s *string) *models.Date {
	if s == nil {
		return nil
	}
	d, err := models.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}
