package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/thereayou/matcha-tracker/internal/database"
	"github.com/thereayou/matcha-tracker/internal/models"
)

// UserStore is the user half of the data-access layer. Implementations
// return database.ErrNotFound and database.ErrConflict (possibly wrapped).
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, filter database.UserFilter) ([]models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, patch database.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type SessionStore interface {
	CreateMatchaSession(ctx context.Context, session *models.MatchaSession) error
	GetMatchaSession(ctx context.Context, id uuid.UUID) (*models.MatchaSession, error)
	ListMatchaSessions(ctx context.Context, filter database.SessionFilter) ([]models.MatchaSession, error)
	UpdateMatchaSession(ctx context.Context, id uuid.UUID, patch database.SessionPatch) (*models.MatchaSession, error)
	DeleteMatchaSession(ctx context.Context, id uuid.UUID) error
}

var (
	_ UserStore    = (*database.Database)(nil)
	_ SessionStore = (*database.Database)(nil)
)
