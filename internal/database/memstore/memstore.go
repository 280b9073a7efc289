// Package memstore keeps users and sessions in process memory. It honours
// the same contract as the SQL store (uniqueness, cascades, filters and
// timestamps) and is meant for tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thereayou/matcha-tracker/internal/database"
	"github.com/thereayou/matcha-tracker/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	users    map[uuid.UUID]models.User
	sessions map[uuid.UUID]models.MatchaSession
}

type Option func(*Store)

// WithClock replaces the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		now:      database.Now,
		users:    make(map[uuid.UUID]models.User),
		sessions: make(map[uuid.UUID]models.MatchaSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, ok := s.users[user.ID]; ok {
		return database.ErrConflict
	}
	if s.userTaken(&user.Username, &user.Email, uuid.Nil) {
		return database.ErrConflict
	}

	now := s.now()
	sessions, err := s.prepareSessions(user.ID, user.MatchaSessions, now)
	if err != nil {
		return err
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	user.MatchaSessions = sessions
	stored := *user
	stored.MatchaSessions = nil
	s.users[user.ID] = stored
	s.storeSessions(sessions)
	return nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	u.MatchaSessions = s.sessionsOf(id)
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context, filter database.UserFilter) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.User{}
	for _, u := range s.users {
		if !filter.Match(&u) {
			continue
		}
		u.MatchaSessions = s.sessionsOf(u.ID)
		out = append(out, u)
	}
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, id uuid.UUID, patch database.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if s.userTaken(patch.Username, patch.Email, id) {
		return nil, database.ErrConflict
	}

	now := s.now()
	if patch.Sessions != nil {
		if err := s.replaceSessions(id, *patch.Sessions, now); err != nil {
			return nil, err
		}
	}
	patch.Apply(&u, now)
	s.users[id] = u

	u.MatchaSessions = s.sessionsOf(id)
	return &u, nil
}

func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return database.ErrNotFound
	}
	s.dropSessionsOf(id)
	delete(s.users, id)
	return nil
}

func (s *Store) CreateMatchaSession(_ context.Context, session *models.MatchaSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	} else if _, ok := s.sessions[session.ID]; ok {
		return database.ErrConflict
	}
	now := s.now()
	session.CreatedAt = now
	session.UpdatedAt = now
	s.sessions[session.ID] = *session
	return nil
}

func (s *Store) GetMatchaSession(_ context.Context, id uuid.UUID) (*models.MatchaSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ms, ok := s.sessions[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &ms, nil
}

func (s *Store) ListMatchaSessions(_ context.Context, filter database.SessionFilter) ([]models.MatchaSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.MatchaSession{}
	for _, ms := range s.sessions {
		if filter.Match(&ms) {
			out = append(out, ms)
		}
	}
	return out, nil
}

func (s *Store) UpdateMatchaSession(_ context.Context, id uuid.UUID, patch database.SessionPatch) (*models.MatchaSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, ok := s.sessions[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	patch.Apply(&ms, s.now())
	s.sessions[id] = ms
	return &ms, nil
}

func (s *Store) DeleteMatchaSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// userTaken must be called with the lock held.
func (s *Store) userTaken(username, email *string, exclude uuid.UUID) bool {
	for id, u := range s.users {
		if id == exclude {
			continue
		}
		if username != nil && u.Username == *username {
			return true
		}
		if email != nil && u.Email == *email {
			return true
		}
	}
	return false
}

func (s *Store) replaceSessions(userID uuid.UUID, sessions []models.MatchaSession, now time.Time) error {
	previous := s.sessionsOf(userID)
	s.dropSessionsOf(userID)

	prepared, err := s.prepareSessions(userID, sessions, now)
	if err != nil {
		s.storeSessions(previous)
		return err
	}
	s.storeSessions(prepared)
	return nil
}

// prepareSessions validates ids and stamps the batch without storing it.
func (s *Store) prepareSessions(userID uuid.UUID, sessions []models.MatchaSession, now time.Time) ([]models.MatchaSession, error) {
	out := make([]models.MatchaSession, 0, len(sessions))
	seen := make(map[uuid.UUID]struct{}, len(sessions))
	for _, ms := range sessions {
		if ms.ID == uuid.Nil {
			ms.ID = uuid.New()
		}
		if _, ok := s.sessions[ms.ID]; ok {
			return nil, database.ErrConflict
		}
		if _, dup := seen[ms.ID]; dup {
			return nil, database.ErrConflict
		}
		seen[ms.ID] = struct{}{}

		owner := userID
		ms.UserID = &owner
		ms.CreatedAt = now
		ms.UpdatedAt = now
		out = append(out, ms)
	}
	return out, nil
}

func (s *Store) storeSessions(sessions []models.MatchaSession) {
	for _, ms := range sessions {
		s.sessions[ms.ID] = ms
	}
}

func (s *Store) sessionsOf(userID uuid.UUID) []models.MatchaSession {
	out := []models.MatchaSession{}
	for _, ms := range s.sessions {
		if ms.UserID != nil && *ms.UserID == userID {
			out = append(out, ms)
		}
	}
	return out
}

func (s *Store) dropSessionsOf(userID uuid.UUID) {
	for id, ms := range s.sessions {
		if ms.UserID != nil && *ms.UserID == userID {
			delete(s.sessions, id)
		}
	}
}
