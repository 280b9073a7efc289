package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thereayou/matcha-tracker/internal/database"
	"github.com/thereayou/matcha-tracker/internal/models"
)

// tickingClock advances one second on every call.
func tickingClock() func() time.Time {
	t := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func session(location string) models.MatchaSession {
	return models.MatchaSession{
		SessionDate: models.NewDate(2024, time.May, 1),
		Location:    location,
		MatchaType:  models.CeremonialGrade,
	}
}

func TestCreateUser_Uniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "aiko", Email: "a@example.com"}))

	err := s.CreateUser(ctx, &models.User{Username: "aiko", Email: "b@example.com"})
	assert.ErrorIs(t, err, database.ErrConflict)

	err = s.CreateUser(ctx, &models.User{Username: "kenji", Email: "a@example.com"})
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestUpdateUser_PartialAndTimestamps(t *testing.T) {
	s := New(WithClock(tickingClock()))
	ctx := context.Background()

	u := &models.User{
		Username:       "aiko",
		Email:          "a@example.com",
		FirstName:      "Aiko",
		LastName:       "Tanaka",
		MatchaSessions: []models.MatchaSession{session("Kyoto")},
	}
	require.NoError(t, s.CreateUser(ctx, u))

	first := "X"
	updated, err := s.UpdateUser(ctx, u.ID, database.UserPatch{FirstName: &first})
	require.NoError(t, err)

	assert.Equal(t, "X", updated.FirstName)
	assert.Equal(t, "Tanaka", updated.LastName)
	assert.Equal(t, u.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(u.UpdatedAt))
	require.Len(t, updated.MatchaSessions, 1)
	assert.Equal(t, u.MatchaSessions[0].ID, updated.MatchaSessions[0].ID)
}

func TestUpdateUser_OwnUsernameIsNotAConflict(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := &models.User{Username: "aiko", Email: "a@example.com"}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "kenji", Email: "k@example.com"}))

	same := "aiko"
	_, err := s.UpdateUser(ctx, u.ID, database.UserPatch{Username: &same})
	assert.NoError(t, err)

	taken := "kenji"
	_, err = s.UpdateUser(ctx, u.ID, database.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestUpdateUser_ReplacesSessions(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := &models.User{
		Username:       "aiko",
		Email:          "a@example.com",
		MatchaSessions: []models.MatchaSession{session("Kyoto"), session("Uji")},
	}
	require.NoError(t, s.CreateUser(ctx, u))
	old := u.MatchaSessions[0].ID

	replacement := []models.MatchaSession{session("Tokyo")}
	updated, err := s.UpdateUser(ctx, u.ID, database.UserPatch{Sessions: &replacement})
	require.NoError(t, err)
	require.Len(t, updated.MatchaSessions, 1)
	assert.Equal(t, "Tokyo", updated.MatchaSessions[0].Location)
	assert.Equal(t, u.ID, *updated.MatchaSessions[0].UserID)

	_, err = s.GetMatchaSession(ctx, old)
	assert.ErrorIs(t, err, database.ErrNotFound)

	empty := []models.MatchaSession{}
	_, err = s.UpdateUser(ctx, uuid.New(), database.UserPatch{Sessions: &empty})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdateUser_SessionConflictKeepsPreviousSet(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := &models.User{Username: "aiko", Email: "a@example.com", MatchaSessions: []models.MatchaSession{session("Kyoto")}}
	require.NoError(t, s.CreateUser(ctx, u))

	standalone := session("Osaka")
	require.NoError(t, s.CreateMatchaSession(ctx, &standalone))

	clash := session("Tokyo")
	clash.ID = standalone.ID
	replacement := []models.MatchaSession{clash}
	_, err := s.UpdateUser(ctx, u.ID, database.UserPatch{Sessions: &replacement})
	assert.ErrorIs(t, err, database.ErrConflict)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.MatchaSessions, 1)
	assert.Equal(t, "Kyoto", got.MatchaSessions[0].Location)
}

func TestDeleteUser_Cascades(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := &models.User{Username: "aiko", Email: "a@example.com", MatchaSessions: []models.MatchaSession{session("Kyoto")}}
	require.NoError(t, s.CreateUser(ctx, u))
	owned := u.MatchaSessions[0].ID

	standalone := session("Osaka")
	require.NoError(t, s.CreateMatchaSession(ctx, &standalone))

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), database.ErrNotFound)

	_, err := s.GetMatchaSession(ctx, owned)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = s.GetMatchaSession(ctx, standalone.ID)
	assert.NoError(t, err)
}

func TestListMatchaSessions_RatingRange(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, r := range []*float64{nil, ptr(3.9), ptr(4.0), ptr(4.5), ptr(5.0)} {
		ms := session("Kyoto")
		ms.Rating = r
		require.NoError(t, s.CreateMatchaSession(ctx, &ms))
	}

	got, err := s.ListMatchaSessions(ctx, database.SessionFilter{MinRating: ptr(4.0), MaxRating: ptr(5.0)})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for _, ms := range got {
		require.NotNil(t, ms.Rating)
		assert.GreaterOrEqual(t, *ms.Rating, 4.0)
	}
}

func TestCreateMatchaSession_ClientID(t *testing.T) {
	s := New()
	ctx := context.Background()
	ms := session("Kyoto")
	ms.ID = uuid.New()
	require.NoError(t, s.CreateMatchaSession(ctx, &ms))

	again := session("Uji")
	again.ID = ms.ID
	assert.ErrorIs(t, s.CreateMatchaSession(ctx, &again), database.ErrConflict)
}

func ptr(v float64) *float64 {
	return &v
}

func TestDefaultClock_MicrosecondPrecision(t *testing.T) {
	s := New()
	u := &models.User{Username: "aiko", Email: "a@example.com"}
	require.NoError(t, s.CreateUser(context.Background(), u))

	assert.Zero(t, u.CreatedAt.Nanosecond()%int(time.Microsecond))
	assert.Equal(t, time.UTC, u.CreatedAt.Location())
}
