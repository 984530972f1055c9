package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

func newTestStore(t *testing.T) (*AuthSessionStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &AuthSessionStore{client: client, logger: logger.NewNoopLogger()}, s
}

func newTestSession(t *testing.T) *models.AuthSession {
	t.Helper()

	state := "xyz-state"
	session, err := models.NewAuthSession(models.AuthSessionParams{
		RealmID:      uuid.New(),
		ClientID:     uuid.New(),
		RedirectUri:  "https://app.example.com/callback",
		ResponseType: "code",
		Scope:        "openid profile",
		State:        &state,
	})
	require.NoError(t, err)
	return session
}

func assertSessionErrCode(t *testing.T, err error, code constants.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, code, authErr.Code())
}

func TestAuthSessionStore_CreateAndFindByID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := newTestSession(t)
	require.NoError(t, store.Create(ctx, session))

	found, err := store.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)
	assert.Equal(t, "https://app.example.com/callback", found.RedirectUri)
	assert.False(t, found.IsAuthenticated())
}

func TestAuthSessionStore_FindByID_Unknown(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.FindByID(context.Background(), uuid.New())
	assertSessionErrCode(t, err, constants.ErrCodeSessionNotFound)
}

func TestAuthSessionStore_SessionExpiresWithTTL(t *testing.T) {
	store, s := newTestStore(t)
	ctx := context.Background()

	session := newTestSession(t)
	require.NoError(t, store.Create(ctx, session))

	s.FastForward(constants.AuthSessionTTL + 1)

	_, err := store.FindByID(ctx, session.ID)
	assertSessionErrCode(t, err, constants.ErrCodeSessionNotFound)
}

func TestAuthSessionStore_BindCodeAndUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := newTestSession(t)
	require.NoError(t, store.Create(ctx, session))

	userID := uuid.New()
	code := uuid.New().String()

	bound, err := store.BindCodeAndUser(ctx, session.ID, code, userID)
	require.NoError(t, err)
	assert.True(t, bound.IsAuthenticated())
	require.NotNil(t, bound.Code)
	assert.Equal(t, code, *bound.Code)

	byCode, err := store.FindByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, session.ID, byCode.ID)
	require.NotNil(t, byCode.UserID)
	assert.Equal(t, userID, *byCode.UserID)
}

func TestAuthSessionStore_BindCodeAndUser_AtMostOnce(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := newTestSession(t)
	require.NoError(t, store.Create(ctx, session))

	_, err := store.BindCodeAndUser(ctx, session.ID, uuid.New().String(), uuid.New())
	require.NoError(t, err)

	_, err = store.BindCodeAndUser(ctx, session.ID, uuid.New().String(), uuid.New())
	assertSessionErrCode(t, err, constants.ErrCodeInvalidGrant)
}

func TestAuthSessionStore_Delete_RemovesCodeIndex(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := newTestSession(t)
	require.NoError(t, store.Create(ctx, session))

	code := uuid.New().String()
	_, err := store.BindCodeAndUser(ctx, session.ID, code, uuid.New())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, session.ID))

	_, err = store.FindByID(ctx, session.ID)
	assertSessionErrCode(t, err, constants.ErrCodeSessionNotFound)

	// The redeemed code can never resolve again.
	_, err = store.FindByCode(ctx, code)
	assertSessionErrCode(t, err, constants.ErrCodeSessionNotFound)
}

func TestAuthSessionStore_Delete_UnknownIsNoop(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Delete(context.Background(), uuid.New()))
}
