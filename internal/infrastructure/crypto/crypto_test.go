package crypto

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository/mocks"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

func newTestRealm(t *testing.T) *models.Realm {
	t.Helper()
	realm, err := models.NewRealm("tenants")
	require.NoError(t, err)
	return realm
}

func newProvisioningKeyManager(t *testing.T) (*KeyManager, *mocks.MockKeyRepository) {
	t.Helper()

	keyRepo := new(mocks.MockKeyRepository)
	keyRepo.On("FindByRealmID", mock.Anything, mock.Anything).
		Return(nil, errors.ErrSigningKeyNotFound("test"))
	keyRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	return NewKeyManager(keyRepo, nil, service.NoopMetrics{}, logger.NewNoopLogger()), keyRepo
}

func TestKeyManager_ProvisionsOnFirstUse(t *testing.T) {
	manager, keyRepo := newProvisioningKeyManager(t)
	realm := newTestRealm(t)
	ctx := context.Background()

	key, err := manager.RealmKey(ctx, realm)
	require.NoError(t, err)
	assert.Equal(t, realm.ID, key.RealmID)
	assert.Equal(t, string(constants.AlgorithmRS256), key.Algorithm)
	require.NotNil(t, key.PrivateKey)
	require.NotNil(t, key.PublicKey)
	assert.Contains(t, key.PrivateKeyPEM, "RSA PRIVATE KEY")
	assert.Contains(t, key.PublicKeyPEM, "PUBLIC KEY")

	keyRepo.AssertNumberOfCalls(t, "Save", 1)

	// The second call is served from cache.
	again, err := manager.RealmKey(ctx, realm)
	require.NoError(t, err)
	assert.Equal(t, key.ID, again.ID)
	keyRepo.AssertNumberOfCalls(t, "FindByRealmID", 1)
}

func TestKeyManager_ParsesStoredKey(t *testing.T) {
	realm := newTestRealm(t)
	ctx := context.Background()

	// Provision once to obtain valid PEM material.
	seeder, _ := newProvisioningKeyManager(t)
	generated, err := seeder.RealmKey(ctx, realm)
	require.NoError(t, err)

	stored := &models.RealmKey{
		ID:            generated.ID,
		RealmID:       realm.ID,
		Algorithm:     generated.Algorithm,
		PrivateKeyPEM: generated.PrivateKeyPEM,
		PublicKeyPEM:  generated.PublicKeyPEM,
	}

	keyRepo := new(mocks.MockKeyRepository)
	keyRepo.On("FindByRealmID", mock.Anything, realm.ID).Return(stored, nil)

	manager := NewKeyManager(keyRepo, nil, service.NoopMetrics{}, logger.NewNoopLogger())
	key, err := manager.RealmKey(ctx, realm)
	require.NoError(t, err)
	require.NotNil(t, key.PrivateKey)
	require.NotNil(t, key.PublicKey)
	assert.Equal(t, generated.ID, key.ID)
	keyRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestKeyManager_LosingRaceReReadsWinner(t *testing.T) {
	realm := newTestRealm(t)
	ctx := context.Background()

	seeder, _ := newProvisioningKeyManager(t)
	winner, err := seeder.RealmKey(ctx, realm)
	require.NoError(t, err)

	keyRepo := new(mocks.MockKeyRepository)
	keyRepo.On("FindByRealmID", mock.Anything, realm.ID).
		Return(nil, errors.ErrSigningKeyNotFound(realm.ID.String())).Once()
	keyRepo.On("Save", mock.Anything, mock.Anything).
		Return(errors.ErrServerError("duplicate key"))
	keyRepo.On("FindByRealmID", mock.Anything, realm.ID).Return(&models.RealmKey{
		ID:            winner.ID,
		RealmID:       realm.ID,
		Algorithm:     winner.Algorithm,
		PrivateKeyPEM: winner.PrivateKeyPEM,
		PublicKeyPEM:  winner.PublicKeyPEM,
	}, nil)

	manager := NewKeyManager(keyRepo, nil, service.NoopMetrics{}, logger.NewNoopLogger())
	key, err := manager.RealmKey(ctx, realm)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, key.ID)
}

func TestJwtManager_SignAndVerifyRoundTrip(t *testing.T) {
	manager, _ := newProvisioningKeyManager(t)
	jwts := NewJwtManager(manager, logger.NewNoopLogger())
	realm := newTestRealm(t)
	ctx := context.Background()

	userID := uuid.New()
	email := "alice@example.com"
	claims := models.NewBearerClaim(userID, "alice", "https://idp.example.com/realms/tenants",
		[]string{realm.Audience(), constants.AccountAudience}, "web-app", &email)

	signed, err := jwts.SignClaims(ctx, realm, claims)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.Token)
	assert.Equal(t, *claims.Exp, signed.ExpiresAt)

	verified, err := jwts.VerifyToken(ctx, realm, signed.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, verified.Sub)
	assert.Equal(t, constants.TokenTypeBearer, verified.Typ)
	assert.Equal(t, "web-app", verified.Azp)
	assert.Contains(t, verified.Aud, "tenants-realm")
	assert.Contains(t, verified.Aud, constants.AccountAudience)
}

func TestJwtManager_RejectsForeignRealmSignature(t *testing.T) {
	ctx := context.Background()

	managerA, _ := newProvisioningKeyManager(t)
	jwtsA := NewJwtManager(managerA, logger.NewNoopLogger())
	realmA := newTestRealm(t)

	managerB, _ := newProvisioningKeyManager(t)
	jwtsB := NewJwtManager(managerB, logger.NewNoopLogger())
	realmB, err := models.NewRealm("other")
	require.NoError(t, err)

	claims := models.NewBearerClaim(uuid.New(), "alice", "https://idp.example.com/realms/tenants",
		[]string{realmA.Audience()}, "web-app", nil)
	signed, err := jwtsA.SignClaims(ctx, realmA, claims)
	require.NoError(t, err)

	_, err = jwtsB.VerifyToken(ctx, realmB, signed.Token)
	require.Error(t, err)
	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidGrant, authErr.Code())
}

func TestJwtManager_RejectsExpiredToken(t *testing.T) {
	manager, _ := newProvisioningKeyManager(t)
	jwts := NewJwtManager(manager, logger.NewNoopLogger())
	realm := newTestRealm(t)
	ctx := context.Background()

	exp := time.Now().UTC().Add(-time.Minute).Unix()
	claims := models.NewBearerClaim(uuid.New(), "alice", "https://idp.example.com/realms/tenants",
		[]string{realm.Audience()}, "web-app", nil)
	claims.Exp = &exp

	signed, err := jwts.SignClaims(ctx, realm, claims)
	require.NoError(t, err)

	_, err = jwts.VerifyToken(ctx, realm, signed.Token)
	require.Error(t, err)
	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeExpiredToken, authErr.Code())
}

func TestJwtManager_RealmJwks(t *testing.T) {
	manager, _ := newProvisioningKeyManager(t)
	jwts := NewJwtManager(manager, logger.NewNoopLogger())
	realm := newTestRealm(t)
	ctx := context.Background()

	jwks, err := jwts.RealmJwks(ctx, realm)
	require.NoError(t, err)
	require.Len(t, jwks, 1)

	key, err := manager.RealmKey(ctx, realm)
	require.NoError(t, err)

	assert.Equal(t, key.ID.String(), jwks[0].Kid)
	assert.Equal(t, "RSA", jwks[0].Kty)
	assert.Equal(t, "sig", jwks[0].Use)
	assert.Equal(t, string(constants.AlgorithmRS256), jwks[0].Alg)
	assert.NotEmpty(t, jwks[0].N)
	assert.NotEmpty(t, jwks[0].E)
}

func TestArgon2Hasher_HashAndVerify(t *testing.T) {
	hasher := NewArgon2Hasher()
	ctx := context.Background()

	hash, salt, err := hasher.Hash(ctx, "correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, salt)

	ok, err := hasher.Verify(ctx, "correct horse battery staple", hash, salt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify(ctx, "wrong password", hash, salt)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2Hasher_SaltsDiffer(t *testing.T) {
	hasher := NewArgon2Hasher()
	ctx := context.Background()

	hash1, salt1, err := hasher.Hash(ctx, "secret")
	require.NoError(t, err)
	hash2, salt2, err := hasher.Hash(ctx, "secret")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestArgon2Hasher_MalformedStoredValues(t *testing.T) {
	hasher := NewArgon2Hasher()
	ctx := context.Background()

	ok, err := hasher.Verify(ctx, "secret", "%%%not-base64%%%", "c2FsdA")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Verify(ctx, "secret", "c2FsdA", "%%%not-base64%%%")
	require.NoError(t, err)
	assert.False(t, ok)
}
