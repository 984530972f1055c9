package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	repomocks "github.com/rbenna1/ferriskey-sub000/internal/domain/repository/mocks"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	svcmocks "github.com/rbenna1/ferriskey-sub000/internal/domain/service/mocks"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

func grantRealm(t *testing.T) *models.Realm {
	t.Helper()
	realm, err := models.NewRealm("tenants")
	require.NoError(t, err)
	return realm
}

func grantClient(t *testing.T, realmID uuid.UUID, configure func(*models.ClientConfig)) *models.Client {
	t.Helper()
	secret := "s3cret"
	config := models.ClientConfig{
		RealmID:  realmID,
		ClientID: "web-app",
		Name:     "Web App",
		Secret:   &secret,
		Enabled:  true,
		Protocol: "openid-connect",
	}
	if configure != nil {
		configure(&config)
	}
	client, err := models.NewClient(config)
	require.NoError(t, err)
	return client
}

func TestGrantDispatcher_UnsupportedGrantType(t *testing.T) {
	dispatcher := service.NewGrantDispatcher(nil, nil, nil, nil)

	_, err := dispatcher.Dispatch(context.Background(), constants.GrantType("implicit"), service.GrantParams{})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeUnsupportedGrantType, authErr.Code())
}

func TestAuthorizationCodeGrant_Authenticate(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, nil)
	user := &models.User{ID: uuid.New(), RealmID: realm.ID, Username: "alice", Enabled: true}

	session, err := models.NewAuthSession(models.AuthSessionParams{
		RealmID:      realm.ID,
		ClientID:     client.ID,
		RedirectUri:  "https://app.example.com/callback",
		ResponseType: "code",
		Scope:        "openid",
	})
	require.NoError(t, err)
	session.BindCodeAndUser("the-code", user.ID)

	clientRepo := new(repomocks.MockClientRepository)
	sessionRepo := new(repomocks.MockAuthSessionRepository)
	userRepo := new(repomocks.MockUserRepository)
	tokens := new(svcmocks.MockTokenService)

	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
	sessionRepo.On("FindByCode", mock.Anything, "the-code").Return(session, nil)
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	tokens.On("IssueUserTokenPair", mock.Anything, realm, user, "web-app").Return(&service.TokenPair{
		AccessToken:  models.Jwt{Token: "access"},
		RefreshToken: models.Jwt{Token: "refresh"},
	}, nil)
	sessionRepo.On("Delete", mock.Anything, session.ID).Return(nil)

	grant := service.NewAuthorizationCodeGrant(clientRepo, sessionRepo, userRepo, tokens, logger.NewNoopLogger())

	pair, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Code:         "the-code",
	})
	require.NoError(t, err)

	assert.Equal(t, "access", pair.AccessToken.Token)
	assert.Equal(t, "refresh", pair.RefreshToken.Token)
	sessionRepo.AssertCalled(t, "Delete", mock.Anything, session.ID)
}

func TestAuthorizationCodeGrant_UnboundCode(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, nil)

	session, err := models.NewAuthSession(models.AuthSessionParams{
		RealmID:     realm.ID,
		ClientID:    client.ID,
		RedirectUri: "https://app.example.com/callback",
	})
	require.NoError(t, err)

	clientRepo := new(repomocks.MockClientRepository)
	sessionRepo := new(repomocks.MockAuthSessionRepository)

	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
	sessionRepo.On("FindByCode", mock.Anything, "stray-code").Return(session, nil)

	grant := service.NewAuthorizationCodeGrant(clientRepo, sessionRepo, new(repomocks.MockUserRepository), new(svcmocks.MockTokenService), logger.NewNoopLogger())

	_, err = grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Code:         "stray-code",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidGrant, authErr.Code())
}

func TestAuthorizationCodeGrant_ClientMismatch(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, nil)
	user := &models.User{ID: uuid.New(), RealmID: realm.ID, Enabled: true}

	session, err := models.NewAuthSession(models.AuthSessionParams{
		RealmID:     realm.ID,
		ClientID:    uuid.New(), // a different client opened this session
		RedirectUri: "https://app.example.com/callback",
	})
	require.NoError(t, err)
	session.BindCodeAndUser("the-code", user.ID)

	clientRepo := new(repomocks.MockClientRepository)
	sessionRepo := new(repomocks.MockAuthSessionRepository)

	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
	sessionRepo.On("FindByCode", mock.Anything, "the-code").Return(session, nil)

	grant := service.NewAuthorizationCodeGrant(clientRepo, sessionRepo, new(repomocks.MockUserRepository), new(svcmocks.MockTokenService), logger.NewNoopLogger())

	_, err = grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Code:         "the-code",
	})
	require.Error(t, err)
}

func TestAuthorizationCodeGrant_WrongClientSecret(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, nil)

	clientRepo := new(repomocks.MockClientRepository)
	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)

	grant := service.NewAuthorizationCodeGrant(clientRepo, new(repomocks.MockAuthSessionRepository), new(repomocks.MockUserRepository), new(svcmocks.MockTokenService), logger.NewNoopLogger())

	_, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "wrong",
		Code:         "the-code",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidClient, authErr.Code())
}

func TestPasswordGrant_DirectAccessDisabled(t *testing.T) {
	realm := grantRealm(t)

	t.Run("public client without secret is rejected", func(t *testing.T) {
		client := grantClient(t, realm.ID, func(c *models.ClientConfig) {
			c.Secret = nil
			c.PublicClient = true
		})

		clientRepo := new(repomocks.MockClientRepository)
		clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)

		grant := service.NewPasswordGrant(clientRepo, new(repomocks.MockUserRepository), new(svcmocks.MockAuthenticationService), new(svcmocks.MockTokenService), logger.NewNoopLogger())

		_, err := grant.Authenticate(context.Background(), service.GrantParams{
			Realm:    realm,
			ClientID: "web-app",
			Username: "alice",
			Password: "secret",
		})
		require.Error(t, err)

		authErr, ok := errors.AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, constants.ErrCodeInvalidRequest, authErr.Code())
	})

	t.Run("confidential client with matching secret passes the gate", func(t *testing.T) {
		client := grantClient(t, realm.ID, nil)

		clientRepo := new(repomocks.MockClientRepository)
		userRepo := new(repomocks.MockUserRepository)
		clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
		userRepo.On("FindByUsername", mock.Anything, realm.ID, "alice").Return(nil, errors.ErrUserNotFound("alice"))

		grant := service.NewPasswordGrant(clientRepo, userRepo, new(svcmocks.MockAuthenticationService), new(svcmocks.MockTokenService), logger.NewNoopLogger())

		_, err := grant.Authenticate(context.Background(), service.GrantParams{
			Realm:        realm,
			ClientID:     "web-app",
			ClientSecret: "s3cret",
			Username:     "alice",
			Password:     "secret",
		})
		require.Error(t, err)

		authErr, ok := errors.AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, constants.ErrCodeInvalidUser, authErr.Code())
	})
}

func TestPasswordGrant_Authenticate(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, func(c *models.ClientConfig) {
		c.DirectAccessGrantsEnabled = true
	})
	user := &models.User{ID: uuid.New(), RealmID: realm.ID, Username: "alice", Enabled: true}

	clientRepo := new(repomocks.MockClientRepository)
	userRepo := new(repomocks.MockUserRepository)
	auth := new(svcmocks.MockAuthenticationService)
	tokens := new(svcmocks.MockTokenService)

	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
	userRepo.On("FindByUsername", mock.Anything, realm.ID, "alice").Return(user, nil)
	auth.On("VerifyPassword", mock.Anything, user, "secret").Return(&models.Credential{}, nil)
	tokens.On("IssueUserTokenPair", mock.Anything, realm, user, "web-app").Return(&service.TokenPair{
		AccessToken: models.Jwt{Token: "access"},
	}, nil)

	grant := service.NewPasswordGrant(clientRepo, userRepo, auth, tokens, logger.NewNoopLogger())

	pair, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Username:     "alice",
		Password:     "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "access", pair.AccessToken.Token)
}

func TestClientCredentialsGrant_Authenticate(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, func(c *models.ClientConfig) {
		c.ClientID = "backend"
		c.ServiceAccountEnabled = true
	})
	serviceAccount := &models.User{ID: uuid.New(), RealmID: realm.ID, ClientID: &client.ID, Username: "service-account-backend"}

	clientRepo := new(repomocks.MockClientRepository)
	userRepo := new(repomocks.MockUserRepository)
	tokens := new(svcmocks.MockTokenService)

	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "backend").Return(client, nil)
	userRepo.On("FindServiceAccountByClientID", mock.Anything, client.ID).Return(serviceAccount, nil)
	tokens.On("IssueServiceAccountTokenPair", mock.Anything, realm, serviceAccount, client).Return(&service.TokenPair{
		AccessToken: models.Jwt{Token: "sa-access"},
	}, nil)

	grant := service.NewClientCredentialsGrant(clientRepo, userRepo, tokens, logger.NewNoopLogger())

	pair, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "backend",
		ClientSecret: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "sa-access", pair.AccessToken.Token)
}

func TestClientCredentialsGrant_PublicClientRejected(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, func(c *models.ClientConfig) {
		c.PublicClient = true
		c.Secret = nil
	})

	clientRepo := new(repomocks.MockClientRepository)
	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)

	grant := service.NewClientCredentialsGrant(clientRepo, new(repomocks.MockUserRepository), new(svcmocks.MockTokenService), logger.NewNoopLogger())

	_, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "anything",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeUnauthorizedClient, authErr.Code())
}

func TestRefreshTokenGrant_Authenticate(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, nil)

	claim := &models.JwtClaim{
		Sub: uuid.New(),
		Jti: uuid.New(),
		Typ: constants.TokenTypeRefresh,
		Azp: "web-app",
	}

	clientRepo := new(repomocks.MockClientRepository)
	tokens := new(svcmocks.MockTokenService)

	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
	tokens.On("VerifyRefreshToken", mock.Anything, realm, "refresh-jwt").Return(claim, nil)
	tokens.On("RotateRefreshToken", mock.Anything, realm, claim, "web-app").Return(&service.TokenPair{
		AccessToken:  models.Jwt{Token: "new-access"},
		RefreshToken: models.Jwt{Token: "new-refresh"},
	}, nil)

	grant := service.NewRefreshTokenGrant(clientRepo, tokens, logger.NewNoopLogger())

	pair, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		RefreshToken: "refresh-jwt",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken.Token)
	assert.Equal(t, "new-refresh", pair.RefreshToken.Token)
}

func TestRefreshTokenGrant_RejectsForeignClientToken(t *testing.T) {
	realm := grantRealm(t)
	client := grantClient(t, realm.ID, nil)

	claim := &models.JwtClaim{
		Sub: uuid.New(),
		Jti: uuid.New(),
		Typ: constants.TokenTypeRefresh,
		Azp: "mobile-app",
	}

	clientRepo := new(repomocks.MockClientRepository)
	tokens := new(svcmocks.MockTokenService)

	clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
	tokens.On("VerifyRefreshToken", mock.Anything, realm, "refresh-jwt").Return(claim, nil)

	grant := service.NewRefreshTokenGrant(clientRepo, tokens, logger.NewNoopLogger())

	_, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:        realm,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		RefreshToken: "refresh-jwt",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidGrant, authErr.Code())
	tokens.AssertNotCalled(t, "RotateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshTokenGrant_MissingToken(t *testing.T) {
	grant := service.NewRefreshTokenGrant(new(repomocks.MockClientRepository), new(svcmocks.MockTokenService), logger.NewNoopLogger())

	_, err := grant.Authenticate(context.Background(), service.GrantParams{
		Realm:    grantRealm(t),
		ClientID: "web-app",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidRequest, authErr.Code())
}
