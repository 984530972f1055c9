package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rbenna1/ferriskey-sub000/internal/application/dto"
	appservice "github.com/rbenna1/ferriskey-sub000/internal/application/service"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	repomocks "github.com/rbenna1/ferriskey-sub000/internal/domain/repository/mocks"
	domainService "github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	svcmocks "github.com/rbenna1/ferriskey-sub000/internal/domain/service/mocks"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// stubGrant satisfies GrantStrategy with a canned result.
type stubGrant struct {
	pair *domainService.TokenPair
	err  error
}

func (s *stubGrant) Authenticate(ctx context.Context, params domainService.GrantParams) (*domainService.TokenPair, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pair, nil
}

type tokenAppFixture struct {
	realmRepo    *repomocks.MockRealmRepository
	clientRepo   *repomocks.MockClientRepository
	userRepo     *repomocks.MockUserRepository
	tokenService *svcmocks.MockTokenService
	crypto       *svcmocks.MockCryptoService
	rateLimit    *svcmocks.MockRateLimitService
	audit        *svcmocks.MockAuditService
	service      appservice.TokenAppService
}

func newTokenAppFixture(t *testing.T, passwordGrant domainService.GrantStrategy) *tokenAppFixture {
	t.Helper()
	f := &tokenAppFixture{
		realmRepo:    new(repomocks.MockRealmRepository),
		clientRepo:   new(repomocks.MockClientRepository),
		userRepo:     new(repomocks.MockUserRepository),
		tokenService: new(svcmocks.MockTokenService),
		crypto:       new(svcmocks.MockCryptoService),
		rateLimit:    new(svcmocks.MockRateLimitService),
		audit:        new(svcmocks.MockAuditService),
	}
	f.audit.On("LogEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	dispatcher := domainService.NewGrantDispatcher(nil, passwordGrant, nil, nil)
	f.service = appservice.NewTokenAppService(
		f.realmRepo,
		f.clientRepo,
		f.userRepo,
		dispatcher,
		f.tokenService,
		f.crypto,
		f.rateLimit,
		f.audit,
		domainService.NoopMetrics{},
		logger.NewNoopLogger(),
	)
	return f
}

func tokenPair() *domainService.TokenPair {
	now := time.Now().UTC()
	return &domainService.TokenPair{
		AccessToken:  models.Jwt{Token: "access", ExpiresAt: now.Add(constants.AccessTokenTTL).Unix()},
		RefreshToken: models.Jwt{Token: "refresh", ExpiresAt: now.Add(constants.RefreshTokenTTL).Unix()},
	}
}

func TestTokenAppService_ExchangeToken_PasswordGrant(t *testing.T) {
	f := newTokenAppFixture(t, &stubGrant{pair: tokenPair()})
	realm := appRealm(t)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeToken, "web-app").Return(true, nil)

	resp, err := f.service.ExchangeToken(context.Background(), "tenants", &dto.TokenRequest{
		GrantType:    "password",
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Username:     "alice",
		Password:     "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.InDelta(t, int64(constants.AccessTokenTTL.Seconds()), resp.ExpiresIn, 2)
	assert.InDelta(t, int64(constants.RefreshTokenTTL.Seconds()), resp.RefreshExpiresIn, 2)
}

func TestTokenAppService_ExchangeToken_UnknownRealm(t *testing.T) {
	f := newTokenAppFixture(t, &stubGrant{pair: tokenPair()})

	f.realmRepo.On("FindByName", mock.Anything, "missing").Return(nil, errors.ErrRealmNotFound("missing"))

	_, err := f.service.ExchangeToken(context.Background(), "missing", &dto.TokenRequest{
		GrantType: "client_credentials",
		ClientID:  "web-app",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidRealm, authErr.Code())
}

func TestTokenAppService_ExchangeToken_UnsupportedGrantType(t *testing.T) {
	f := newTokenAppFixture(t, &stubGrant{pair: tokenPair()})
	realm := appRealm(t)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)

	_, err := f.service.ExchangeToken(context.Background(), "tenants", &dto.TokenRequest{
		GrantType: "implicit",
		ClientID:  "web-app",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidRequest, authErr.Code())
}

func TestTokenAppService_ExchangeToken_RateLimited(t *testing.T) {
	f := newTokenAppFixture(t, &stubGrant{pair: tokenPair()})
	realm := appRealm(t)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeToken, "web-app").Return(false, nil)

	_, err := f.service.ExchangeToken(context.Background(), "tenants", &dto.TokenRequest{
		GrantType: "client_credentials",
		ClientID:  "web-app",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeRateLimited, authErr.Code())
}

func TestTokenAppService_ExchangeToken_GrantFailurePropagates(t *testing.T) {
	f := newTokenAppFixture(t, &stubGrant{err: errors.ErrInvalidGrant("authorization code has expired")})
	realm := appRealm(t)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeToken, "web-app").Return(true, nil)

	_, err := f.service.ExchangeToken(context.Background(), "tenants", &dto.TokenRequest{
		GrantType: "password",
		ClientID:  "web-app",
		Username:  "alice",
		Password:  "wrong",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidGrant, authErr.Code())
}

func TestTokenAppService_Certs(t *testing.T) {
	f := newTokenAppFixture(t, nil)
	realm := appRealm(t)

	jwks := []models.JwkKey{{Kid: "kid-1", Kty: "RSA", Alg: "RS256", Use: "sig", N: "abc", E: "AQAB"}}

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.crypto.On("RealmJwks", mock.Anything, realm).Return(jwks, nil)

	resp, err := f.service.Certs(context.Background(), "tenants")
	require.NoError(t, err)
	require.Len(t, resp.Keys, 1)
	assert.Equal(t, "kid-1", resp.Keys[0].Kid)
}

func TestTokenAppService_OpenIDConfiguration(t *testing.T) {
	f := newTokenAppFixture(t, nil)
	realm := appRealm(t)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.tokenService.On("Issuer", realm).Return("https://idp.example.com/realms/tenants")

	resp, err := f.service.OpenIDConfiguration(context.Background(), "tenants")
	require.NoError(t, err)

	assert.Equal(t, "https://idp.example.com/realms/tenants", resp.Issuer)
	assert.Equal(t, "https://idp.example.com/realms/tenants/protocol/openid-connect/token", resp.TokenEndpoint)
	assert.Equal(t, "https://idp.example.com/realms/tenants/protocol/openid-connect/certs", resp.JwksURI)
	assert.ElementsMatch(t, []string{
		"authorization_code", "password", "client_credentials", "refresh_token",
	}, resp.GrantTypesSupported)
	assert.Equal(t, []string{"code"}, resp.ResponseTypesSupported)
}

func TestTokenAppService_ResolveIdentity_User(t *testing.T) {
	f := newTokenAppFixture(t, nil)
	realm := appRealm(t)
	user := appUser(t, realm.ID)

	claim := models.NewBearerClaim(user.ID, user.Username, "https://idp.example.com/realms/tenants", []string{"tenants-realm"}, "web-app", nil)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.tokenService.On("VerifyToken", mock.Anything, realm, "user-token").Return(&claim, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	identity, err := f.service.ResolveIdentity(context.Background(), "tenants", "user-token")
	require.NoError(t, err)
	require.True(t, identity.IsUser())
	assert.Equal(t, user.ID, identity.User().ID)
}

func TestTokenAppService_ResolveIdentity_ServiceAccount(t *testing.T) {
	f := newTokenAppFixture(t, nil)
	realm := appRealm(t)
	user := appUser(t, realm.ID)
	client := appClient(t, realm.ID, "https://app.example.com/callback")

	claim := models.NewBearerClaim(user.ID, user.Username, "https://idp.example.com/realms/tenants", []string{"tenants-realm"}, client.ClientID, nil)
	claim.ClientID = &client.ClientID

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.tokenService.On("VerifyToken", mock.Anything, realm, "sa-token").Return(&claim, nil)
	f.clientRepo.On("FindByClientID", mock.Anything, realm.ID, client.ClientID).Return(client, nil)

	identity, err := f.service.ResolveIdentity(context.Background(), "tenants", "sa-token")
	require.NoError(t, err)
	require.True(t, identity.IsClient())
	assert.Equal(t, client.ClientID, identity.Client().ClientID)
	f.userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTokenAppService_ResolveIdentity_DisabledUser(t *testing.T) {
	f := newTokenAppFixture(t, nil)
	realm := appRealm(t)
	user := appUser(t, realm.ID)
	user.Enabled = false

	claim := models.NewBearerClaim(user.ID, user.Username, "https://idp.example.com/realms/tenants", []string{"tenants-realm"}, "web-app", nil)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.tokenService.On("VerifyToken", mock.Anything, realm, "user-token").Return(&claim, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err := f.service.ResolveIdentity(context.Background(), "tenants", "user-token")
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidGrant, authErr.Code())
}
