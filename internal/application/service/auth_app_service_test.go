package service_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
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

type authAppFixture struct {
	realmRepo      *repomocks.MockRealmRepository
	clientRepo     *repomocks.MockClientRepository
	userRepo       *repomocks.MockUserRepository
	credentialRepo *repomocks.MockCredentialRepository
	sessionRepo    *repomocks.MockAuthSessionRepository
	authService    *svcmocks.MockAuthenticationService
	tokenService   *svcmocks.MockTokenService
	rateLimit      *svcmocks.MockRateLimitService
	audit          *svcmocks.MockAuditService
	service        appservice.AuthAppService
}

func newAuthAppFixture(t *testing.T) *authAppFixture {
	t.Helper()
	f := &authAppFixture{
		realmRepo:      new(repomocks.MockRealmRepository),
		clientRepo:     new(repomocks.MockClientRepository),
		userRepo:       new(repomocks.MockUserRepository),
		credentialRepo: new(repomocks.MockCredentialRepository),
		sessionRepo:    new(repomocks.MockAuthSessionRepository),
		authService:    new(svcmocks.MockAuthenticationService),
		tokenService:   new(svcmocks.MockTokenService),
		rateLimit:      new(svcmocks.MockRateLimitService),
		audit:          new(svcmocks.MockAuditService),
	}
	f.audit.On("LogEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.service = appservice.NewAuthAppService(
		f.realmRepo,
		f.clientRepo,
		f.userRepo,
		f.credentialRepo,
		f.sessionRepo,
		f.authService,
		f.tokenService,
		domainService.NewTotpService(),
		f.rateLimit,
		f.audit,
		domainService.NoopMetrics{},
		logger.NewNoopLogger(),
	)
	return f
}

func appUser(t *testing.T, realmID uuid.UUID) *models.User {
	t.Helper()
	user, err := models.NewUser(models.UserConfig{
		RealmID:  realmID,
		Username: "alice",
		Email:    "alice@example.com",
		Enabled:  true,
	})
	require.NoError(t, err)
	return user
}

func appRealm(t *testing.T) *models.Realm {
	t.Helper()
	realm, err := models.NewRealm("tenants")
	require.NoError(t, err)
	return realm
}

func appClient(t *testing.T, realmID uuid.UUID, redirectURI string) *models.Client {
	t.Helper()
	client, err := models.NewClient(models.ClientConfig{
		RealmID:  realmID,
		ClientID: "web-app",
		Name:     "Web App",
		Enabled:  true,
		Protocol: "openid-connect",
	})
	require.NoError(t, err)

	entry, err := models.NewRedirectUri(client.ID, redirectURI, true)
	require.NoError(t, err)
	client.RedirectUris = []models.RedirectUri{*entry}
	return client
}

func appSession(t *testing.T, realm *models.Realm, client *models.Client) *models.AuthSession {
	t.Helper()
	state := "xyz"
	session, err := models.NewAuthSession(models.AuthSessionParams{
		RealmID:      realm.ID,
		ClientID:     client.ID,
		RedirectUri:  "https://app.example.com/callback",
		ResponseType: string(constants.ResponseTypeCode),
		Scope:        "openid",
		State:        &state,
	})
	require.NoError(t, err)
	return session
}

func TestAuthAppService_Authorize(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)
	f.sessionRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuthSession")).Return(nil)
	f.tokenService.On("Issuer", realm).Return("https://idp.example.com/realms/tenants")

	resp, err := f.service.Authorize(context.Background(), "tenants", &dto.AuthorizeRequest{
		ClientID:     "web-app",
		RedirectURI:  "https://app.example.com/callback",
		ResponseType: "code",
		Scope:        "openid",
		State:        "xyz",
	})
	require.NoError(t, err)

	sessionID, err := uuid.Parse(resp.SessionCode)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sessionID)
	assert.Contains(t, resp.LoginURL, "/realms/tenants/")

	loginURL, err := url.Parse(resp.LoginURL)
	require.NoError(t, err)
	query := loginURL.Query()
	assert.Equal(t, resp.SessionCode, query.Get("session_code"))
	assert.Equal(t, "web-app", query.Get("client_id"))
	assert.Equal(t, "https://app.example.com/callback", query.Get("redirect_uri"))
	assert.Equal(t, "xyz", query.Get("state"))
	f.sessionRepo.AssertExpectations(t)
}

func TestAuthAppService_Authorize_UnregisteredRedirectURI(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.clientRepo.On("FindByClientID", mock.Anything, realm.ID, "web-app").Return(client, nil)

	_, err := f.service.Authorize(context.Background(), "tenants", &dto.AuthorizeRequest{
		ClientID:     "web-app",
		RedirectURI:  "https://evil.example.com/callback",
		ResponseType: "code",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidRedirectURI, authErr.Code())
	f.sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthAppService_Authenticate_Success(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")
	session := appSession(t, realm, client)
	user := appUser(t, realm.ID)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeLogin, "alice").Return(true, nil)
	f.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	f.authService.On("AuthenticateWithPassword", mock.Anything, realm, session, "alice", "password123").
		Return(&domainService.AuthResult{
			Status:      domainService.AuthStatusSuccess,
			User:        user,
			RedirectURL: "https://app.example.com/callback?code=abc&state=xyz",
		}, nil)

	resp, err := f.service.Authenticate(context.Background(), "tenants", session.ID.String(), &dto.AuthenticateRequest{
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainService.AuthStatusSuccess), resp.Status)
	assert.Equal(t, "https://app.example.com/callback?code=abc&state=xyz", resp.RedirectURL)
}

func TestAuthAppService_Authenticate_WithToken(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")
	session := appSession(t, realm, client)
	user := appUser(t, realm.ID)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeLogin, "").Return(true, nil)
	f.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	f.tokenService.On("VerifyToken", mock.Anything, realm, "resume-token").
		Return(&models.JwtClaim{Sub: user.ID}, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.authService.On("FinalizeAuthentication", mock.Anything, session, user).
		Return(&domainService.AuthResult{
			Status:      domainService.AuthStatusSuccess,
			User:        user,
			RedirectURL: "https://app.example.com/callback?code=abc&state=xyz",
		}, nil)

	resp, err := f.service.Authenticate(context.Background(), "tenants", session.ID.String(), &dto.AuthenticateRequest{
		Token: "resume-token",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainService.AuthStatusSuccess), resp.Status)
	f.authService.AssertNotCalled(t, "AuthenticateWithPassword",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthAppService_Authenticate_WithToken_PendingActions(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")
	session := appSession(t, realm, client)
	user := appUser(t, realm.ID)
	user.AddRequiredAction(models.RequiredActionUpdatePassword)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeLogin, "").Return(true, nil)
	f.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	f.tokenService.On("VerifyToken", mock.Anything, realm, "resume-token").
		Return(&models.JwtClaim{Sub: user.ID}, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.tokenService.On("IssueTemporaryToken", mock.Anything, realm, user, session.ClientID.String()).
		Return(&models.Jwt{Token: "temporary"}, nil)

	resp, err := f.service.Authenticate(context.Background(), "tenants", session.ID.String(), &dto.AuthenticateRequest{
		Token: "resume-token",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainService.AuthStatusRequiresActions), resp.Status)
	assert.Equal(t, []string{string(models.RequiredActionUpdatePassword)}, resp.RequiredActions)
	assert.Equal(t, "temporary", resp.TemporaryToken)
	f.authService.AssertNotCalled(t, "FinalizeAuthentication", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthAppService_Authenticate_RateLimited(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeLogin, "alice").Return(false, nil)

	_, err := f.service.Authenticate(context.Background(), "tenants", uuid.New().String(), &dto.AuthenticateRequest{
		Username: "alice",
		Password: "password123",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeRateLimited, authErr.Code())
	f.authService.AssertNotCalled(t, "AuthenticateWithPassword",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthAppService_Authenticate_OtpChallenge(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")
	session := appSession(t, realm, client)
	user := appUser(t, realm.ID)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeLogin, "alice").Return(true, nil)
	f.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	f.authService.On("AuthenticateWithPassword", mock.Anything, realm, session, "alice", "password123").
		Return(&domainService.AuthResult{
			Status: domainService.AuthStatusRequiresOtpChallenge,
			User:   user,
		}, nil)
	f.tokenService.On("IssueTemporaryToken", mock.Anything, realm, user, session.ClientID.String()).
		Return(&models.Jwt{Token: "temp-token", ExpiresAt: time.Now().Add(5 * time.Minute).Unix()}, nil)

	resp, err := f.service.Authenticate(context.Background(), "tenants", session.ID.String(), &dto.AuthenticateRequest{
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domainService.AuthStatusRequiresOtpChallenge), resp.Status)
	assert.Equal(t, "temp-token", resp.TemporaryToken)
	assert.Empty(t, resp.RedirectURL)
}

func TestAuthAppService_Authenticate_SessionRealmMismatch(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	otherRealm, err := models.NewRealm("other")
	require.NoError(t, err)
	client := appClient(t, otherRealm.ID, "https://app.example.com/callback")
	session := appSession(t, otherRealm, client)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.rateLimit.On("Allow", mock.Anything, constants.RateLimitScopeLogin, "alice").Return(true, nil)
	f.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)

	_, err = f.service.Authenticate(context.Background(), "tenants", session.ID.String(), &dto.AuthenticateRequest{
		Username: "alice",
		Password: "password123",
	})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeSessionNotFound, authErr.Code())
}

func TestAuthAppService_ChallengeOtp(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")
	session := appSession(t, realm, client)
	user := appUser(t, realm.ID)

	totp := domainService.NewTotpService()
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	credential, err := models.NewCredential(user.ID, string(constants.CredentialTypeOTP), secret, nil, models.CredentialData{Algorithm: "HmacSHA1"}, false)
	require.NoError(t, err)

	claim := models.NewBearerClaim(user.ID, user.Username, "https://idp.example.com/realms/tenants", []string{"tenants-realm"}, "web-app", nil)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.tokenService.On("VerifyToken", mock.Anything, realm, "temp-token").Return(&claim, nil)
	f.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.credentialRepo.On("FindByUserIDAndType", mock.Anything, user.ID, string(constants.CredentialTypeOTP)).Return(credential, nil)
	f.authService.On("FinalizeAuthentication", mock.Anything, session, user).
		Return(&domainService.AuthResult{
			Status:      domainService.AuthStatusSuccess,
			User:        user,
			RedirectURL: "https://app.example.com/callback?code=abc&state=xyz",
		}, nil)

	resp, err := f.service.ChallengeOtp(context.Background(), "tenants", session.ID.String(), "temp-token", &dto.OtpChallengeRequest{Code: code})
	require.NoError(t, err)
	assert.Equal(t, string(domainService.AuthStatusSuccess), resp.Status)
	assert.NotEmpty(t, resp.RedirectURL)
}

func TestAuthAppService_ChallengeOtp_WrongCode(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	client := appClient(t, realm.ID, "https://app.example.com/callback")
	session := appSession(t, realm, client)
	user := appUser(t, realm.ID)

	totp := domainService.NewTotpService()
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	credential, err := models.NewCredential(user.ID, string(constants.CredentialTypeOTP), secret, nil, models.CredentialData{Algorithm: "HmacSHA1"}, false)
	require.NoError(t, err)

	claim := models.NewBearerClaim(user.ID, user.Username, "https://idp.example.com/realms/tenants", []string{"tenants-realm"}, "web-app", nil)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.tokenService.On("VerifyToken", mock.Anything, realm, "temp-token").Return(&claim, nil)
	f.sessionRepo.On("FindByID", mock.Anything, session.ID).Return(session, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.credentialRepo.On("FindByUserIDAndType", mock.Anything, user.ID, string(constants.CredentialTypeOTP)).Return(credential, nil)

	_, err = f.service.ChallengeOtp(context.Background(), "tenants", session.ID.String(), "temp-token", &dto.OtpChallengeRequest{Code: "000000"})
	require.Error(t, err)

	authErr, ok := errors.AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidGrant, authErr.Code())
	f.authService.AssertNotCalled(t, "FinalizeAuthentication", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthAppService_SetupAndVerifyOtp(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	user := appUser(t, realm.ID)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)
	f.tokenService.On("Issuer", realm).Return("https://idp.example.com/realms/tenants")

	setup, err := f.service.SetupOtp(context.Background(), "tenants", user)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.OtpauthURI, "otpauth://totp/")
	assert.Contains(t, setup.OtpauthURI, "issuer=")
	assert.Contains(t, setup.OtpauthURI, "idp.example.com")

	totp := domainService.NewTotpService()
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	var saved *models.Credential
	f.credentialRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.Credential")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.Credential)
		}).
		Return(nil)

	err = f.service.VerifyOtp(context.Background(), "tenants", user, &dto.OtpVerifyRequest{
		Secret: setup.Secret,
		Code:   code,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, string(constants.CredentialTypeOTP), saved.CredentialType)
	assert.Equal(t, setup.Secret, saved.SecretData)
}

func TestAuthAppService_VerifyOtp_WrongCode(t *testing.T) {
	f := newAuthAppFixture(t)
	realm := appRealm(t)
	user := appUser(t, realm.ID)

	totp := domainService.NewTotpService()
	secret, err := totp.GenerateSecret()
	require.NoError(t, err)

	f.realmRepo.On("FindByName", mock.Anything, "tenants").Return(realm, nil)

	err = f.service.VerifyOtp(context.Background(), "tenants", user, &dto.OtpVerifyRequest{
		Secret: secret,
		Code:   "000000",
	})
	require.Error(t, err)
	f.credentialRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
