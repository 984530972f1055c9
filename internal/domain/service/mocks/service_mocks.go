// Package mocks provides testify mocks for the domain service interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// MockCryptoService is a mock implementation of CryptoService.
type MockCryptoService struct {
	mock.Mock
}

func (m *MockCryptoService) SignClaims(ctx context.Context, realm *models.Realm, claims models.JwtClaim) (*models.Jwt, error) {
	args := m.Called(ctx, realm, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Jwt), args.Error(1)
}

func (m *MockCryptoService) VerifyToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error) {
	args := m.Called(ctx, realm, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JwtClaim), args.Error(1)
}

func (m *MockCryptoService) RealmKey(ctx context.Context, realm *models.Realm) (*models.RealmKey, error) {
	args := m.Called(ctx, realm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RealmKey), args.Error(1)
}

func (m *MockCryptoService) RealmJwks(ctx context.Context, realm *models.Realm) ([]models.JwkKey, error) {
	args := m.Called(ctx, realm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JwkKey), args.Error(1)
}

// MockTokenService is a mock implementation of TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueUserTokenPair(ctx context.Context, realm *models.Realm, user *models.User, azp string) (*service.TokenPair, error) {
	args := m.Called(ctx, realm, user, azp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockTokenService) IssueServiceAccountTokenPair(ctx context.Context, realm *models.Realm, user *models.User, client *models.Client) (*service.TokenPair, error) {
	args := m.Called(ctx, realm, user, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockTokenService) IssueTemporaryToken(ctx context.Context, realm *models.Realm, user *models.User, azp string) (*models.Jwt, error) {
	args := m.Called(ctx, realm, user, azp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Jwt), args.Error(1)
}

func (m *MockTokenService) VerifyToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error) {
	args := m.Called(ctx, realm, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JwtClaim), args.Error(1)
}

func (m *MockTokenService) VerifyRefreshToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error) {
	args := m.Called(ctx, realm, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JwtClaim), args.Error(1)
}

func (m *MockTokenService) RotateRefreshToken(ctx context.Context, realm *models.Realm, claim *models.JwtClaim, azp string) (*service.TokenPair, error) {
	args := m.Called(ctx, realm, claim, azp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockTokenService) Issuer(realm *models.Realm) string {
	args := m.Called(realm)
	return args.String(0)
}

// MockAuthenticationService is a mock implementation of AuthenticationService.
type MockAuthenticationService struct {
	mock.Mock
}

func (m *MockAuthenticationService) AuthenticateWithPassword(ctx context.Context, realm *models.Realm, session *models.AuthSession, username, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, realm, session, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthenticationService) VerifyPassword(ctx context.Context, user *models.User, password string) (*models.Credential, error) {
	args := m.Called(ctx, user, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockAuthenticationService) FinalizeAuthentication(ctx context.Context, session *models.AuthSession, user *models.User) (*service.AuthResult, error) {
	args := m.Called(ctx, session, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

// MockTotpService is a mock implementation of TotpService.
type MockTotpService struct {
	mock.Mock
}

func (m *MockTotpService) GenerateSecret() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockTotpService) OtpauthURI(secret, issuer, accountName string) string {
	args := m.Called(secret, issuer, accountName)
	return args.String(0)
}

func (m *MockTotpService) GenerateCode(secret string, at time.Time) (string, error) {
	args := m.Called(secret, at)
	return args.String(0), args.Error(1)
}

func (m *MockTotpService) Verify(secret, code string, at time.Time) bool {
	args := m.Called(secret, code, at)
	return args.Bool(0)
}

// MockPolicyService is a mock implementation of PolicyService.
type MockPolicyService struct {
	mock.Mock
}

func (m *MockPolicyService) GetUserFromIdentity(ctx context.Context, identity models.Identity) (*models.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockPolicyService) GetUserPermissions(ctx context.Context, user *models.User) ([]models.Permission, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Permission), args.Error(1)
}

func (m *MockPolicyService) GetClientSpecificPermissions(ctx context.Context, user *models.User, client *models.Client) ([]models.Permission, error) {
	args := m.Called(ctx, user, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Permission), args.Error(1)
}

func (m *MockPolicyService) GetPermissionsForTargetRealm(ctx context.Context, identity models.Identity, targetRealm *models.Realm) ([]models.Permission, error) {
	args := m.Called(ctx, identity, targetRealm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Permission), args.Error(1)
}

func (m *MockPolicyService) Enforce(ctx context.Context, identity models.Identity, targetRealm *models.Realm, required ...models.Permission) (bool, error) {
	callArgs := []interface{}{ctx, identity, targetRealm}
	for _, r := range required {
		callArgs = append(callArgs, r)
	}
	args := m.Called(callArgs...)
	return args.Bool(0), args.Error(1)
}

// MockRateLimitService is a mock implementation of RateLimitService.
type MockRateLimitService struct {
	mock.Mock
}

func (m *MockRateLimitService) Allow(ctx context.Context, scope constants.RateLimitScope, identifier string) (bool, error) {
	args := m.Called(ctx, scope, identifier)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimitService) ResetLimit(ctx context.Context, scope constants.RateLimitScope, identifier string) error {
	args := m.Called(ctx, scope, identifier)
	return args.Error(0)
}

func (m *MockRateLimitService) GetCurrentUsage(ctx context.Context, scope constants.RateLimitScope, identifier string) (int, error) {
	args := m.Called(ctx, scope, identifier)
	return args.Int(0), args.Error(1)
}

// MockAuditService is a mock implementation of AuditService.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogEvent(ctx context.Context, event models.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
