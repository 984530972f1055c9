// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// MockRealmRepository is a mock implementation of RealmRepository.
type MockRealmRepository struct {
	mock.Mock
}

func (m *MockRealmRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Realm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Realm), args.Error(1)
}

func (m *MockRealmRepository) FindByName(ctx context.Context, name string) (*models.Realm, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Realm), args.Error(1)
}

func (m *MockRealmRepository) FindAll(ctx context.Context, limit, offset int) ([]*models.Realm, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Realm), args.Error(1)
}

func (m *MockRealmRepository) Save(ctx context.Context, realm *models.Realm) error {
	args := m.Called(ctx, realm)
	return args.Error(0)
}

func (m *MockRealmRepository) Update(ctx context.Context, realm *models.Realm) error {
	args := m.Called(ctx, realm)
	return args.Error(0)
}

func (m *MockRealmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) FindByClientID(ctx context.Context, realmID uuid.UUID, clientID string) (*models.Client, error) {
	args := m.Called(ctx, realmID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) FindByRealmID(ctx context.Context, realmID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	args := m.Called(ctx, realmID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) AddRedirectURI(ctx context.Context, uri *models.RedirectUri) error {
	args := m.Called(ctx, uri)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, realmID uuid.UUID, username string) (*models.User, error) {
	args := m.Called(ctx, realmID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindServiceAccountByClientID(ctx context.Context, clientID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByRealmID(ctx context.Context, realmID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, realmID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, userID, roleID)
	return args.Error(0)
}

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Credential), args.Error(1)
}

func (m *MockCredentialRepository) FindByUserIDAndType(ctx context.Context, userID uuid.UUID, credentialType string) (*models.Credential, error) {
	args := m.Called(ctx, userID, credentialType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Save(ctx context.Context, credential *models.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockCredentialRepository) Update(ctx context.Context, credential *models.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *MockCredentialRepository) DeleteByUserIDAndType(ctx context.Context, userID uuid.UUID, credentialType string) error {
	args := m.Called(ctx, userID, credentialType)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of RoleRepository.
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByRealmID(ctx context.Context, realmID uuid.UUID) ([]*models.Role, error) {
	args := m.Called(ctx, realmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Role), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *models.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

// MockAuthSessionRepository is a mock implementation of AuthSessionRepository.
type MockAuthSessionRepository struct {
	mock.Mock
}

func (m *MockAuthSessionRepository) Create(ctx context.Context, session *models.AuthSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockAuthSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AuthSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthSession), args.Error(1)
}

func (m *MockAuthSessionRepository) FindByCode(ctx context.Context, code string) (*models.AuthSession, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthSession), args.Error(1)
}

func (m *MockAuthSessionRepository) BindCodeAndUser(ctx context.Context, id uuid.UUID, code string, userID uuid.UUID) (*models.AuthSession, error) {
	args := m.Called(ctx, id, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthSession), args.Error(1)
}

func (m *MockAuthSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRefreshTokenRepository is a mock implementation of RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Save(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByJTI(ctx context.Context, jti uuid.UUID) (*models.RefreshToken, error) {
	args := m.Called(ctx, jti)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, jti uuid.UUID) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, jti uuid.UUID) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockKeyRepository is a mock implementation of KeyRepository.
type MockKeyRepository struct {
	mock.Mock
}

func (m *MockKeyRepository) FindByRealmID(ctx context.Context, realmID uuid.UUID) (*models.RealmKey, error) {
	args := m.Called(ctx, realmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RealmKey), args.Error(1)
}

func (m *MockKeyRepository) Save(ctx context.Context, key *models.RealmKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockHasherRepository is a mock implementation of HasherRepository.
type MockHasherRepository struct {
	mock.Mock
}

func (m *MockHasherRepository) Hash(ctx context.Context, password string) (string, string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockHasherRepository) Verify(ctx context.Context, password, hash, salt string) (bool, error) {
	args := m.Called(ctx, password, hash, salt)
	return args.Bool(0), args.Error(1)
}
