// Package service 定义领域服务接口
// 认证领域服务 - 负责密码校验、登录决策与授权码签发
package service

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// AuthStatus is the outcome of a credential check against a login session.
type AuthStatus string

const (
	// AuthStatusSuccess means the flow finished and a code was bound.
	AuthStatusSuccess AuthStatus = "success"

	// AuthStatusRequiresActions means the user must complete required
	// actions before the flow can finish.
	AuthStatusRequiresActions AuthStatus = "requires_actions"

	// AuthStatusRequiresOtpChallenge means a TOTP code must be submitted
	// before the flow can finish.
	AuthStatusRequiresOtpChallenge AuthStatus = "requires_otp_challenge"
)

// AuthResult carries the decision of one authentication step. RedirectURL
// is set on success only; RequiredActions is set when actions are pending.
type AuthResult struct {
	Status          AuthStatus
	User            *models.User
	RedirectURL     string
	RequiredActions []models.RequiredAction
}

// AuthenticationService 认证领域服务接口
// 认证决策顺序：密码校验失败立即拒绝；存在待处理操作或临时密码则要求
// 处理操作；注册了 OTP 凭据则要求 OTP 挑战；否则绑定授权码并完成流程
type AuthenticationService interface {
	// AuthenticateWithPassword 校验用户名密码并推进授权会话
	AuthenticateWithPassword(ctx context.Context, realm *models.Realm, session *models.AuthSession, username, password string) (*AuthResult, error)

	// VerifyPassword 校验用户的密码凭据
	// 返回该密码凭据本身，供调用方检查 Temporary 标记
	VerifyPassword(ctx context.Context, user *models.User, password string) (*models.Credential, error)

	// FinalizeAuthentication 绑定授权码并构建重定向 URL
	// 会话缺少 state 参数时失败，授权码不会被签发
	FinalizeAuthentication(ctx context.Context, session *models.AuthSession, user *models.User) (*AuthResult, error)
}

var _ AuthenticationService = (*authenticationService)(nil)

type authenticationService struct {
	userRepo       repository.UserRepository
	credentialRepo repository.CredentialRepository
	sessionRepo    repository.AuthSessionRepository
	hasher         repository.HasherRepository
	log            logger.Logger
}

// NewAuthenticationService builds the authentication service.
func NewAuthenticationService(
	userRepo repository.UserRepository,
	credentialRepo repository.CredentialRepository,
	sessionRepo repository.AuthSessionRepository,
	hasher repository.HasherRepository,
	log logger.Logger,
) AuthenticationService {
	return &authenticationService{
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
		sessionRepo:    sessionRepo,
		hasher:         hasher,
		log:            log,
	}
}

func (s *authenticationService) AuthenticateWithPassword(ctx context.Context, realm *models.Realm, session *models.AuthSession, username, password string) (*AuthResult, error) {
	if session.IsExpired() {
		return nil, errors.ErrSessionExpired()
	}

	user, err := s.userRepo.FindByUsername(ctx, realm.ID, username)
	if err != nil {
		return nil, errors.ErrUserNotFound(username)
	}
	if !user.Enabled {
		return nil, errors.ErrUserNotFound(username)
	}

	passwordCredential, err := s.VerifyPassword(ctx, user, password)
	if err != nil {
		s.log.Warn(ctx, "password verification failed",
			logger.String("realm", realm.Name),
			logger.String("username", username),
		)
		return nil, err
	}

	// Pending required actions and temporary passwords both gate the flow
	// on the account update surface before any code is issued.
	if user.HasRequiredActions() || passwordCredential.Temporary {
		actions := user.RequiredActions
		if passwordCredential.Temporary && !user.HasRequiredAction(models.RequiredActionUpdatePassword) {
			actions = append(actions, models.RequiredActionUpdatePassword)
		}
		return &AuthResult{
			Status:          AuthStatusRequiresActions,
			User:            user,
			RequiredActions: actions,
		}, nil
	}

	otpCredential, err := s.credentialRepo.FindByUserIDAndType(ctx, user.ID, string(constants.CredentialTypeOTP))
	if err == nil && otpCredential != nil {
		return &AuthResult{
			Status: AuthStatusRequiresOtpChallenge,
			User:   user,
		}, nil
	}

	return s.FinalizeAuthentication(ctx, session, user)
}

func (s *authenticationService) VerifyPassword(ctx context.Context, user *models.User, password string) (*models.Credential, error) {
	credential, err := s.credentialRepo.FindByUserIDAndType(ctx, user.ID, string(constants.CredentialTypePassword))
	if err != nil || credential == nil {
		return nil, errors.ErrInvalidPassword()
	}

	salt := ""
	if credential.Salt != nil {
		salt = *credential.Salt
	}

	ok, err := s.hasher.Verify(ctx, password, credential.SecretData, salt)
	if err != nil {
		return nil, errors.ErrServerError("password verification failed").WithCause(err)
	}
	if !ok {
		return nil, errors.ErrInvalidPassword()
	}

	return credential, nil
}

func (s *authenticationService) FinalizeAuthentication(ctx context.Context, session *models.AuthSession, user *models.User) (*AuthResult, error) {
	if session.IsExpired() {
		return nil, errors.ErrSessionExpired()
	}
	if session.State == nil || *session.State == "" {
		return nil, errors.ErrInvalidRequest("missing state in session")
	}

	code := uuid.New().String()

	updated, err := s.sessionRepo.BindCodeAndUser(ctx, session.ID, code, user.ID)
	if err != nil {
		return nil, err
	}

	redirectURL, err := buildRedirectURL(updated, code)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "authentication finalized",
		logger.String("session_id", session.ID.String()),
		logger.String("user_id", user.ID.String()),
	)

	return &AuthResult{
		Status:      AuthStatusSuccess,
		User:        user,
		RedirectURL: redirectURL,
	}, nil
}

// buildRedirectURL appends the code and state to the session's validated
// redirect target, preserving any query it already carries.
func buildRedirectURL(session *models.AuthSession, code string) (string, error) {
	target, err := url.Parse(session.RedirectUri)
	if err != nil {
		return "", errors.ErrInvalidRedirectURI(session.RedirectUri).WithCause(err)
	}

	query := target.Query()
	query.Set("code", code)
	if session.State != nil {
		query.Set("state", *session.State)
	}
	target.RawQuery = query.Encode()

	return target.String(), nil
}
