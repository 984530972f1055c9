package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/application/dto"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	domainService "github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
	"github.com/rbenna1/ferriskey-sub000/pkg/utils"
)

// AuthAppService 认证应用服务接口
// 承载授权端点、登录动作端点与 OTP 注册和挑战流程
type AuthAppService interface {
	// Authorize 开启一次授权码流程
	// 校验客户端与重定向 URI 后创建授权会话
	Authorize(ctx context.Context, realmName string, req *dto.AuthorizeRequest) (*dto.AuthorizeResponse, error)

	// Authenticate 以用户名密码推进授权会话
	// 返回的状态决定前端的下一步：重定向、处理必需操作或提交 OTP
	Authenticate(ctx context.Context, realmName string, sessionCode string, req *dto.AuthenticateRequest) (*dto.AuthenticateResponse, error)

	// ChallengeOtp 以 OTP 代码完成被挑战门控的授权会话
	// temporaryToken 是 Authenticate 返回的短期令牌
	ChallengeOtp(ctx context.Context, realmName, sessionCode, temporaryToken string, req *dto.OtpChallengeRequest) (*dto.AuthenticateResponse, error)

	// SetupOtp 为已认证用户生成 OTP 共享密钥
	SetupOtp(ctx context.Context, realmName string, user *models.User) (*dto.OtpSetupResponse, error)

	// VerifyOtp 确认 OTP 注册
	// 用户提交密钥对应的当前代码以证明持有，之后凭据才会被持久化
	VerifyOtp(ctx context.Context, realmName string, user *models.User, req *dto.OtpVerifyRequest) error
}

var _ AuthAppService = (*authAppServiceImpl)(nil)

type authAppServiceImpl struct {
	realmRepo        repository.RealmRepository
	clientRepo       repository.ClientRepository
	userRepo         repository.UserRepository
	credentialRepo   repository.CredentialRepository
	sessionRepo      repository.AuthSessionRepository
	authService      domainService.AuthenticationService
	tokenService     domainService.TokenService
	totpService      domainService.TotpService
	rateLimitService domainService.RateLimitService
	auditService     domainService.AuditService
	metrics          domainService.Metrics
	logger           logger.Logger
}

// NewAuthAppService creates a new instance of AuthAppService.
func NewAuthAppService(
	realmRepo repository.RealmRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	credentialRepo repository.CredentialRepository,
	sessionRepo repository.AuthSessionRepository,
	authService domainService.AuthenticationService,
	tokenService domainService.TokenService,
	totpService domainService.TotpService,
	rateLimitService domainService.RateLimitService,
	auditService domainService.AuditService,
	metrics domainService.Metrics,
	log logger.Logger,
) AuthAppService {
	return &authAppServiceImpl{
		realmRepo:        realmRepo,
		clientRepo:       clientRepo,
		userRepo:         userRepo,
		credentialRepo:   credentialRepo,
		sessionRepo:      sessionRepo,
		authService:      authService,
		tokenService:     tokenService,
		totpService:      totpService,
		rateLimitService: rateLimitService,
		auditService:     auditService,
		metrics:          metrics,
		logger:           log,
	}
}

func (s *authAppServiceImpl) Authorize(ctx context.Context, realmName string, req *dto.AuthorizeRequest) (*dto.AuthorizeResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, errors.ErrInvalidRequest("invalid authorization request").WithCause(err)
	}

	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByClientID(ctx, realm.ID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.Enabled {
		return nil, errors.ErrClientDisabled(req.ClientID)
	}
	if !client.MatchesRedirectURI(req.RedirectURI) {
		return nil, errors.ErrInvalidRedirectURI(req.RedirectURI)
	}

	var state *string
	if req.State != "" {
		state = &req.State
	}

	session, err := models.NewAuthSession(models.AuthSessionParams{
		RealmID:      realm.ID,
		ClientID:     client.ID,
		RedirectUri:  req.RedirectURI,
		ResponseType: req.ResponseType,
		Scope:        req.Scope,
		State:        state,
	})
	if err != nil {
		return nil, errors.ErrServerError("failed to open authorization session").WithCause(err)
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "authorization session opened",
		logger.String("realm", realm.Name),
		logger.String("client_id", req.ClientID),
		logger.String("session_id", session.ID.String()),
	)

	loginParams := url.Values{}
	loginParams.Set("session_code", session.ID.String())
	loginParams.Set("client_id", req.ClientID)
	loginParams.Set("redirect_uri", req.RedirectURI)
	if req.State != "" {
		loginParams.Set("state", req.State)
	}
	loginURL := fmt.Sprintf("%s/login-actions/authenticate?%s",
		s.tokenService.Issuer(realm), loginParams.Encode())

	return &dto.AuthorizeResponse{
		SessionCode: session.ID.String(),
		LoginURL:    loginURL,
	}, nil
}

func (s *authAppServiceImpl) Authenticate(ctx context.Context, realmName string, sessionCode string, req *dto.AuthenticateRequest) (*dto.AuthenticateResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, errors.ErrInvalidRequest("invalid authentication request").WithCause(err)
	}

	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	allowed, err := s.rateLimitService.Allow(ctx, constants.RateLimitScopeLogin, req.Username)
	if err != nil {
		s.logger.Error(ctx, "rate limit check failed", err, logger.String("username", req.Username))
	}
	if !allowed {
		s.metrics.RecordRateLimitHit(realm.Name, string(constants.RateLimitScopeLogin))
		return nil, errors.ErrRateLimitExceeded(string(constants.RateLimitScopeLogin), 0)
	}

	session, err := s.loadSession(ctx, realm, sessionCode)
	if err != nil {
		return nil, err
	}

	var result *domainService.AuthResult
	if req.Token != "" {
		result, err = s.authenticateWithToken(ctx, realm, session, req.Token)
	} else {
		result, err = s.authService.AuthenticateWithPassword(ctx, realm, session, req.Username, req.Password)
	}
	if err != nil {
		errorCode := ""
		if authErr, ok := errors.AsAuthError(err); ok {
			errorCode = string(authErr.Code())
		}
		s.metrics.RecordLogin(realm.Name, false, errorCode)
		s.emitLoginAudit(ctx, realm, nil, constants.EventTypeLoginFailure, errorCode)
		return nil, err
	}

	switch result.Status {
	case domainService.AuthStatusSuccess:
		s.metrics.RecordLogin(realm.Name, true, "")
		s.emitLoginAudit(ctx, realm, result.User, constants.EventTypeLoginSuccess, "")
		return &dto.AuthenticateResponse{
			Status:      string(result.Status),
			RedirectURL: result.RedirectURL,
		}, nil

	case domainService.AuthStatusRequiresOtpChallenge:
		// The temporary token proves the password step without holding
		// credentials across the challenge round trip.
		temporary, err := s.tokenService.IssueTemporaryToken(ctx, realm, result.User, session.ClientID.String())
		if err != nil {
			return nil, err
		}
		return &dto.AuthenticateResponse{
			Status:         string(result.Status),
			TemporaryToken: temporary.Token,
		}, nil

	default:
		// The same short-lived token lets the caller come back through
		// this endpoint once the pending actions are resolved.
		temporary, err := s.tokenService.IssueTemporaryToken(ctx, realm, result.User, session.ClientID.String())
		if err != nil {
			return nil, err
		}
		actions := make([]string, 0, len(result.RequiredActions))
		for _, action := range result.RequiredActions {
			actions = append(actions, string(action))
		}
		return &dto.AuthenticateResponse{
			Status:          string(result.Status),
			RequiredActions: actions,
			TemporaryToken:  temporary.Token,
		}, nil
	}
}

// authenticateWithToken resumes an interrupted flow with a previously
// issued token. Users with obligations still pending are sent back around
// with a fresh temporary token.
func (s *authAppServiceImpl) authenticateWithToken(ctx context.Context, realm *models.Realm, session *models.AuthSession, token string) (*domainService.AuthResult, error) {
	claim, err := s.tokenService.VerifyToken(ctx, realm, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claim.Sub)
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, errors.ErrInvalidToken("user is disabled")
	}

	if user.HasRequiredActions() {
		actions := make([]models.RequiredAction, len(user.RequiredActions))
		copy(actions, user.RequiredActions)
		return &domainService.AuthResult{
			Status:          domainService.AuthStatusRequiresActions,
			User:            user,
			RequiredActions: actions,
		}, nil
	}

	return s.authService.FinalizeAuthentication(ctx, session, user)
}

func (s *authAppServiceImpl) ChallengeOtp(ctx context.Context, realmName, sessionCode, temporaryToken string, req *dto.OtpChallengeRequest) (*dto.AuthenticateResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, errors.ErrInvalidRequest("invalid otp challenge").WithCause(err)
	}

	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	claim, err := s.tokenService.VerifyToken(ctx, realm, temporaryToken)
	if err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, realm, sessionCode)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claim.Sub)
	if err != nil {
		return nil, err
	}

	credential, err := s.credentialRepo.FindByUserIDAndType(ctx, user.ID, string(constants.CredentialTypeOTP))
	if err != nil || credential == nil {
		return nil, errors.ErrInvalidGrant("no otp credential registered")
	}

	if !s.totpService.Verify(credential.SecretData, req.Code, time.Now()) {
		s.metrics.RecordOtpChallenge(realm.Name, false)
		s.emitLoginAudit(ctx, realm, nil, constants.EventTypeLoginFailure, "invalid otp code")
		return nil, errors.ErrInvalidGrant("invalid otp code")
	}
	s.metrics.RecordOtpChallenge(realm.Name, true)

	result, err := s.authService.FinalizeAuthentication(ctx, session, user)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(realm.Name, true, "")
	s.emitLoginAudit(ctx, realm, result.User, constants.EventTypeLoginSuccess, "")

	return &dto.AuthenticateResponse{
		Status:      string(result.Status),
		RedirectURL: result.RedirectURL,
	}, nil
}

func (s *authAppServiceImpl) SetupOtp(ctx context.Context, realmName string, user *models.User) (*dto.OtpSetupResponse, error) {
	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	secret, err := s.totpService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	return &dto.OtpSetupResponse{
		Secret:     secret,
		OtpauthURI: s.totpService.OtpauthURI(secret, s.tokenService.Issuer(realm), user.Email),
	}, nil
}

func (s *authAppServiceImpl) VerifyOtp(ctx context.Context, realmName string, user *models.User, req *dto.OtpVerifyRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return errors.ErrInvalidRequest("invalid otp verification").WithCause(err)
	}

	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return err
	}

	if !s.totpService.Verify(req.Secret, req.Code, time.Now()) {
		s.metrics.RecordOtpChallenge(realm.Name, false)
		return errors.ErrInvalidGrant("invalid otp code")
	}
	s.metrics.RecordOtpChallenge(realm.Name, true)

	var label *string
	if req.Label != "" {
		label = &req.Label
	}

	credential, err := models.NewCredential(user.ID, string(constants.CredentialTypeOTP), req.Secret, nil, models.CredentialData{
		Algorithm: "HmacSHA1",
	}, false)
	if err != nil {
		return errors.ErrServerError("failed to create otp credential").WithCause(err)
	}
	credential.UserLabel = label

	if err := s.credentialRepo.Save(ctx, credential); err != nil {
		return err
	}

	if user.HasRequiredAction(models.RequiredActionConfigureOtp) {
		user.RemoveRequiredAction(models.RequiredActionConfigureOtp)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
	}

	event := models.NewAuditEvent(realm.ID, constants.EventTypeOtpEnrolled, "success", "")
	event.UserID = &user.ID
	if err := s.auditService.LogEvent(ctx, *event); err != nil {
		s.logger.Warn(ctx, "audit event delivery failed",
			logger.String("event_type", string(constants.EventTypeOtpEnrolled)),
			logger.String("realm", realm.Name),
		)
	}

	s.logger.Info(ctx, "otp credential enrolled",
		logger.String("realm", realm.Name),
		logger.String("user_id", user.ID.String()),
	)
	return nil
}

// loadSession resolves a session code and checks it belongs to the realm
// the request was addressed to.
func (s *authAppServiceImpl) loadSession(ctx context.Context, realm *models.Realm, sessionCode string) (*models.AuthSession, error) {
	sessionID, err := uuid.Parse(sessionCode)
	if err != nil {
		return nil, errors.ErrSessionNotFound().WithCause(err)
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.RealmID != realm.ID {
		return nil, errors.ErrSessionNotFound()
	}

	return session, nil
}

func (s *authAppServiceImpl) emitLoginAudit(ctx context.Context, realm *models.Realm, user *models.User, eventType constants.AuditEventType, message string) {
	event := models.NewAuditEvent(realm.ID, eventType, resultOf(eventType), message)
	if user != nil {
		event.UserID = &user.ID
	}

	if err := s.auditService.LogEvent(ctx, *event); err != nil {
		s.logger.Warn(ctx, "audit event delivery failed",
			logger.String("event_type", string(eventType)),
			logger.String("realm", realm.Name),
		)
	}
}

func resultOf(eventType constants.AuditEventType) string {
	if eventType == constants.EventTypeLoginFailure {
		return "failure"
	}
	return "success"
}
