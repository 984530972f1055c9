// Package service provides application-level services that orchestrate
// domain services and repositories behind the HTTP surface.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rbenna1/ferriskey-sub000/internal/application/dto"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	domainService "github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
	"github.com/rbenna1/ferriskey-sub000/pkg/utils"
)

// TokenAppService 令牌应用服务接口
// 承载令牌端点、JWKS 端点与发现文档，以及请求方身份解析
type TokenAppService interface {
	// ExchangeToken 处理令牌端点请求，按 grant_type 分派到对应的授权模式
	ExchangeToken(ctx context.Context, realmName string, req *dto.TokenRequest) (*dto.TokenResponse, error)

	// Certs 返回 realm 的 JWKS 公钥集
	Certs(ctx context.Context, realmName string) (*dto.JwksResponse, error)

	// OpenIDConfiguration 返回 realm 的 OIDC 发现文档
	OpenIDConfiguration(ctx context.Context, realmName string) (*dto.OpenIDConfigurationResponse, error)

	// ResolveIdentity 校验访问令牌并解析请求方身份
	// 服务账户令牌解析为 Client 身份，其余解析为 User 身份
	ResolveIdentity(ctx context.Context, realmName, accessToken string) (*models.Identity, error)
}

var _ TokenAppService = (*tokenAppServiceImpl)(nil)

type tokenAppServiceImpl struct {
	realmRepo        repository.RealmRepository
	clientRepo       repository.ClientRepository
	userRepo         repository.UserRepository
	dispatcher       *domainService.GrantDispatcher
	tokenService     domainService.TokenService
	cryptoService    domainService.CryptoService
	rateLimitService domainService.RateLimitService
	auditService     domainService.AuditService
	metrics          domainService.Metrics
	logger           logger.Logger
}

// NewTokenAppService creates a new instance of TokenAppService.
func NewTokenAppService(
	realmRepo repository.RealmRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	dispatcher *domainService.GrantDispatcher,
	tokenService domainService.TokenService,
	cryptoService domainService.CryptoService,
	rateLimitService domainService.RateLimitService,
	auditService domainService.AuditService,
	metrics domainService.Metrics,
	log logger.Logger,
) TokenAppService {
	return &tokenAppServiceImpl{
		realmRepo:        realmRepo,
		clientRepo:       clientRepo,
		userRepo:         userRepo,
		dispatcher:       dispatcher,
		tokenService:     tokenService,
		cryptoService:    cryptoService,
		rateLimitService: rateLimitService,
		auditService:     auditService,
		metrics:          metrics,
		logger:           log,
	}
}

func (s *tokenAppServiceImpl) ExchangeToken(ctx context.Context, realmName string, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, errors.ErrInvalidRequest("invalid token request").WithCause(err)
	}

	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	allowed, err := s.rateLimitService.Allow(ctx, constants.RateLimitScopeToken, req.ClientID)
	if err != nil {
		s.logger.Error(ctx, "rate limit check failed", err, logger.String("client_id", req.ClientID))
	}
	if !allowed {
		s.metrics.RecordRateLimitHit(realm.Name, string(constants.RateLimitScopeToken))
		return nil, errors.ErrRateLimitExceeded(string(constants.RateLimitScopeToken), 0)
	}

	grantType := constants.GrantType(req.GrantType)
	params := domainService.GrantParams{
		Realm:        realm,
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		Code:         req.Code,
		Username:     req.Username,
		Password:     req.Password,
		RefreshToken: req.RefreshToken,
	}

	start := time.Now()
	pair, err := s.dispatcher.Dispatch(ctx, grantType, params)
	duration := time.Since(start)

	if err != nil {
		errorCode := ""
		if authErr, ok := errors.AsAuthError(err); ok {
			errorCode = string(authErr.Code())
		}
		s.metrics.RecordTokenIssue(realm.Name, req.GrantType, false, duration, errorCode)
		s.emitTokenAudit(ctx, realm, req, "failure", errorCode)
		return nil, err
	}

	s.metrics.RecordTokenIssue(realm.Name, req.GrantType, true, duration, "")
	s.emitTokenAudit(ctx, realm, req, "success", "")

	s.logger.Info(ctx, "token pair issued",
		logger.String("realm", realm.Name),
		logger.String("grant_type", req.GrantType),
		logger.String("client_id", req.ClientID),
		logger.Int64("latency_ms", duration.Milliseconds()),
	)

	now := time.Now().UTC().Unix()
	return &dto.TokenResponse{
		AccessToken:      pair.AccessToken.Token,
		RefreshToken:     pair.RefreshToken.Token,
		IDToken:          pair.AccessToken.Token,
		TokenType:        string(constants.TokenTypeBearer),
		ExpiresIn:        pair.AccessToken.ExpiresAt - now,
		RefreshExpiresIn: pair.RefreshToken.ExpiresAt - now,
	}, nil
}

func (s *tokenAppServiceImpl) Certs(ctx context.Context, realmName string) (*dto.JwksResponse, error) {
	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	keys, err := s.cryptoService.RealmJwks(ctx, realm)
	if err != nil {
		return nil, err
	}

	return &dto.JwksResponse{Keys: keys}, nil
}

func (s *tokenAppServiceImpl) OpenIDConfiguration(ctx context.Context, realmName string) (*dto.OpenIDConfigurationResponse, error) {
	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	issuer := s.tokenService.Issuer(realm)

	return &dto.OpenIDConfigurationResponse{
		Issuer:                issuer,
		AuthorizationEndpoint: fmt.Sprintf("%s/protocol/openid-connect/auth", issuer),
		TokenEndpoint:         fmt.Sprintf("%s/protocol/openid-connect/token", issuer),
		JwksURI:               fmt.Sprintf("%s/protocol/openid-connect/certs", issuer),
		ResponseTypesSupported: []string{
			string(constants.ResponseTypeCode),
		},
		GrantTypesSupported: []string{
			string(constants.GrantTypeAuthorizationCode),
			string(constants.GrantTypePassword),
			string(constants.GrantTypeClientCredentials),
			string(constants.GrantTypeRefreshToken),
		},
		SubjectTypesSupported:    []string{"public"},
		IDTokenSigningAlgValues:  []string{string(constants.AlgorithmRS256)},
		TokenEndpointAuthMethods: []string{"client_secret_post"},
		ScopesSupported:          []string{"openid", "profile", "email"},
		ClaimsSupported: []string{
			"sub", "iss", "aud", "exp", "iat", "jti", "typ", "azp",
			"preferred_username", "email", "client_id",
		},
	}, nil
}

func (s *tokenAppServiceImpl) ResolveIdentity(ctx context.Context, realmName, accessToken string) (*models.Identity, error) {
	realm, err := s.realmRepo.FindByName(ctx, realmName)
	if err != nil {
		return nil, err
	}

	claim, err := s.tokenService.VerifyToken(ctx, realm, accessToken)
	if err != nil {
		errorCode := ""
		if authErr, ok := errors.AsAuthError(err); ok {
			errorCode = string(authErr.Code())
		}
		s.metrics.RecordTokenVerify(realm.Name, false, errorCode)
		return nil, err
	}
	s.metrics.RecordTokenVerify(realm.Name, true, "")

	if claim.IsServiceAccount() {
		client, err := s.clientRepo.FindByClientID(ctx, realm.ID, *claim.ClientID)
		if err != nil {
			return nil, err
		}
		identity := models.ClientIdentity(client)
		return &identity, nil
	}

	user, err := s.userRepo.FindByID(ctx, claim.Sub)
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, errors.ErrInvalidToken("user is disabled")
	}

	identity := models.UserIdentity(user)
	return &identity, nil
}

// emitTokenAudit records a token endpoint outcome. Audit delivery is best
// effort and never fails the request.
func (s *tokenAppServiceImpl) emitTokenAudit(ctx context.Context, realm *models.Realm, req *dto.TokenRequest, result, message string) {
	eventType := constants.EventTypeTokenIssue
	if req.GrantType == string(constants.GrantTypeRefreshToken) {
		eventType = constants.EventTypeTokenRefresh
	}

	event := models.NewAuditEvent(realm.ID, eventType, result, message)
	event.ClientID = req.ClientID

	if err := s.auditService.LogEvent(ctx, *event); err != nil {
		s.logger.Warn(ctx, "audit event delivery failed",
			logger.String("event_type", string(eventType)),
			logger.String("realm", realm.Name),
		)
	}
}
