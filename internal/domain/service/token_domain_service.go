package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// Ensure it satisfies the interface in token_service.go
var _ TokenService = (*tokenDomainService)(nil)

type tokenDomainService struct {
	crypto      CryptoService
	refreshRepo repository.RefreshTokenRepository
	userRepo    repository.UserRepository
	baseURL     string
	log         logger.Logger
}

// NewTokenDomainService builds the token service. baseURL is the externally
// visible root of the server, without a trailing slash.
func NewTokenDomainService(
	crypto CryptoService,
	refreshRepo repository.RefreshTokenRepository,
	userRepo repository.UserRepository,
	baseURL string,
	log logger.Logger,
) TokenService {
	return &tokenDomainService{
		crypto:      crypto,
		refreshRepo: refreshRepo,
		userRepo:    userRepo,
		baseURL:     strings.TrimRight(baseURL, "/"),
		log:         log,
	}
}

func (s *tokenDomainService) Issuer(realm *models.Realm) string {
	return fmt.Sprintf("%s/realms/%s", s.baseURL, realm.Name)
}

func (s *tokenDomainService) audience(realm *models.Realm) []string {
	return []string{realm.Audience(), constants.AccountAudience}
}

func (s *tokenDomainService) IssueUserTokenPair(ctx context.Context, realm *models.Realm, user *models.User, azp string) (*TokenPair, error) {
	iss := s.Issuer(realm)
	aud := s.audience(realm)

	var email *string
	if user.Email != "" {
		email = &user.Email
	}

	bearerClaim := models.NewBearerClaim(user.ID, user.Username, iss, aud, azp, email)
	refreshClaim := models.NewRefreshClaim(user.ID, iss, aud, azp)

	return s.signPair(ctx, realm, bearerClaim, refreshClaim)
}

func (s *tokenDomainService) IssueServiceAccountTokenPair(ctx context.Context, realm *models.Realm, user *models.User, client *models.Client) (*TokenPair, error) {
	iss := s.Issuer(realm)
	aud := s.audience(realm)

	var email *string
	if user.Email != "" {
		email = &user.Email
	}

	bearerClaim := models.NewBearerClaim(user.ID, user.Username, iss, aud, client.ClientID, email)
	bearerClaim.ClientID = &client.ClientID

	refreshClaim := models.NewRefreshClaim(user.ID, iss, aud, client.ClientID)
	refreshClaim.ClientID = &client.ClientID

	return s.signPair(ctx, realm, bearerClaim, refreshClaim)
}

func (s *tokenDomainService) IssueTemporaryToken(ctx context.Context, realm *models.Realm, user *models.User, azp string) (*models.Jwt, error) {
	iss := s.Issuer(realm)
	aud := s.audience(realm)

	claim := models.NewBearerClaim(user.ID, user.Username, iss, aud, azp, nil)
	exp := time.Now().UTC().Add(constants.TemporaryTokenTTL).Unix()
	claim.Exp = &exp

	return s.crypto.SignClaims(ctx, realm, claim)
}

// signPair signs both claims and records the refresh jti so the token can
// later be revoked or rotated.
func (s *tokenDomainService) signPair(ctx context.Context, realm *models.Realm, bearerClaim, refreshClaim models.JwtClaim) (*TokenPair, error) {
	access, err := s.crypto.SignClaims(ctx, realm, bearerClaim)
	if err != nil {
		return nil, err
	}

	refresh, err := s.crypto.SignClaims(ctx, realm, refreshClaim)
	if err != nil {
		return nil, err
	}

	var expiresAt *time.Time
	if refreshClaim.Exp != nil {
		t := time.Unix(*refreshClaim.Exp, 0).UTC()
		expiresAt = &t
	}

	record, err := models.NewRefreshToken(refreshClaim.Jti, refreshClaim.Sub, expiresAt)
	if err != nil {
		return nil, errors.ErrServerError("failed to create refresh token record").WithCause(err)
	}
	if err := s.refreshRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "issued token pair",
		logger.String("realm", realm.Name),
		logger.String("sub", bearerClaim.Sub.String()),
		logger.String("azp", bearerClaim.Azp),
	)

	return &TokenPair{AccessToken: *access, RefreshToken: *refresh}, nil
}

func (s *tokenDomainService) VerifyToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error) {
	claim, err := s.crypto.VerifyToken(ctx, realm, tokenString)
	if err != nil {
		return nil, err
	}
	if claim.Typ != constants.TokenTypeBearer {
		return nil, errors.ErrInvalidToken("token is not an access token")
	}
	return claim, nil
}

func (s *tokenDomainService) VerifyRefreshToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error) {
	claim, err := s.crypto.VerifyToken(ctx, realm, tokenString)
	if err != nil {
		return nil, err
	}
	if claim.Typ != constants.TokenTypeRefresh {
		return nil, errors.ErrInvalidRefreshToken("token is not a refresh token")
	}

	record, err := s.refreshRepo.FindByJTI(ctx, claim.Jti)
	if err != nil {
		return nil, errors.ErrTokenExpired()
	}
	if !record.IsLive() {
		return nil, errors.ErrTokenExpired()
	}

	return claim, nil
}

func (s *tokenDomainService) RotateRefreshToken(ctx context.Context, realm *models.Realm, claim *models.JwtClaim, azp string) (*TokenPair, error) {
	user, err := s.userRepo.FindByID(ctx, claim.Sub)
	if err != nil {
		return nil, err
	}

	if err := s.refreshRepo.Revoke(ctx, claim.Jti); err != nil {
		return nil, err
	}

	iss := s.Issuer(realm)
	aud := s.audience(realm)

	var email *string
	if user.Email != "" {
		email = &user.Email
	}

	bearerClaim := models.NewBearerClaim(user.ID, user.Username, iss, aud, azp, email)
	refreshClaim := models.NewRefreshClaim(user.ID, iss, aud, azp)

	// Service-account tokens keep their client_id marker across rotation.
	if claim.IsServiceAccount() {
		bearerClaim.ClientID = claim.ClientID
		refreshClaim.ClientID = claim.ClientID
	}

	pair, err := s.signPair(ctx, realm, bearerClaim, refreshClaim)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "refresh token rotated",
		logger.String("realm", realm.Name),
		logger.String("old_jti", claim.Jti.String()),
	)

	return pair, nil
}
