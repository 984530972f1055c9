package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

var _ GrantStrategy = (*authorizationCodeGrant)(nil)

// authorizationCodeGrant exchanges a single-use authorization code bound by
// a finished login flow for a token pair. The session is deleted on success
// so the same code can never be redeemed twice.
type authorizationCodeGrant struct {
	clientRepo  repository.ClientRepository
	sessionRepo repository.AuthSessionRepository
	userRepo    repository.UserRepository
	tokens      TokenService
	log         logger.Logger
}

// NewAuthorizationCodeGrant builds the authorization_code strategy.
func NewAuthorizationCodeGrant(
	clientRepo repository.ClientRepository,
	sessionRepo repository.AuthSessionRepository,
	userRepo repository.UserRepository,
	tokens TokenService,
	log logger.Logger,
) GrantStrategy {
	return &authorizationCodeGrant{
		clientRepo:  clientRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		tokens:      tokens,
		log:         log,
	}
}

func (g *authorizationCodeGrant) Authenticate(ctx context.Context, params GrantParams) (*TokenPair, error) {
	if params.Code == "" {
		return nil, errors.ErrMissingRequiredParameter("code")
	}

	client, err := resolveClient(ctx, g.clientRepo, params)
	if err != nil {
		return nil, err
	}

	session, err := g.sessionRepo.FindByCode(ctx, params.Code)
	if err != nil {
		return nil, errors.ErrInvalidGrant("authorization code is invalid")
	}
	if session.IsExpired() {
		return nil, errors.ErrSessionExpired()
	}
	if !session.IsAuthenticated() {
		return nil, errors.ErrInvalidGrant("authorization code is not bound to a user")
	}
	if session.ClientID != client.ID {
		return nil, errors.ErrInvalidGrant("authorization code was issued to another client")
	}

	user, err := g.userRepo.FindByID(ctx, *session.UserID)
	if err != nil {
		return nil, err
	}

	pair, err := g.tokens.IssueUserTokenPair(ctx, params.Realm, user, client.ClientID)
	if err != nil {
		return nil, err
	}

	// Consume the code.
	if err := g.sessionRepo.Delete(ctx, session.ID); err != nil {
		g.log.Warn(ctx, "failed to delete redeemed auth session",
			logger.String("session_id", session.ID.String()),
			logger.Error(err),
		)
	}

	return pair, nil
}
