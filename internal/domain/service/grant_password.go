package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

var _ GrantStrategy = (*passwordGrant)(nil)

// passwordGrant implements the resource-owner password grant. Only clients
// with direct access grants enabled may use it.
type passwordGrant struct {
	clientRepo repository.ClientRepository
	userRepo   repository.UserRepository
	auth       AuthenticationService
	tokens     TokenService
	log        logger.Logger
}

// NewPasswordGrant builds the password strategy.
func NewPasswordGrant(
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	auth AuthenticationService,
	tokens TokenService,
	log logger.Logger,
) GrantStrategy {
	return &passwordGrant{
		clientRepo: clientRepo,
		userRepo:   userRepo,
		auth:       auth,
		tokens:     tokens,
		log:        log,
	}
}

func (g *passwordGrant) Authenticate(ctx context.Context, params GrantParams) (*TokenPair, error) {
	if params.Username == "" {
		return nil, errors.ErrMissingRequiredParameter("username")
	}
	if params.Password == "" {
		return nil, errors.ErrMissingRequiredParameter("password")
	}

	client, err := resolveClient(ctx, g.clientRepo, params)
	if err != nil {
		return nil, err
	}
	// Clients without direct access grants may only use the password
	// grant as confidential callers.
	if !client.DirectAccessGrantsEnabled {
		if params.ClientSecret == "" {
			return nil, errors.ErrInvalidRequest("client_secret is required for the password grant")
		}
		if !client.SecretMatches(params.ClientSecret) {
			return nil, errors.ErrInvalidClientSecret(params.ClientID)
		}
	}

	user, err := g.userRepo.FindByUsername(ctx, params.Realm.ID, params.Username)
	if err != nil {
		return nil, errors.ErrUserNotFound(params.Username)
	}
	if !user.Enabled {
		return nil, errors.ErrUserNotFound(params.Username)
	}

	if _, err := g.auth.VerifyPassword(ctx, user, params.Password); err != nil {
		g.log.Warn(ctx, "password grant rejected",
			logger.String("realm", params.Realm.Name),
			logger.String("client_id", client.ClientID),
			logger.String("username", params.Username),
		)
		return nil, err
	}

	return g.tokens.IssueUserTokenPair(ctx, params.Realm, user, client.ClientID)
}
