package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

var _ GrantStrategy = (*refreshTokenGrant)(nil)

// refreshTokenGrant rotates a live refresh token into a fresh pair. The
// presented token's jti is revoked before the new pair is issued, so each
// refresh token works exactly once.
type refreshTokenGrant struct {
	clientRepo repository.ClientRepository
	tokens     TokenService
	log        logger.Logger
}

// NewRefreshTokenGrant builds the refresh_token strategy.
func NewRefreshTokenGrant(
	clientRepo repository.ClientRepository,
	tokens TokenService,
	log logger.Logger,
) GrantStrategy {
	return &refreshTokenGrant{
		clientRepo: clientRepo,
		tokens:     tokens,
		log:        log,
	}
}

func (g *refreshTokenGrant) Authenticate(ctx context.Context, params GrantParams) (*TokenPair, error) {
	if params.RefreshToken == "" {
		return nil, errors.ErrMissingRequiredParameter("refresh_token")
	}

	client, err := resolveClient(ctx, g.clientRepo, params)
	if err != nil {
		return nil, err
	}

	claim, err := g.tokens.VerifyRefreshToken(ctx, params.Realm, params.RefreshToken)
	if err != nil {
		return nil, err
	}

	// A refresh token is bound to the client it was minted for.
	if claim.Azp != client.ClientID {
		g.log.Warn(ctx, "refresh token presented by a different client",
			logger.String("token_azp", claim.Azp),
			logger.String("client_id", client.ClientID))
		return nil, errors.ErrInvalidRefreshToken("token was issued to a different client")
	}

	return g.tokens.RotateRefreshToken(ctx, params.Realm, claim, client.ClientID)
}
