package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

var _ GrantStrategy = (*clientCredentialsGrant)(nil)

// clientCredentialsGrant issues tokens for a client's service account. The
// client must be confidential, enabled for service accounts, and present a
// matching secret.
type clientCredentialsGrant struct {
	clientRepo repository.ClientRepository
	userRepo   repository.UserRepository
	tokens     TokenService
	log        logger.Logger
}

// NewClientCredentialsGrant builds the client_credentials strategy.
func NewClientCredentialsGrant(
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	tokens TokenService,
	log logger.Logger,
) GrantStrategy {
	return &clientCredentialsGrant{
		clientRepo: clientRepo,
		userRepo:   userRepo,
		tokens:     tokens,
		log:        log,
	}
}

func (g *clientCredentialsGrant) Authenticate(ctx context.Context, params GrantParams) (*TokenPair, error) {
	if params.ClientSecret == "" {
		return nil, errors.ErrMissingRequiredParameter("client_secret")
	}

	client, err := resolveClient(ctx, g.clientRepo, params)
	if err != nil {
		return nil, err
	}
	if client.PublicClient {
		return nil, errors.ErrUnauthorizedClient("public clients cannot use the client_credentials grant")
	}
	if !client.ServiceAccountEnabled {
		return nil, errors.ErrUnauthorizedClient("service account is not enabled for this client")
	}

	serviceAccount, err := g.userRepo.FindServiceAccountByClientID(ctx, client.ID)
	if err != nil {
		return nil, errors.ErrServiceAccountNotFound(client.ClientID)
	}

	g.log.Debug(ctx, "client credentials grant",
		logger.String("realm", params.Realm.Name),
		logger.String("client_id", client.ClientID),
	)

	return g.tokens.IssueServiceAccountTokenPair(ctx, params.Realm, serviceAccount, client)
}
