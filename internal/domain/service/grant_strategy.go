// Package service 定义领域服务接口
// 授权模式策略 - 令牌端点按 grant_type 分派到对应的策略实现
package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
)

// GrantParams carries the token endpoint's form parameters. Each strategy
// reads the subset it needs and rejects requests missing a required field.
type GrantParams struct {
	Realm        *models.Realm
	ClientID     string
	ClientSecret string
	Code         string
	Username     string
	Password     string
	RefreshToken string
}

// GrantStrategy handles one OAuth2 grant type.
type GrantStrategy interface {
	// Authenticate validates the request and issues a token pair.
	Authenticate(ctx context.Context, params GrantParams) (*TokenPair, error)
}

// GrantDispatcher routes a token request to the strategy registered for its
// grant_type.
type GrantDispatcher struct {
	strategies map[constants.GrantType]GrantStrategy
}

// NewGrantDispatcher registers the four supported grant types.
func NewGrantDispatcher(
	authorizationCode GrantStrategy,
	password GrantStrategy,
	clientCredentials GrantStrategy,
	refreshToken GrantStrategy,
) *GrantDispatcher {
	return &GrantDispatcher{
		strategies: map[constants.GrantType]GrantStrategy{
			constants.GrantTypeAuthorizationCode: authorizationCode,
			constants.GrantTypePassword:          password,
			constants.GrantTypeClientCredentials: clientCredentials,
			constants.GrantTypeRefreshToken:      refreshToken,
		},
	}
}

// Dispatch invokes the strategy for grantType, or rejects unknown types.
func (d *GrantDispatcher) Dispatch(ctx context.Context, grantType constants.GrantType, params GrantParams) (*TokenPair, error) {
	strategy, ok := d.strategies[grantType]
	if !ok {
		return nil, errors.ErrUnsupportedGrantType(string(grantType))
	}
	return strategy.Authenticate(ctx, params)
}

// resolveClient loads and authenticates the requesting client. Public
// clients carry no secret; confidential clients must present theirs.
func resolveClient(ctx context.Context, clientRepo repository.ClientRepository, params GrantParams) (*models.Client, error) {
	if params.ClientID == "" {
		return nil, errors.ErrMissingRequiredParameter("client_id")
	}

	client, err := clientRepo.FindByClientID(ctx, params.Realm.ID, params.ClientID)
	if err != nil {
		return nil, errors.ErrClientNotFound(params.ClientID)
	}
	if !client.Enabled {
		return nil, errors.ErrClientDisabled(params.ClientID)
	}
	if !client.PublicClient && !client.SecretMatches(params.ClientSecret) {
		return nil, errors.ErrInvalidClientSecret(params.ClientID)
	}

	return client, nil
}
