// Package models defines the domain models for the identity provider.
// This file contains the JWT claim set issued and verified per realm.
package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// JwtClaim is the claim set carried by every token this server issues.
// The typ claim discriminates short-lived Bearer (access) tokens from
// Refresh tokens; client_id is present on service-account tokens only.
// JwtClaim 是该服务器签发的每个令牌携带的声明集。
// typ 声明区分短期 Bearer（访问）令牌和 Refresh 令牌；
// client_id 仅出现在服务账户令牌上。
type JwtClaim struct {
	// Sub is the subject user id.
	Sub uuid.UUID `json:"sub"`

	// Iat is the issue time as unix seconds.
	Iat int64 `json:"iat"`

	// Jti is the token's unique id, the revocation key for refresh tokens.
	// Jti 是令牌的唯一 ID，也是刷新令牌的吊销键。
	Jti uuid.UUID `json:"jti"`

	// Iss is the issuer URL, {base_url}/realms/{realm_name}.
	Iss string `json:"iss"`

	// Typ is Bearer or Refresh.
	Typ constants.TokenType `json:"typ"`

	// Azp is the authorized party, the requesting client_id.
	Azp string `json:"azp"`

	// Aud is the audience list: "{realm}-realm" and "account".
	Aud []string `json:"aud"`

	// Exp is the expiry as unix seconds.
	Exp *int64 `json:"exp,omitempty"`

	PreferredUsername *string `json:"preferred_username,omitempty"`

	Email *string `json:"email,omitempty"`

	// ClientID marks service-account tokens.
	ClientID *string `json:"client_id,omitempty"`
}

// NewBearerClaim builds the claim set of a 5-minute access token.
// NewBearerClaim 构建 5 分钟访问令牌的声明集。
func NewBearerClaim(sub uuid.UUID, preferredUsername, iss string, aud []string, azp string, email *string) JwtClaim {
	now := time.Now().UTC()
	exp := now.Add(constants.AccessTokenTTL).Unix()

	return JwtClaim{
		Sub:               sub,
		Iat:               now.Unix(),
		Jti:               uuid.New(),
		Iss:               iss,
		Typ:               constants.TokenTypeBearer,
		Azp:               azp,
		Aud:               aud,
		Exp:               &exp,
		PreferredUsername: &preferredUsername,
		Email:             email,
	}
}

// NewRefreshClaim builds the claim set of a 24-hour refresh token.
// NewRefreshClaim 构建 24 小时刷新令牌的声明集。
func NewRefreshClaim(sub uuid.UUID, iss string, aud []string, azp string) JwtClaim {
	now := time.Now().UTC()
	exp := now.Add(constants.RefreshTokenTTL).Unix()

	return JwtClaim{
		Sub: sub,
		Iat: now.Unix(),
		Jti: uuid.New(),
		Iss: iss,
		Typ: constants.TokenTypeRefresh,
		Azp: azp,
		Aud: aud,
		Exp: &exp,
	}
}

// IsServiceAccount reports whether the claim belongs to a client's
// service-account identity.
func (c JwtClaim) IsServiceAccount() bool {
	return c.ClientID != nil
}

// IsExpired checks the exp claim against the current time. Tokens without
// an exp claim never expire here; verification rejects them upstream.
func (c JwtClaim) IsExpired() bool {
	if c.Exp == nil {
		return false
	}
	return time.Now().UTC().Unix() > *c.Exp
}

// The jwt.Claims interface lets the signing library consume this claim set
// directly. Audience validation is disabled during decoding, so GetAudience
// only serves encoding.

// GetExpirationTime implements jwt.Claims.
func (c JwtClaim) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.Exp == nil {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(*c.Exp, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c JwtClaim) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}

// GetNotBefore implements jwt.Claims.
func (c JwtClaim) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims.
func (c JwtClaim) GetIssuer() (string, error) {
	return c.Iss, nil
}

// GetSubject implements jwt.Claims.
func (c JwtClaim) GetSubject() (string, error) {
	return c.Sub.String(), nil
}

// GetAudience implements jwt.Claims.
func (c JwtClaim) GetAudience() (jwt.ClaimStrings, error) {
	return jwt.ClaimStrings(c.Aud), nil
}

// Jwt is a signed token together with its expiry.
type Jwt struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// JwkKey is the JWKS representation of a realm's public key.
// JwkKey 是 Realm 公钥的 JWKS 表示。
type JwkKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}
