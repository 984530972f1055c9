package crypto

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"math/big"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

var _ service.CryptoService = (*JwtManager)(nil)

// JwtManager implements CryptoService: it signs and verifies compact JWTs
// with the realm's RS256 keypair and exposes the JWKS view of the public key.
// JwtManager 实现 CryptoService：使用 Realm 的 RS256 密钥对签名和验证紧凑 JWT，
// 并暴露公钥的 JWKS 视图。
type JwtManager struct {
	keys   *KeyManager
	logger logger.Logger
}

// NewJwtManager creates the JWT signing service.
func NewJwtManager(keys *KeyManager, log logger.Logger) *JwtManager {
	return &JwtManager{keys: keys, logger: log}
}

func (j *JwtManager) SignClaims(ctx context.Context, realm *models.Realm, claims models.JwtClaim) (*models.Jwt, error) {
	key, err := j.keys.RealmKey(ctx, realm)
	if err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = key.ID.String()

	signed, err := token.SignedString(key.PrivateKey)
	if err != nil {
		j.logger.Error(ctx, "failed to sign token", err,
			logger.String("realm", realm.Name),
		)
		return nil, errors.ErrServerError("token signing failed").WithCause(err)
	}

	var expiresAt int64
	if claims.Exp != nil {
		expiresAt = *claims.Exp
	}
	return &models.Jwt{Token: signed, ExpiresAt: expiresAt}, nil
}

func (j *JwtManager) VerifyToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error) {
	key, err := j.keys.RealmKey(ctx, realm)
	if err != nil {
		return nil, err
	}

	claims := &models.JwtClaim{}
	token, parseErr := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key.PublicKey, nil
	}, jwt.WithValidMethods([]string{string(constants.AlgorithmRS256)}))

	if parseErr != nil {
		if stderrors.Is(parseErr, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired()
		}
		return nil, errors.ErrInvalidToken(parseErr.Error())
	}
	if !token.Valid {
		return nil, errors.ErrInvalidToken("signature verification failed")
	}
	if claims.IsExpired() {
		return nil, errors.ErrTokenExpired()
	}
	return claims, nil
}

func (j *JwtManager) RealmKey(ctx context.Context, realm *models.Realm) (*models.RealmKey, error) {
	return j.keys.RealmKey(ctx, realm)
}

// RealmJwks returns the JWKS document entries for the realm. A single entry
// today, but the list form matches the published format and leaves room for
// rotation.
func (j *JwtManager) RealmJwks(ctx context.Context, realm *models.Realm) ([]models.JwkKey, error) {
	key, err := j.keys.RealmKey(ctx, realm)
	if err != nil {
		return nil, err
	}

	e := big.NewInt(int64(key.PublicKey.E))
	return []models.JwkKey{
		{
			Kid: key.ID.String(),
			Kty: "RSA",
			Use: "sig",
			Alg: string(constants.AlgorithmRS256),
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(e.Bytes()),
		},
	}, nil
}
