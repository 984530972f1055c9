package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// CryptoService defines the interface for realm-scoped cryptographic
// operations: signing key provisioning, JWT signing and verification.
type CryptoService interface {
	// SignClaims signs the claim set with the realm's private key and
	// returns the compact JWT together with its expiry.
	SignClaims(ctx context.Context, realm *models.Realm, claims models.JwtClaim) (*models.Jwt, error)

	// VerifyToken parses the compact JWT, checks the RS256 signature
	// against the realm's public key and rejects expired tokens.
	VerifyToken(ctx context.Context, realm *models.Realm, tokenString string) (*models.JwtClaim, error)

	// RealmKey returns the realm's signing keypair, generating and
	// persisting one on first use. Concurrent first calls for the same
	// realm converge on a single stored key.
	RealmKey(ctx context.Context, realm *models.Realm) (*models.RealmKey, error)

	// RealmJwks returns the JWKS view of the realm's public key.
	RealmJwks(ctx context.Context, realm *models.Realm) ([]models.JwkKey, error)
}
