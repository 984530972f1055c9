// Package models defines the domain models for the identity provider.
// This file contains the persisted realm signing keypair.
package models

import (
	"crypto/rsa"
	"time"

	"github.com/google/uuid"
)

// RealmKey is a realm's RSA signing keypair, generated lazily on first use
// and persisted PEM-encoded. The key id doubles as the JWKS kid.
// RealmKey 是 Realm 的 RSA 签名密钥对，首次使用时延迟生成并以 PEM 编码持久化。
// 密钥 ID 同时用作 JWKS 的 kid。
type RealmKey struct {
	// ID is the unique key identifier (kid).
	// ID 是唯一的密钥标识符 (kid)。
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// RealmID is the owning realm. One active key per realm.
	// RealmID 是所属的 Realm。每个 Realm 一个活动密钥。
	RealmID uuid.UUID `json:"realm_id" gorm:"type:uuid;uniqueIndex;not null"`

	// Algorithm is the JWS algorithm this key signs, RS256.
	Algorithm string `json:"algorithm"`

	// PrivateKeyPEM is the PKCS#1 PEM-encoded private key.
	PrivateKeyPEM string `json:"-"`

	// PublicKeyPEM is the PKIX PEM-encoded public key.
	// PublicKeyPEM 是 PKIX PEM 编码的公钥。
	PublicKeyPEM string `json:"public_key_pem"`

	// PrivateKey is the parsed private key, ignored by GORM.
	PrivateKey *rsa.PrivateKey `json:"-" gorm:"-"`

	// PublicKey is the parsed public key, ignored by GORM.
	PublicKey *rsa.PublicKey `json:"-" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRealmKey creates a signing key record with a time-ordered kid.
func NewRealmKey(realmID uuid.UUID, algorithm, privateKeyPEM, publicKeyPEM string) (*RealmKey, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &RealmKey{
		ID:            id,
		RealmID:       realmID,
		Algorithm:     algorithm,
		PrivateKeyPEM: privateKeyPEM,
		PublicKeyPEM:  publicKeyPEM,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
