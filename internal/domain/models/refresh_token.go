// Package models defines the domain models for the identity provider.
// This file contains the server-side refresh token record.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the server-side record backing a refresh JWT, keyed by the
// token's jti claim. It exists so refresh tokens can be revoked or rotated
// independently of their embedded expiry.
// RefreshToken 是支持刷新 JWT 的服务器端记录，以令牌的 jti 声明为键。
// 它的存在使刷新令牌可以独立于其内嵌过期时间被吊销或轮换。
type RefreshToken struct {
	// ID is the record id.
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// Jti mirrors the jti claim of the issued refresh JWT.
	// Jti 对应已签发刷新 JWT 的 jti 声明。
	Jti uuid.UUID `json:"jti" gorm:"type:uuid;uniqueIndex;not null"`

	// UserID is the subject the token was issued to.
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`

	// Revoked marks the token unusable before its expiry.
	Revoked bool `json:"revoked"`

	// ExpiresAt mirrors the exp claim; nil means no store-side expiry.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewRefreshToken creates the record for a freshly issued refresh JWT.
func NewRefreshToken(jti, userID uuid.UUID, expiresAt *time.Time) (*RefreshToken, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return &RefreshToken{
		ID:        id,
		Jti:       jti,
		UserID:    userID,
		Revoked:   false,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// IsLive reports whether the record still authorizes a refresh: not revoked
// and not past its store-side expiry.
// IsLive 报告该记录是否仍授权刷新：未被吊销且未超过存储端过期时间。
func (t *RefreshToken) IsLive() bool {
	if t.Revoked {
		return false
	}
	if t.ExpiresAt != nil && time.Now().UTC().After(*t.ExpiresAt) {
		return false
	}
	return true
}
