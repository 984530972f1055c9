// Package models defines the domain models for the identity provider.
// This file contains the Credential model, one authentication factor of a user.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// CredentialData carries algorithm metadata stored alongside the secret.
// CredentialData 携带与密钥一起存储的算法元数据。
type CredentialData struct {
	HashIterations int    `json:"hash_iterations"`
	Algorithm      string `json:"algorithm"`
}

// Credential is one authentication factor for a user: a salted password
// hash, a TOTP shared secret, or a custom factor.
// Credential 是用户的一个身份验证因子：加盐密码哈希、TOTP 共享密钥或自定义因子。
type Credential struct {
	// ID is the unique identifier of the credential.
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// UserID is the owning user.
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`

	// CredentialType discriminates the factor, e.g. "password" or "otp".
	// CredentialType 区分因子类型，例如 "password" 或 "otp"。
	CredentialType string `json:"credential_type" gorm:"not null"`

	// UserLabel is an optional user-assigned label, e.g. a device name.
	UserLabel *string `json:"user_label,omitempty"`

	// SecretData is the stored secret: the password hash or the base32 TOTP secret.
	SecretData string `json:"-"`

	// CredentialData is the algorithm metadata for the stored secret.
	CredentialData CredentialData `json:"credential_data" gorm:"serializer:json"`

	// Salt is the random salt used for password hashing.
	Salt *string `json:"-"`

	// Temporary passwords force an UpdatePassword required action at login.
	// Temporary 密码在登录时强制执行 UpdatePassword 必需操作。
	Temporary bool `json:"temporary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCredential creates a credential with a time-ordered id.
func NewCredential(userID uuid.UUID, credentialType, secretData string, salt *string, data CredentialData, temporary bool) (*Credential, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Credential{
		ID:             id,
		UserID:         userID,
		CredentialType: credentialType,
		SecretData:     secretData,
		Salt:           salt,
		CredentialData: data,
		Temporary:      temporary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsPassword reports whether this is a password credential.
func (c *Credential) IsPassword() bool {
	return c.CredentialType == string(constants.CredentialTypePassword)
}

// IsOTP reports whether this is a TOTP credential.
func (c *Credential) IsOTP() bool {
	return c.CredentialType == string(constants.CredentialTypeOTP)
}
