// Package models defines the domain models for the identity provider.
// This file contains the Realm domain model, the tenant boundary of the system.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// Realm represents an isolated tenant boundary. Each realm owns its own
// clients, users, roles and RSA signing keypair.
// Realm 代表一个隔离的租户边界。每个 Realm 拥有自己的客户端、用户、角色和 RSA 签名密钥对。
type Realm struct {
	// ID is the unique identifier of the realm.
	// ID 是 Realm 的唯一标识符。
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// Name is the unique, URL-visible name of the realm.
	// Name 是 Realm 的唯一且在 URL 中可见的名称。
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	// CreatedAt is the timestamp when the realm was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last update to the realm.
	UpdatedAt time.Time `json:"updated_at"`
}

// RealmSetting stores per-realm signing configuration.
// RealmSetting 存储每个 Realm 的签名配置。
type RealmSetting struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	RealmID uuid.UUID `json:"realm_id" gorm:"type:uuid;index;not null"`

	// DefaultSigningAlgorithm is the JWS algorithm used for new tokens.
	DefaultSigningAlgorithm string `json:"default_signing_algorithm"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewRealm creates a realm with a time-ordered id.
// NewRealm 创建一个具有时间有序 ID 的 Realm。
func NewRealm(name string) (*Realm, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Realm{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewRealmSetting creates the signing settings row for a realm.
func NewRealmSetting(realmID uuid.UUID, algorithm string) (*RealmSetting, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return &RealmSetting{
		ID:                      id,
		RealmID:                 realmID,
		DefaultSigningAlgorithm: algorithm,
		UpdatedAt:               time.Now().UTC(),
	}, nil
}

// IsMaster reports whether this is the bootstrap realm with cross-realm reach.
// IsMaster 报告这是否是具有跨 Realm 访问权限的引导 Realm。
func (r *Realm) IsMaster() bool {
	return r.Name == constants.MasterRealmName
}

// CanDelete reports whether the realm may be removed. The master realm is
// permanent.
func (r *Realm) CanDelete() bool {
	return r.Name != constants.MasterRealmName
}

// Audience returns the realm-scoped audience entry placed on every token
// issued under this realm.
func (r *Realm) Audience() string {
	return r.Name + constants.RealmClientSuffix
}
