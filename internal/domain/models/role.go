// Package models defines the domain models for the identity provider.
// This file contains the Role model, the carrier of permission sets.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role groups a set of permission names inside a realm. A role may be
// scoped to a client, which is how master-realm users carry delegated
// permissions for other realms.
// Role 在 Realm 内对一组权限名称进行分组。角色可以限定于某个客户端，
// 这是 master Realm 用户为其他 Realm 携带委派权限的方式。
type Role struct {
	// ID is the unique identifier of the role.
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// RealmID is the owning realm.
	RealmID uuid.UUID `json:"realm_id" gorm:"type:uuid;index;not null"`

	// ClientID scopes the role to a client when set.
	// ClientID 设置时将角色限定于某个客户端。
	ClientID *uuid.UUID `json:"client_id,omitempty" gorm:"type:uuid;index"`

	// Name is the role's display name, unique within the realm.
	Name string `json:"name" gorm:"not null"`

	Description *string `json:"description,omitempty"`

	// Permissions holds the stored permission names. Unknown names are
	// ignored during evaluation.
	// Permissions 保存存储的权限名称。评估时忽略未知名称。
	Permissions []string `json:"permissions" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRole creates a role with a time-ordered id.
func NewRole(realmID uuid.UUID, clientID *uuid.UUID, name string, description *string, permissions []string) (*Role, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Role{
		ID:          id,
		RealmID:     realmID,
		ClientID:    clientID,
		Name:        name,
		Description: description,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PermissionSet resolves the stored names into the permission set they
// encode, validated through a bitfield round trip.
func (r *Role) PermissionSet() []Permission {
	var parsed []Permission
	for _, name := range r.Permissions {
		if p, ok := PermissionFromName(name); ok {
			parsed = append(parsed, p)
		}
	}
	return FromBitfield(ToBitfield(parsed))
}
