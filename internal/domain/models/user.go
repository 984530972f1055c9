// Package models defines the domain models for the identity provider.
// This file contains the User model and its pending required actions.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequiredAction is a pending per-user obligation that gates full
// authentication until resolved.
// RequiredAction 是一个待处理的用户义务，在解决之前会阻止完整的身份验证。
type RequiredAction string

const (
	// RequiredActionConfigureOtp forces the user through OTP enrollment
	RequiredActionConfigureOtp RequiredAction = "configure_otp"

	// RequiredActionVerifyEmail forces email verification
	RequiredActionVerifyEmail RequiredAction = "verify_email"

	// RequiredActionUpdatePassword forces a password change, set when the
	// password credential is temporary
	RequiredActionUpdatePassword RequiredAction = "update_password"
)

// ParseRequiredAction validates a stored required-action string.
func ParseRequiredAction(value string) (RequiredAction, error) {
	switch RequiredAction(value) {
	case RequiredActionConfigureOtp, RequiredActionVerifyEmail, RequiredActionUpdatePassword:
		return RequiredAction(value), nil
	default:
		return "", fmt.Errorf("invalid required action: %s", value)
	}
}

// User is a principal inside a realm. A user created as a service account
// carries the owning client's id in ClientID.
// User 是 Realm 内的主体。作为服务账户创建的用户在 ClientID 中携带所属客户端的 ID。
type User struct {
	// ID is the unique identifier of the user.
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// RealmID is the user's home realm.
	// RealmID 是用户的主 Realm。
	RealmID uuid.UUID `json:"realm_id" gorm:"type:uuid;index:idx_users_realm_username,unique;not null"`

	// ClientID links a service-account user to its owning client.
	// ClientID 将服务账户用户链接到其所属客户端。
	ClientID *uuid.UUID `json:"client_id,omitempty" gorm:"type:uuid;index"`

	// Username is unique within the realm.
	Username string `json:"username" gorm:"index:idx_users_realm_username,unique;not null"`

	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`

	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`

	// Enabled gates authentication for this user.
	Enabled bool `json:"enabled"`

	// Roles are the user's assigned roles, loaded with the user.
	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles;"`

	// Realm is the resolved home realm, loaded with the user.
	Realm *Realm `json:"realm,omitempty" gorm:"foreignKey:RealmID"`

	// RequiredActions are the pending obligations gating full sessions.
	// RequiredActions 是阻止完整会话的待处理义务。
	RequiredActions []RequiredAction `json:"required_actions" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserConfig carries the fields needed to create a user.
type UserConfig struct {
	RealmID       uuid.UUID
	ClientID      *uuid.UUID
	Username      string
	Firstname     string
	Lastname      string
	Email         string
	EmailVerified bool
	Enabled       bool
}

// NewUser creates a user with a time-ordered id.
func NewUser(config UserConfig) (*User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:              id,
		RealmID:         config.RealmID,
		ClientID:        config.ClientID,
		Username:        config.Username,
		Firstname:       config.Firstname,
		Lastname:        config.Lastname,
		Email:           config.Email,
		EmailVerified:   config.EmailVerified,
		Enabled:         config.Enabled,
		RequiredActions: []RequiredAction{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsServiceAccount reports whether this user is the runtime identity of a client.
func (u *User) IsServiceAccount() bool {
	return u.ClientID != nil
}

// HasRequiredActions reports whether any obligation is still pending.
func (u *User) HasRequiredActions() bool {
	return len(u.RequiredActions) > 0
}

// HasRequiredAction reports whether a specific obligation is pending.
func (u *User) HasRequiredAction(action RequiredAction) bool {
	for _, a := range u.RequiredActions {
		if a == action {
			return true
		}
	}
	return false
}

// AddRequiredAction appends an obligation if not already present.
func (u *User) AddRequiredAction(action RequiredAction) {
	if !u.HasRequiredAction(action) {
		u.RequiredActions = append(u.RequiredActions, action)
		u.UpdatedAt = time.Now().UTC()
	}
}

// RemoveRequiredAction clears a resolved obligation.
func (u *User) RemoveRequiredAction(action RequiredAction) {
	var remaining []RequiredAction
	for _, a := range u.RequiredActions {
		if a != action {
			remaining = append(remaining, a)
		}
	}
	u.RequiredActions = remaining
	u.UpdatedAt = time.Now().UTC()
}
