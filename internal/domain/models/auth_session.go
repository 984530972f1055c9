// Package models defines the domain models for the identity provider.
// This file contains the AuthSession model, the state of an in-flight
// authorization-code flow.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// AuthSession tracks one authorization-code flow from initiation to code
// issuance. It starts unauthenticated with no code and no user; successful
// authentication binds a code and a user exactly once; the authorization_code
// grant then consumes the code. Expiry is checked at every read.
// AuthSession 跟踪一次授权码流程，从发起到授权码签发。
// 它以未认证状态开始，没有授权码和用户；认证成功后恰好绑定一次授权码和用户；
// 随后 authorization_code 授权消费该授权码。每次读取时都会检查过期。
type AuthSession struct {
	// ID is the time-ordered unique identifier, also used as the session code
	// handed to the login front end.
	ID uuid.UUID `json:"id"`

	// RealmID is the realm the flow runs under.
	RealmID uuid.UUID `json:"realm_id"`

	// ClientID is the initiating client's record id.
	ClientID uuid.UUID `json:"client_id"`

	// RedirectUri is the validated redirect target of this flow.
	RedirectUri string `json:"redirect_uri"`

	// ResponseType is the requested OAuth2 response type, normally "code".
	ResponseType string `json:"response_type"`

	// Scope is the requested scope string.
	Scope string `json:"scope"`

	// State is the client's CSRF binding value, echoed on the redirect.
	// State 是客户端的 CSRF 绑定值，在重定向时回传。
	State *string `json:"state,omitempty"`

	// Nonce is the OIDC replay protection value, if supplied.
	Nonce *string `json:"nonce,omitempty"`

	// UserID is bound together with Code when authentication succeeds.
	UserID *uuid.UUID `json:"user_id,omitempty"`

	// Code is the single-use authorization code.
	// Code 是一次性的授权码。
	Code *string `json:"code,omitempty"`

	// Authenticated is set when the code and user are bound.
	Authenticated bool `json:"authenticated"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is CreatedAt plus the session TTL. Sessions past this
	// moment are invalid regardless of their other state.
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthSessionParams carries the fields needed to open a session.
type AuthSessionParams struct {
	RealmID      uuid.UUID
	ClientID     uuid.UUID
	RedirectUri  string
	ResponseType string
	Scope        string
	State        *string
	Nonce        *string
}

// NewAuthSession opens an unauthenticated session with a time-ordered id.
// NewAuthSession 打开一个具有时间有序 ID 的未认证会话。
func NewAuthSession(params AuthSessionParams) (*AuthSession, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &AuthSession{
		ID:            id,
		RealmID:       params.RealmID,
		ClientID:      params.ClientID,
		RedirectUri:   params.RedirectUri,
		ResponseType:  params.ResponseType,
		Scope:         params.Scope,
		State:         params.State,
		Nonce:         params.Nonce,
		Authenticated: false,
		CreatedAt:     now,
		ExpiresAt:     now.Add(constants.AuthSessionTTL),
	}, nil
}

// IsExpired reports whether the session is past its expiry.
func (s *AuthSession) IsExpired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// IsAuthenticated reports whether a code and user have been bound.
func (s *AuthSession) IsAuthenticated() bool {
	return s.Authenticated && s.Code != nil && s.UserID != nil
}

// BindCodeAndUser transitions the session to its authenticated state. The
// repository enforces that this write happens at most once per session.
// BindCodeAndUser 将会话转换为已认证状态。仓储层保证每个会话最多写入一次。
func (s *AuthSession) BindCodeAndUser(code string, userID uuid.UUID) {
	s.Code = &code
	s.UserID = &userID
	s.Authenticated = true
}
