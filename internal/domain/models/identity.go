// Package models defines the domain models for the identity provider.
// This file contains the Identity sum type, the resolved caller of any
// authorization check.
package models

// Identity is the resolved caller of a request: a human User or a
// service-account Client. Exactly one of the two fields is set.
// Identity 是请求的已解析调用方：人类用户或服务账户客户端。两个字段中恰好设置一个。
type Identity struct {
	user   *User
	client *Client
}

// UserIdentity wraps a user as the acting identity.
func UserIdentity(user *User) Identity {
	return Identity{user: user}
}

// ClientIdentity wraps a service-account client as the acting identity.
func ClientIdentity(client *Client) Identity {
	return Identity{client: client}
}

// User returns the wrapped user, or nil when the identity is a client.
func (i Identity) User() *User {
	return i.user
}

// Client returns the wrapped client, or nil when the identity is a user.
func (i Identity) Client() *Client {
	return i.client
}

// IsUser reports whether the identity is a human user.
func (i Identity) IsUser() bool {
	return i.user != nil
}

// IsClient reports whether the identity is a service-account client.
func (i Identity) IsClient() bool {
	return i.client != nil
}
