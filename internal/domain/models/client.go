// Package models defines the domain models for the identity provider.
// This file contains the OAuth2 client model and its redirect URI entries.
package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Client is an OAuth2 relying party registered under exactly one realm.
// Client 是在一个 Realm 下注册的 OAuth2 依赖方。
type Client struct {
	// ID is the unique identifier of the client record.
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// RealmID is the owning realm.
	// RealmID 是所属的 Realm。
	RealmID uuid.UUID `json:"realm_id" gorm:"type:uuid;index:idx_clients_realm_client,unique;not null"`

	// ClientID is the OAuth2 client identifier, unique within the realm.
	// ClientID 是 OAuth2 客户端标识符，在 Realm 内唯一。
	ClientID string `json:"client_id" gorm:"index:idx_clients_realm_client,unique;not null"`

	// Name is the display name of the client.
	Name string `json:"name"`

	// Secret is the confidential client secret. Empty for public clients.
	// Secret 是机密客户端密钥。公共客户端为空。
	Secret *string `json:"secret,omitempty"`

	// Enabled gates every flow involving this client.
	Enabled bool `json:"enabled"`

	// Protocol is the auth protocol the client speaks, e.g. "openid-connect".
	Protocol string `json:"protocol"`

	// PublicClient marks clients that cannot hold a secret.
	PublicClient bool `json:"public_client"`

	// ServiceAccountEnabled marks clients owning a linked service-account user.
	// ServiceAccountEnabled 标记拥有关联服务账户用户的客户端。
	ServiceAccountEnabled bool `json:"service_account_enabled"`

	// DirectAccessGrantsEnabled allows the password grant without a client secret.
	DirectAccessGrantsEnabled bool `json:"direct_access_grants_enabled"`

	// ClientType is a free-form classification, e.g. "confidential".
	ClientType string `json:"client_type"`

	// RedirectUris are the registered redirect URI entries.
	RedirectUris []RedirectUri `json:"redirect_uris,omitempty" gorm:"foreignKey:ClientID;references:ID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedirectUri is one registered redirect target of a client. Value is either
// a literal URI or a regular expression.
// RedirectUri 是客户端注册的一个重定向目标。Value 是字面 URI 或正则表达式。
type RedirectUri struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	ClientID uuid.UUID `json:"client_id" gorm:"type:uuid;index;not null"`

	// Value is the literal URI or regex pattern to match against.
	Value string `json:"value" gorm:"not null"`

	// Enabled entries are the only ones considered during matching.
	Enabled bool `json:"enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientConfig carries the fields needed to register a client.
type ClientConfig struct {
	RealmID                   uuid.UUID
	Name                      string
	ClientID                  string
	Secret                    *string
	Enabled                   bool
	Protocol                  string
	PublicClient              bool
	ServiceAccountEnabled     bool
	DirectAccessGrantsEnabled bool
	ClientType                string
}

// NewClient creates a client with a time-ordered id.
func NewClient(config ClientConfig) (*Client, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Client{
		ID:                        id,
		RealmID:                   config.RealmID,
		ClientID:                  config.ClientID,
		Name:                      config.Name,
		Secret:                    config.Secret,
		Enabled:                   config.Enabled,
		Protocol:                  config.Protocol,
		PublicClient:              config.PublicClient,
		ServiceAccountEnabled:     config.ServiceAccountEnabled,
		DirectAccessGrantsEnabled: config.DirectAccessGrantsEnabled,
		ClientType:                config.ClientType,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}, nil
}

// NewRedirectUri creates a redirect URI entry for a client.
func NewRedirectUri(clientID uuid.UUID, value string, enabled bool) (*RedirectUri, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &RedirectUri{
		ID:        id,
		ClientID:  clientID,
		Value:     value,
		Enabled:   enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SecretMatches compares a presented secret against the stored one. Clients
// without a secret never match.
func (c *Client) SecretMatches(presented string) bool {
	return c.Secret != nil && *c.Secret == presented
}

// MatchesRedirectURI checks a requested redirect URI against the client's
// enabled entries. An entry matches by exact string comparison first; when
// that fails the stored value is treated as a regex and tested for
// containment. Invalid patterns simply do not match.
// MatchesRedirectURI 将请求的重定向 URI 与客户端已启用的条目进行匹配。
// 先进行精确字符串比较；失败时将存储值视为正则表达式进行包含测试。
func (c *Client) MatchesRedirectURI(redirectURI string) bool {
	for _, entry := range c.RedirectUris {
		if !entry.Enabled {
			continue
		}
		if entry.Value == redirectURI {
			return true
		}
		re, err := regexp.Compile(entry.Value)
		if err != nil {
			continue
		}
		if re.MatchString(redirectURI) {
			return true
		}
	}
	return false
}
