package dto

import (
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
)

// OpenIDConfigurationResponse is the discovery document served under
// /.well-known/openid-configuration for each realm.
// OpenIDConfigurationResponse 是每个 Realm 在 /.well-known/openid-configuration
// 下提供的发现文档。
type OpenIDConfigurationResponse struct {
	Issuer                        string   `json:"issuer"`
	AuthorizationEndpoint         string   `json:"authorization_endpoint"`
	TokenEndpoint                 string   `json:"token_endpoint"`
	JwksURI                       string   `json:"jwks_uri"`
	ResponseTypesSupported        []string `json:"response_types_supported"`
	GrantTypesSupported           []string `json:"grant_types_supported"`
	SubjectTypesSupported         []string `json:"subject_types_supported"`
	IDTokenSigningAlgValues       []string `json:"id_token_signing_alg_values_supported"`
	TokenEndpointAuthMethods      []string `json:"token_endpoint_auth_methods_supported"`
	ScopesSupported               []string `json:"scopes_supported"`
	ClaimsSupported               []string `json:"claims_supported"`
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported,omitempty"`
}

// JwksResponse 是 JWKS 端点响应
type JwksResponse struct {
	Keys []models.JwkKey `json:"keys"`
}
