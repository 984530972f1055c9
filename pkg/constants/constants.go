// Package constants defines system-wide constants for the identity provider.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Token Type Constants
// ================================================================================

// TokenType is the "typ" claim of an issued JWT.
type TokenType string

const (
	// TokenTypeBearer marks an access token usable against protected resources
	TokenTypeBearer TokenType = "Bearer"

	// TokenTypeRefresh marks a long-lived token only usable at the token endpoint
	TokenTypeRefresh TokenType = "Refresh"
)

// ================================================================================
// JWT Algorithm Constants
// ================================================================================

// JWTAlgorithm represents the signing algorithm for JWT tokens
type JWTAlgorithm string

const (
	// AlgorithmRS256 represents RSA signature with SHA-256 (the only algorithm issued)
	AlgorithmRS256 JWTAlgorithm = "RS256"
)

// DefaultJWTAlgorithm is the algorithm used for realm token signing
const DefaultJWTAlgorithm = AlgorithmRS256

// ================================================================================
// Token and Session Lifetime Constants
// ================================================================================

const (
	// AccessTokenTTL is the lifetime of access tokens (5 minutes)
	AccessTokenTTL = 5 * time.Minute

	// RefreshTokenTTL is the lifetime of refresh tokens (24 hours)
	RefreshTokenTTL = 24 * time.Hour

	// AuthSessionTTL is the lifetime of an authorization-code session (10 minutes)
	AuthSessionTTL = 10 * time.Minute

	// TemporaryTokenTTL is the lifetime of tokens issued while authentication
	// is still gated on required actions or an OTP challenge
	TemporaryTokenTTL = 5 * time.Minute
)

// ================================================================================
// Realm Constants
// ================================================================================

const (
	// MasterRealmName is the bootstrap realm with cross-realm administrative reach
	MasterRealmName = "master"

	// RealmClientSuffix is appended to a target realm's name to form the name of
	// the master-realm client that carries delegated permissions for it
	RealmClientSuffix = "-realm"

	// AccountAudience is the second audience entry on every issued token
	AccountAudience = "account"
)

// ================================================================================
// Credential Type Constants
// ================================================================================

// CredentialType identifies one authentication factor of a user.
type CredentialType string

const (
	// CredentialTypePassword is a salted password hash credential
	CredentialTypePassword CredentialType = "password"

	// CredentialTypeOTP is a TOTP shared-secret credential
	CredentialTypeOTP CredentialType = "otp"
)

// ================================================================================
// TOTP Constants
// ================================================================================

const (
	// TotpSecretLength is the raw secret size in bytes before base32 encoding
	TotpSecretLength = 20

	// TotpDigits is the number of digits in a generated code
	TotpDigits = 6

	// TotpPeriod is the counter step in seconds
	TotpPeriod = 30

	// TotpSkewSteps is the accepted clock skew in counter steps on either side
	TotpSkewSteps = 1
)

// ================================================================================
// OAuth 2.0 Grant Type Constants
// ================================================================================

// GrantType represents OAuth 2.0 grant types
type GrantType string

const (
	// GrantTypeAuthorizationCode exchanges an authorization code for tokens
	GrantTypeAuthorizationCode GrantType = "authorization_code"

	// GrantTypePassword is the resource-owner password grant
	GrantTypePassword GrantType = "password"

	// GrantTypeClientCredentials issues tokens for a client's service account
	GrantTypeClientCredentials GrantType = "client_credentials"

	// GrantTypeRefreshToken rotates a refresh token into a fresh token pair
	GrantTypeRefreshToken GrantType = "refresh_token"
)

// ResponseType represents OAuth 2.0 authorization response types
type ResponseType string

const (
	// ResponseTypeCode is the authorization code response type, the only
	// one the authorization endpoint accepts
	ResponseTypeCode ResponseType = "code"
)

// ================================================================================
// OAuth 2.0 Error Code Constants
// ================================================================================

// ErrorCode represents OAuth 2.0 and domain error codes
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates the request is missing required parameters
	ErrCodeInvalidRequest ErrorCode = "invalid_request"

	// ErrCodeInvalidClient indicates client authentication failed
	ErrCodeInvalidClient ErrorCode = "invalid_client"

	// ErrCodeInvalidGrant indicates the provided grant is invalid or expired
	ErrCodeInvalidGrant ErrorCode = "invalid_grant"

	// ErrCodeUnauthorizedClient indicates the client is not authorized for this grant type
	ErrCodeUnauthorizedClient ErrorCode = "unauthorized_client"

	// ErrCodeUnsupportedGrantType indicates the grant type is not supported
	ErrCodeUnsupportedGrantType ErrorCode = "unsupported_grant_type"

	// ErrCodeInvalidScope indicates the requested scope is invalid or exceeds granted scope
	ErrCodeInvalidScope ErrorCode = "invalid_scope"

	// ErrCodeServerError indicates an internal server error occurred
	ErrCodeServerError ErrorCode = "server_error"

	// ErrCodeTemporarilyUnavailable indicates the service is temporarily unavailable
	ErrCodeTemporarilyUnavailable ErrorCode = "temporarily_unavailable"
)

// Domain error codes surfaced alongside the OAuth2 set.
const (
	// ErrCodeInvalidRealm indicates the realm does not exist
	ErrCodeInvalidRealm ErrorCode = "invalid_realm"

	// ErrCodeInvalidUser indicates the user could not be resolved
	ErrCodeInvalidUser ErrorCode = "invalid_user"

	// ErrCodeInvalidRedirectURI indicates no registered redirect URI matched
	ErrCodeInvalidRedirectURI ErrorCode = "invalid_redirect_uri"

	// ErrCodeSessionNotFound indicates the authorization session could not be resolved
	ErrCodeSessionNotFound ErrorCode = "session_not_found"

	// ErrCodeSessionExpired indicates the authorization session has expired
	ErrCodeSessionExpired ErrorCode = "session_expired"

	// ErrCodeExpiredToken indicates a token past its expiry or revoked
	ErrCodeExpiredToken ErrorCode = "expired_token"

	// ErrCodeForbidden indicates the identity lacks required permissions
	ErrCodeForbidden ErrorCode = "forbidden"

	// ErrCodeRateLimited indicates the caller exceeded the request budget
	ErrCodeRateLimited ErrorCode = "rate_limited"

	// ErrCodeWebhookFailed indicates an event notification could not be delivered
	ErrCodeWebhookFailed ErrorCode = "webhook_notification_failed"

	// ErrCodeKeyNotFound indicates a realm has no persisted signing key yet
	ErrCodeKeyNotFound ErrorCode = "signing_key_not_found"
)

// ================================================================================
// Rate Limiting Constants
// ================================================================================

const (
	// LoginRateLimitPerMinute caps authentication attempts per client and source
	LoginRateLimitPerMinute = 30

	// TokenRateLimitPerMinute caps token endpoint calls per client and source
	TokenRateLimitPerMinute = 120

	// RateLimitWindow is the sliding window for rate limiting counters
	RateLimitWindow = 1 * time.Minute
)

// RateLimitScope defines the scope level for rate limiting
type RateLimitScope string

const (
	// RateLimitScopeLogin applies to authentication attempts
	RateLimitScopeLogin RateLimitScope = "login"

	// RateLimitScopeToken applies to token endpoint calls
	RateLimitScopeToken RateLimitScope = "token"
)

// ================================================================================
// Cache Key Prefix Constants
// ================================================================================

const (
	// CacheKeyPrefixSession is the prefix for auth-session entries keyed by id
	CacheKeyPrefixSession = "authsession:"

	// CacheKeyPrefixSessionCode is the prefix for the code -> session index
	CacheKeyPrefixSessionCode = "authsession:code:"

	// CacheKeyPrefixRealmKey is the prefix for in-process realm keypair cache entries
	CacheKeyPrefixRealmKey = "realmkey:"

	// CacheKeyPrefixRateLimit is the prefix for rate limiting counter entries
	CacheKeyPrefixRateLimit = "ratelimit:"
)

// ================================================================================
// Key Management Constants
// ================================================================================

const (
	// RSAKeySize is the RSA modulus size for realm signing keys
	RSAKeySize = 2048

	// RealmKeyCacheTTL is the in-process cache lifetime for realm keypairs
	RealmKeyCacheTTL = 1 * time.Hour
)

// ================================================================================
// Audit Event Type Constants
// ================================================================================

// AuditEventType represents different types of auditable events
type AuditEventType string

const (
	// EventTypeLoginSuccess represents a completed authentication
	EventTypeLoginSuccess AuditEventType = "login_success"

	// EventTypeLoginFailure represents a failed authentication attempt
	EventTypeLoginFailure AuditEventType = "login_failure"

	// EventTypeTokenIssue represents token issuance events
	EventTypeTokenIssue AuditEventType = "token_issue"

	// EventTypeTokenRefresh represents refresh-token rotation events
	EventTypeTokenRefresh AuditEventType = "token_refresh"

	// EventTypeOtpEnrolled represents a user completing OTP setup
	EventTypeOtpEnrolled AuditEventType = "otp_enrolled"

	// EventTypeKeyProvisioned represents lazy realm keypair creation
	EventTypeKeyProvisioned AuditEventType = "key_provisioned"
)

// ================================================================================
// JWT Claim Keys
// ================================================================================

const (
	// ClaimKeyIssuer is the standard "iss" claim
	ClaimKeyIssuer = "iss"

	// ClaimKeySubject is the standard "sub" claim
	ClaimKeySubject = "sub"

	// ClaimKeyAudience is the standard "aud" claim
	ClaimKeyAudience = "aud"

	// ClaimKeyExpiresAt is the standard "exp" claim
	ClaimKeyExpiresAt = "exp"

	// ClaimKeyIssuedAt is the standard "iat" claim
	ClaimKeyIssuedAt = "iat"

	// ClaimKeyJWTID is the standard "jti" claim
	ClaimKeyJWTID = "jti"

	// ClaimKeyAuthorizedParty is the standard "azp" claim
	ClaimKeyAuthorizedParty = "azp"

	// ClaimKeyTokenType is the custom "typ" claim (Bearer or Refresh)
	ClaimKeyTokenType = "typ"

	// ClaimKeyPreferredUsername is the OIDC "preferred_username" claim
	ClaimKeyPreferredUsername = "preferred_username"

	// ClaimKeyEmail is the OIDC "email" claim
	ClaimKeyEmail = "email"

	// ClaimKeyClientID is the custom "client_id" claim, present on
	// service-account tokens only
	ClaimKeyClientID = "client_id"
)

// ================================================================================
// Service Configuration Constants
// ================================================================================

const (
	// DefaultServicePort is the default HTTP service port
	DefaultServicePort = 8080

	// DefaultHealthCheckPath is the health check endpoint path
	DefaultHealthCheckPath = "/health"

	// DefaultReadinessCheckPath is the readiness check endpoint path
	DefaultReadinessCheckPath = "/health/ready"

	// DefaultLivenessCheckPath is the liveness check endpoint path
	DefaultLivenessCheckPath = "/health/live"

	// DefaultRequestTimeout is the default request timeout (5 seconds)
	DefaultRequestTimeout = 5 * time.Second

	// DefaultShutdownTimeout is the graceful shutdown timeout (30 seconds)
	DefaultShutdownTimeout = 30 * time.Second
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	// LogLevelDebug is the most verbose logging level
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo is the standard informational logging level
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn indicates potential issues
	LogLevelWarn LogLevel = "warn"

	// LogLevelError indicates errors that need attention
	LogLevelError LogLevel = "error"

	// LogLevelFatal indicates critical errors that cause service termination
	LogLevelFatal LogLevel = "fatal"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyRealmName is the key for the realm name of the current request
	ContextKeyRealmName ContextKey = "realm_name"

	// ContextKeyIdentity is the key for the resolved caller identity
	ContextKeyIdentity ContextKey = "identity"

	// ContextKeyClientIP is the key for client IP address in context
	ContextKeyClientIP ContextKey = "client_ip"
)
