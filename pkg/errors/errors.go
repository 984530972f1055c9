// Package errors defines custom error types and error handling utilities for the identity provider.
// This package provides structured error types that map to OAuth 2.0 error codes and HTTP status codes.
package errors

import (
	"fmt"
	"net/http"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AuthError represents a structured error with additional metadata
type AuthError interface {
	error

	// Code returns the OAuth 2.0 or domain error code
	Code() constants.ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AuthError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) AuthError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

// baseError is the internal implementation of AuthError
type baseError struct {
	code        constants.ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface
func (e *baseError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.description
}

// Code returns the OAuth 2.0 or domain error code
func (e *baseError) Code() constants.ErrorCode {
	return e.code
}

// HTTPStatus returns the HTTP status code
func (e *baseError) HTTPStatus() int {
	return e.httpStatus
}

// Description returns the error description
func (e *baseError) Description() string {
	return e.description
}

// Unwrap returns the underlying cause error
func (e *baseError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause error to the error chain
func (e *baseError) WithCause(cause error) AuthError {
	e.cause = cause
	return e
}

// WithMetadata adds additional context metadata
func (e *baseError) WithMetadata(key string, value interface{}) AuthError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

// Metadata returns all metadata
func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new AuthError with the specified parameters
func NewError(code constants.ErrorCode, httpStatus int, description string, message string) AuthError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// OAuth 2.0 Error Constructors
// ================================================================================

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) AuthError {
	return NewError(
		constants.ErrCodeInvalidRequest,
		http.StatusBadRequest,
		"The request is missing a required parameter, includes an invalid parameter value, or is otherwise malformed.",
		message,
	)
}

// ErrInvalidClient creates an invalid_client error
func ErrInvalidClient(message string) AuthError {
	return NewError(
		constants.ErrCodeInvalidClient,
		http.StatusUnauthorized,
		"Client authentication failed (e.g., unknown client, disabled client, or bad client secret).",
		message,
	)
}

// ErrInvalidGrant creates an invalid_grant error
func ErrInvalidGrant(message string) AuthError {
	return NewError(
		constants.ErrCodeInvalidGrant,
		http.StatusBadRequest,
		"The provided authorization grant (authorization code, resource owner credentials) or refresh token is invalid, expired, or revoked.",
		message,
	)
}

// ErrUnauthorizedClient creates an unauthorized_client error
func ErrUnauthorizedClient(message string) AuthError {
	return NewError(
		constants.ErrCodeUnauthorizedClient,
		http.StatusBadRequest,
		"The authenticated client is not authorized to use this authorization grant type.",
		message,
	)
}

// ErrUnsupportedGrantType creates an unsupported_grant_type error
func ErrUnsupportedGrantType(message string) AuthError {
	return NewError(
		constants.ErrCodeUnsupportedGrantType,
		http.StatusBadRequest,
		"The authorization grant type is not supported by the authorization server.",
		message,
	)
}

// ErrServerError creates a server_error error
func ErrServerError(message string) AuthError {
	return NewError(
		constants.ErrCodeServerError,
		http.StatusInternalServerError,
		"The authorization server encountered an unexpected condition that prevented it from fulfilling the request.",
		message,
	)
}

// ErrTemporarilyUnavailable creates a temporarily_unavailable error
func ErrTemporarilyUnavailable(message string) AuthError {
	return NewError(
		constants.ErrCodeTemporarilyUnavailable,
		http.StatusServiceUnavailable,
		"The authorization server is currently unable to handle the request.",
		message,
	)
}

// ================================================================================
// Domain-Specific Error Constructors
// ================================================================================

// ErrRealmNotFound creates a realm resolution error
func ErrRealmNotFound(realmName string) AuthError {
	return NewError(
		constants.ErrCodeInvalidRealm,
		http.StatusNotFound,
		"Realm not found",
		fmt.Sprintf("realm not found: %s", realmName),
	).WithMetadata("realm", realmName)
}

// ErrClientNotFound creates a client resolution error
func ErrClientNotFound(clientID string) AuthError {
	return ErrInvalidClient(fmt.Sprintf("client not found: %s", clientID)).
		WithMetadata("client_id", clientID)
}

// ErrClientDisabled creates a disabled client error
func ErrClientDisabled(clientID string) AuthError {
	return ErrInvalidClient(fmt.Sprintf("client is disabled: %s", clientID)).
		WithMetadata("client_id", clientID)
}

// ErrInvalidClientSecret creates a client secret mismatch error
func ErrInvalidClientSecret(clientID string) AuthError {
	return ErrInvalidClient(fmt.Sprintf("invalid client secret for client: %s", clientID)).
		WithMetadata("client_id", clientID)
}

// ErrUserNotFound creates a user resolution error
func ErrUserNotFound(username string) AuthError {
	return NewError(
		constants.ErrCodeInvalidUser,
		http.StatusUnauthorized,
		"User not found",
		fmt.Sprintf("user not found: %s", username),
	).WithMetadata("username", username)
}

// ErrServiceAccountNotFound indicates a client_credentials grant against a
// client with no linked service-account user
func ErrServiceAccountNotFound(clientID string) AuthError {
	return ErrInvalidGrant(fmt.Sprintf("no service account for client: %s", clientID)).
		WithMetadata("client_id", clientID)
}

// ErrInvalidPassword creates a credential verification failure error
func ErrInvalidPassword() AuthError {
	return NewError(
		constants.ErrCodeInvalidGrant,
		http.StatusUnauthorized,
		"Invalid user credentials",
		"invalid username or password",
	)
}

// ErrInvalidRedirectURI indicates no registered redirect URI matched the request
func ErrInvalidRedirectURI(redirectURI string) AuthError {
	return NewError(
		constants.ErrCodeInvalidRedirectURI,
		http.StatusBadRequest,
		"Redirect URI is not registered for this client",
		fmt.Sprintf("redirect_uri did not match any registered entry: %s", redirectURI),
	).WithMetadata("redirect_uri", redirectURI)
}

// ErrSessionNotFound creates an authorization session lookup error
func ErrSessionNotFound() AuthError {
	return NewError(
		constants.ErrCodeSessionNotFound,
		http.StatusUnauthorized,
		"Authorization session not found",
		"authorization session not found",
	)
}

// ErrSessionExpired creates an expired session error
func ErrSessionExpired() AuthError {
	return NewError(
		constants.ErrCodeSessionExpired,
		http.StatusUnauthorized,
		"Authorization session has expired",
		"authorization session has expired",
	)
}

// ErrTokenExpired creates a token expired error. Revoked refresh tokens
// surface through this same constructor so revocation state is not leaked.
func ErrTokenExpired() AuthError {
	return NewError(
		constants.ErrCodeExpiredToken,
		http.StatusUnauthorized,
		"Token has expired",
		"token has expired",
	)
}

// ErrInvalidToken creates a token validation error
func ErrInvalidToken(reason string) AuthError {
	return NewError(
		constants.ErrCodeInvalidGrant,
		http.StatusUnauthorized,
		"Token validation failed",
		fmt.Sprintf("token validation failed: %s", reason),
	)
}

// ErrInvalidRefreshToken creates a refresh token error
func ErrInvalidRefreshToken(reason string) AuthError {
	return ErrInvalidGrant(fmt.Sprintf("invalid refresh token: %s", reason))
}

// ErrForbidden creates an insufficient-permission error
func ErrForbidden(message string) AuthError {
	return NewError(
		constants.ErrCodeForbidden,
		http.StatusForbidden,
		"Insufficient permissions for this operation",
		message,
	)
}

// ErrInvalidOtpSecret indicates an OTP secret that does not decode to the
// expected length. Wrong codes never produce an error, only a false result.
func ErrInvalidOtpSecret() AuthError {
	return ErrInvalidRequest("otp secret has an invalid format")
}

// ErrRateLimitExceeded creates a rate limit exceeded error
func ErrRateLimitExceeded(scope string, limit int) AuthError {
	return NewError(
		constants.ErrCodeRateLimited,
		http.StatusTooManyRequests,
		"Rate limit exceeded. Please try again later.",
		fmt.Sprintf("rate limit exceeded for scope '%s': %d requests", scope, limit),
	).WithMetadata("scope", scope).
		WithMetadata("limit", limit)
}

// ErrFailedWebhookNotification indicates an audit/webhook event could not be
// published. The primary state change has already succeeded and is not rolled
// back.
func ErrFailedWebhookNotification(event string) AuthError {
	return NewError(
		constants.ErrCodeWebhookFailed,
		http.StatusInternalServerError,
		"Event notification delivery failed",
		fmt.Sprintf("failed to deliver webhook notification for event: %s", event),
	).WithMetadata("event", event)
}

// ErrSigningKeyNotFound indicates the realm has no persisted signing key.
// The key manager treats this as a cue to generate one.
func ErrSigningKeyNotFound(realmID string) AuthError {
	return NewError(
		constants.ErrCodeKeyNotFound,
		http.StatusInternalServerError,
		"Realm signing key not found",
		fmt.Sprintf("no signing key persisted for realm: %s", realmID),
	).WithMetadata("realm_id", realmID)
}

// ErrDatabaseConnectionFailed creates a database connection failed error
func ErrDatabaseConnectionFailed(reason string) AuthError {
	return ErrServerError(fmt.Sprintf("failed to connect to database: %s", reason)).
		WithMetadata("reason", reason)
}

// ErrCacheConnectionFailed creates a cache connection failed error
func ErrCacheConnectionFailed(reason string) AuthError {
	return ErrServerError(fmt.Sprintf("failed to connect to cache: %s", reason)).
		WithMetadata("reason", reason)
}

// ErrMissingRequiredParameter creates a missing required parameter error
func ErrMissingRequiredParameter(paramName string) AuthError {
	return ErrInvalidRequest(fmt.Sprintf("missing required parameter: %s", paramName)).
		WithMetadata("parameter", paramName)
}

// ================================================================================
// Error Validation Utilities
// ================================================================================

// IsAuthError checks if an error is an AuthError
func IsAuthError(err error) bool {
	_, ok := err.(AuthError)
	return ok
}

// AsAuthError attempts to cast an error to AuthError
func AsAuthError(err error) (AuthError, bool) {
	authErr, ok := err.(AuthError)
	return authErr, ok
}

// WrapError wraps a generic error into an AuthError
func WrapError(err error, code constants.ErrorCode, message string) AuthError {
	var httpStatus int

	switch code {
	case constants.ErrCodeInvalidRequest, constants.ErrCodeInvalidGrant,
		constants.ErrCodeUnauthorizedClient, constants.ErrCodeUnsupportedGrantType,
		constants.ErrCodeInvalidScope, constants.ErrCodeInvalidRedirectURI:
		httpStatus = http.StatusBadRequest
	case constants.ErrCodeInvalidClient, constants.ErrCodeInvalidUser,
		constants.ErrCodeSessionNotFound, constants.ErrCodeSessionExpired,
		constants.ErrCodeExpiredToken:
		httpStatus = http.StatusUnauthorized
	case constants.ErrCodeForbidden:
		httpStatus = http.StatusForbidden
	case constants.ErrCodeInvalidRealm:
		httpStatus = http.StatusNotFound
	case constants.ErrCodeRateLimited:
		httpStatus = http.StatusTooManyRequests
	case constants.ErrCodeTemporarilyUnavailable:
		httpStatus = http.StatusServiceUnavailable
	default:
		httpStatus = http.StatusInternalServerError
	}

	return NewError(code, httpStatus, err.Error(), message).WithCause(err)
}

// ================================================================================
// Error Response Builder
// ================================================================================

// ErrorResponse represents the JSON structure for error responses
type ErrorResponse struct {
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts an AuthError to an ErrorResponse
func ToErrorResponse(err AuthError) *ErrorResponse {
	return &ErrorResponse{
		Error:            string(err.Code()),
		ErrorDescription: err.Description(),
		Metadata:         err.Metadata(),
	}
}

// ToGenericErrorResponse converts any error to an ErrorResponse
func ToGenericErrorResponse(err error) *ErrorResponse {
	if authErr, ok := AsAuthError(err); ok {
		return ToErrorResponse(authErr)
	}

	return &ErrorResponse{
		Error:            string(constants.ErrCodeServerError),
		ErrorDescription: "An unexpected error occurred",
	}
}

// ================================================================================
// Error Classification Utilities
// ================================================================================

// IsUnauthorizedError checks if an error maps to a 401 response
func IsUnauthorizedError(err error) bool {
	if authErr, ok := AsAuthError(err); ok {
		return authErr.HTTPStatus() == http.StatusUnauthorized
	}
	return false
}

// IsRateLimitError checks if an error is related to rate limiting
func IsRateLimitError(err error) bool {
	if authErr, ok := AsAuthError(err); ok {
		return authErr.HTTPStatus() == http.StatusTooManyRequests
	}
	return false
}

// IsNotFoundError checks if an error maps to a 404 response
func IsNotFoundError(err error) bool {
	if authErr, ok := AsAuthError(err); ok {
		return authErr.HTTPStatus() == http.StatusNotFound
	}
	return false
}

// ShouldLogError determines if an error should be logged based on severity
func ShouldLogError(err error) bool {
	if authErr, ok := AsAuthError(err); ok {
		status := authErr.HTTPStatus()
		return status >= 500 || status == http.StatusTooManyRequests
	}
	return true
}
