package service

import (
	"context"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// RateLimitService defines the interface for checking and managing request
// rate limits. Identifiers combine the client_id and the source address so
// one noisy caller cannot exhaust another's budget.
type RateLimitService interface {
	// Allow checks if a request fits the budget of the given scope.
	Allow(ctx context.Context, scope constants.RateLimitScope, identifier string) (bool, error)

	// ResetLimit clears the counter for a specific identifier.
	ResetLimit(ctx context.Context, scope constants.RateLimitScope, identifier string) error

	// GetCurrentUsage reports the counter value in the current window.
	GetCurrentUsage(ctx context.Context, scope constants.RateLimitScope, identifier string) (int, error)
}
