package repository

import "context"

// HasherRepository defines the interface for password hashing and
// verification. Implementations must use a constant time comparison.
type HasherRepository interface {
	// Hash derives a hash and salt from a plaintext password.
	Hash(ctx context.Context, password string) (hash string, salt string, err error)

	// Verify reports whether the plaintext password matches the stored
	// hash and salt. A malformed stored hash yields false, not an error.
	Verify(ctx context.Context, password, hash, salt string) (bool, error)
}
