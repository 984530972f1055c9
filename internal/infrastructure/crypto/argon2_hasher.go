package crypto

import (
	"context"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/utils"
)

var _ repository.HasherRepository = (*Argon2Hasher)(nil)

const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16
)

// Argon2Hasher implements HasherRepository with Argon2id. Hash and salt are
// stored base64-encoded in separate columns.
// Argon2Hasher 使用 Argon2id 实现 HasherRepository。哈希和盐以 base64 编码分列存储。
type Argon2Hasher struct{}

// NewArgon2Hasher creates the password hasher.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{}
}

func (h *Argon2Hasher) Hash(ctx context.Context, password string) (string, string, error) {
	saltBytes, err := utils.RandBytes(argonSaltLen)
	if err != nil {
		return "", "", errors.ErrServerError("salt generation failed").WithCause(err)
	}

	digest := argon2.IDKey([]byte(password), saltBytes, argonTime, argonMemory, argonThreads, argonKeyLen)

	hash := base64.RawStdEncoding.EncodeToString(digest)
	salt := base64.RawStdEncoding.EncodeToString(saltBytes)
	return hash, salt, nil
}

// Verify recomputes the digest and compares in constant time. Malformed
// stored values yield false, not an error, so corrupt credentials read as a
// failed login rather than a server fault.
func (h *Argon2Hasher) Verify(ctx context.Context, password, hash, salt string) (bool, error) {
	saltBytes, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return false, nil
	}
	expected, err := base64.RawStdEncoding.DecodeString(hash)
	if err != nil {
		return false, nil
	}

	digest := argon2.IDKey([]byte(password), saltBytes, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(digest, expected) == 1, nil
}
