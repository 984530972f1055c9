// Package crypto provides realm-scoped key provisioning, JWT signing and
// password hashing.
package crypto

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// KeyEscrow optionally stores a copy of newly generated private keys in an
// external secret store. Escrow failures are logged and never block token
// issuance.
// KeyEscrow 可选地将新生成的私钥副本存储到外部密钥库。
// 托管失败只记录日志，绝不阻塞令牌签发。
type KeyEscrow interface {
	StoreRealmKey(ctx context.Context, realmName string, key *models.RealmKey) error
}

// KeyManager provisions one RSA signing keypair per realm, lazily on first
// use. Concurrent first requests for the same realm collapse into a single
// generation, and the database's unique index arbitrates between server
// instances racing to create the key.
// KeyManager 为每个 Realm 惰性提供一个 RSA 签名密钥对。
// 同一 Realm 的并发首次请求合并为一次生成，数据库唯一索引在多实例竞争时仲裁。
type KeyManager struct {
	keyRepo repository.KeyRepository
	escrow  KeyEscrow
	metrics service.Metrics
	cache   *gocache.Cache
	group   singleflight.Group
	logger  logger.Logger
}

// NewKeyManager creates a key manager. The escrow may be nil.
func NewKeyManager(keyRepo repository.KeyRepository, escrow KeyEscrow, metrics service.Metrics, log logger.Logger) *KeyManager {
	return &KeyManager{
		keyRepo: keyRepo,
		escrow:  escrow,
		metrics: metrics,
		cache:   gocache.New(constants.RealmKeyCacheTTL, 2*constants.RealmKeyCacheTTL),
		logger:  log,
	}
}

// RealmKey returns the realm's signing keypair with parsed key material,
// generating and persisting one if none exists yet.
func (m *KeyManager) RealmKey(ctx context.Context, realm *models.Realm) (*models.RealmKey, error) {
	cacheKey := constants.CacheKeyPrefixRealmKey + realm.ID.String()

	if cached, ok := m.cache.Get(cacheKey); ok {
		m.metrics.RecordCacheAccess("realm_key", true)
		return cached.(*models.RealmKey), nil
	}
	m.metrics.RecordCacheAccess("realm_key", false)

	value, err, _ := m.group.Do(cacheKey, func() (interface{}, error) {
		key, err := m.loadOrProvision(ctx, realm)
		if err != nil {
			return nil, err
		}
		m.cache.Set(cacheKey, key, constants.RealmKeyCacheTTL)
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.RealmKey), nil
}

func (m *KeyManager) loadOrProvision(ctx context.Context, realm *models.Realm) (*models.RealmKey, error) {
	key, err := m.keyRepo.FindByRealmID(ctx, realm.ID)
	if err == nil {
		return m.withParsedKeys(key)
	}
	if authErr, ok := errors.AsAuthError(err); !ok || authErr.Code() != constants.ErrCodeKeyNotFound {
		return nil, err
	}

	start := time.Now()
	key, genErr := m.generate(realm)
	if genErr != nil {
		return nil, genErr
	}

	if saveErr := m.keyRepo.Save(ctx, key); saveErr != nil {
		// Another instance won the race. Its key is the realm's key.
		existing, readErr := m.keyRepo.FindByRealmID(ctx, realm.ID)
		if readErr != nil {
			return nil, saveErr
		}
		m.logger.Info(ctx, "realm key already provisioned by another instance",
			logger.String("realm", realm.Name),
		)
		return m.withParsedKeys(existing)
	}

	m.metrics.RecordKeyProvision(realm.Name, time.Since(start))
	m.logger.Info(ctx, "realm signing key generated",
		logger.String("realm", realm.Name),
		logger.String("kid", key.ID.String()),
		logger.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	if m.escrow != nil {
		if escrowErr := m.escrow.StoreRealmKey(ctx, realm.Name, key); escrowErr != nil {
			m.logger.Warn(ctx, "realm key escrow failed",
				logger.String("realm", realm.Name),
			)
		}
	}
	return key, nil
}

func (m *KeyManager) generate(realm *models.Realm) (*models.RealmKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, constants.RSAKeySize)
	if err != nil {
		return nil, errors.ErrServerError("key generation failed").WithCause(err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, errors.ErrServerError("public key encoding failed").WithCause(err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})

	key, err := models.NewRealmKey(realm.ID, string(constants.AlgorithmRS256), string(privatePEM), string(publicPEM))
	if err != nil {
		return nil, errors.ErrServerError("key record creation failed").WithCause(err)
	}
	key.PrivateKey = privateKey
	key.PublicKey = &privateKey.PublicKey
	return key, nil
}

// withParsedKeys fills the in-memory key material from the stored PEM.
func (m *KeyManager) withParsedKeys(key *models.RealmKey) (*models.RealmKey, error) {
	if key.PrivateKey != nil && key.PublicKey != nil {
		return key, nil
	}

	privateBlock, _ := pem.Decode([]byte(key.PrivateKeyPEM))
	if privateBlock == nil {
		return nil, errors.ErrServerError("stored private key is not valid PEM")
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(privateBlock.Bytes)
	if err != nil {
		return nil, errors.ErrServerError("stored private key is corrupt").WithCause(err)
	}

	publicBlock, _ := pem.Decode([]byte(key.PublicKeyPEM))
	if publicBlock == nil {
		return nil, errors.ErrServerError("stored public key is not valid PEM")
	}
	parsed, err := x509.ParsePKIXPublicKey(publicBlock.Bytes)
	if err != nil {
		return nil, errors.ErrServerError("stored public key is corrupt").WithCause(err)
	}
	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.ErrServerError("stored public key is not RSA")
	}

	key.PrivateKey = privateKey
	key.PublicKey = publicKey
	return key, nil
}
