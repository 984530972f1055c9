// Package kms escrows realm signing keys in HashiCorp Vault.
// Package kms 将 Realm 签名密钥托管到 HashiCorp Vault。
package kms

import (
	"context"
	"path"

	vault "github.com/hashicorp/vault/api"

	"github.com/rbenna1/ferriskey-sub000/internal/config"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/infrastructure/crypto"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// VaultEscrow stores a copy of each newly provisioned realm private key in
// Vault's KVv2 engine, so operators can recover signing keys independently
// of the database. The database row remains the source of truth.
// VaultEscrow 将每个新配置的 Realm 私钥副本存储到 Vault 的 KVv2 引擎中，
// 使运维人员可以独立于数据库恢复签名密钥。数据库记录仍是事实来源。
type VaultEscrow struct {
	client    *vault.Client
	mountPath string
	logger    logger.Logger
}

var _ crypto.KeyEscrow = (*VaultEscrow)(nil)

// NewVaultEscrow creates a Vault-backed key escrow from configuration.
// NewVaultEscrow 从配置创建基于 Vault 的密钥托管。
func NewVaultEscrow(cfg *config.VaultConfig, log logger.Logger) (*VaultEscrow, error) {
	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = cfg.Address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, errors.ErrServerError("failed to create vault client").WithCause(err)
	}
	client.SetToken(cfg.Token)

	mountPath := cfg.MountPath
	if mountPath == "" {
		mountPath = "idp"
	}

	return &VaultEscrow{
		client:    client,
		mountPath: mountPath,
		logger:    log.WithComponent("VaultEscrow"),
	}, nil
}

// StoreRealmKey writes the keypair under <mount_path>/realms/<realm>/signing-key.
func (e *VaultEscrow) StoreRealmKey(ctx context.Context, realmName string, key *models.RealmKey) error {
	secretPath := path.Join(e.mountPath, "realms", realmName, "signing-key")

	data := map[string]interface{}{
		"kid":         key.ID.String(),
		"algorithm":   key.Algorithm,
		"private_key": key.PrivateKeyPEM,
		"public_key":  key.PublicKeyPEM,
	}

	if _, err := e.client.KVv2("secret").Put(ctx, secretPath, data); err != nil {
		return errors.ErrServerError("failed to escrow realm key").
			WithCause(err).
			WithMetadata("realm", realmName).
			WithMetadata("kid", key.ID.String())
	}

	e.logger.Info(ctx, "realm key escrowed",
		logger.F("realm", realmName),
		logger.F("kid", key.ID.String()),
	)
	return nil
}
