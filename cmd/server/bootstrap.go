package main

import (
	"context"
	"fmt"

	"github.com/rbenna1/ferriskey-sub000/internal/config"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

type bootstrapDeps struct {
	realmRepo      repository.RealmRepository
	clientRepo     repository.ClientRepository
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	credentialRepo repository.CredentialRepository
	hasher         repository.HasherRepository
	logger         logger.Logger
}

// bootstrapMasterRealm seeds the master realm with an admin client, an
// admin user holding a password credential, and an admin role carrying
// every permission. It is a no-op when the master realm already exists.
func bootstrapMasterRealm(ctx context.Context, cfg *config.BootstrapConfig, deps bootstrapDeps) error {
	if _, err := deps.realmRepo.FindByName(ctx, constants.MasterRealmName); err == nil {
		deps.logger.Debug(ctx, "master realm already present, skipping bootstrap")
		return nil
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return fmt.Errorf("bootstrap.admin_username and bootstrap.admin_password must be set on first start")
	}

	realm, err := models.NewRealm(constants.MasterRealmName)
	if err != nil {
		return fmt.Errorf("creating master realm: %w", err)
	}
	if err := deps.realmRepo.Save(ctx, realm); err != nil {
		return fmt.Errorf("saving master realm: %w", err)
	}

	clientID := cfg.AdminClientID
	if clientID == "" {
		clientID = "admin-cli"
	}
	client, err := models.NewClient(models.ClientConfig{
		RealmID:                   realm.ID,
		ClientID:                  clientID,
		Name:                      "Admin CLI",
		Enabled:                   true,
		Protocol:                  "openid-connect",
		PublicClient:              true,
		DirectAccessGrantsEnabled: true,
	})
	if err != nil {
		return fmt.Errorf("creating admin client: %w", err)
	}
	if err := deps.clientRepo.Save(ctx, client); err != nil {
		return fmt.Errorf("saving admin client: %w", err)
	}

	user, err := models.NewUser(models.UserConfig{
		RealmID:       realm.ID,
		Username:      cfg.AdminUsername,
		Email:         cfg.AdminUsername + "@" + constants.MasterRealmName,
		EmailVerified: true,
		Enabled:       true,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	if err := deps.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("saving admin user: %w", err)
	}

	hash, salt, err := deps.hasher.Hash(ctx, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	credential, err := models.NewCredential(
		user.ID,
		string(constants.CredentialTypePassword),
		hash,
		&salt,
		models.CredentialData{Algorithm: "argon2id"},
		false,
	)
	if err != nil {
		return fmt.Errorf("creating admin credential: %w", err)
	}
	if err := deps.credentialRepo.Save(ctx, credential); err != nil {
		return fmt.Errorf("saving admin credential: %w", err)
	}

	permissions := make([]string, 0, len(models.AllPermissions))
	for _, p := range models.AllPermissions {
		permissions = append(permissions, p.Name())
	}
	description := "Full administrative access across all realms"
	role, err := models.NewRole(realm.ID, nil, "admin", &description, permissions)
	if err != nil {
		return fmt.Errorf("creating admin role: %w", err)
	}
	if err := deps.roleRepo.Save(ctx, role); err != nil {
		return fmt.Errorf("saving admin role: %w", err)
	}
	if err := deps.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return fmt.Errorf("assigning admin role: %w", err)
	}

	deps.logger.Info(ctx, "master realm bootstrapped",
		logger.String("realm", realm.Name),
		logger.String("admin_user", user.Username),
		logger.String("admin_client", client.ClientID),
	)
	return nil
}
