// Package service 定义领域服务接口
// 策略领域服务 - 基于角色权限位字段的跨 realm 访问控制
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/repository"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
	"github.com/rbenna1/ferriskey-sub000/pkg/logger"
)

// PolicyService 策略领域服务接口
// 权限解析规则：身份先被归一化为用户（客户端身份解析为其服务账户用户）；
// 用户权限为其所有角色权限集合的并集；目标 realm 与用户 realm 不同且用户
// 不属于 master realm 时权限为空；master realm 用户访问其他 realm 时，其
// 权限取自 master realm 中名为 "{目标 realm}-realm" 的客户端所限定的角色
type PolicyService interface {
	// GetUserFromIdentity 将调用方身份归一化为用户
	GetUserFromIdentity(ctx context.Context, identity models.Identity) (*models.User, error)

	// GetUserPermissions 返回用户全部角色权限的并集
	GetUserPermissions(ctx context.Context, user *models.User) ([]models.Permission, error)

	// GetClientSpecificPermissions 返回用户中绑定到指定客户端的角色权限并集
	GetClientSpecificPermissions(ctx context.Context, user *models.User, client *models.Client) ([]models.Permission, error)

	// GetPermissionsForTargetRealm 返回身份对目标 realm 持有的权限
	GetPermissionsForTargetRealm(ctx context.Context, identity models.Identity, targetRealm *models.Realm) ([]models.Permission, error)

	// Enforce 判定身份是否对目标 realm 持有所需权限之一
	Enforce(ctx context.Context, identity models.Identity, targetRealm *models.Realm, required ...models.Permission) (bool, error)
}

var _ PolicyService = (*policyService)(nil)

type policyService struct {
	userRepo   repository.UserRepository
	clientRepo repository.ClientRepository
	roleRepo   repository.RoleRepository
	realmRepo  repository.RealmRepository
	log        logger.Logger
}

// NewPolicyService builds the policy service.
func NewPolicyService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	roleRepo repository.RoleRepository,
	realmRepo repository.RealmRepository,
	log logger.Logger,
) PolicyService {
	return &policyService{
		userRepo:   userRepo,
		clientRepo: clientRepo,
		roleRepo:   roleRepo,
		realmRepo:  realmRepo,
		log:        log,
	}
}

func (s *policyService) GetUserFromIdentity(ctx context.Context, identity models.Identity) (*models.User, error) {
	if identity.IsUser() {
		return identity.User(), nil
	}

	client := identity.Client()
	if client == nil {
		return nil, errors.ErrForbidden("identity carries neither user nor client")
	}

	serviceAccount, err := s.userRepo.FindServiceAccountByClientID(ctx, client.ID)
	if err != nil {
		return nil, errors.ErrServiceAccountNotFound(client.ClientID)
	}
	return serviceAccount, nil
}

func (s *policyService) GetUserPermissions(ctx context.Context, user *models.User) ([]models.Permission, error) {
	roles, err := s.roleRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return unionPermissions(roles, nil), nil
}

func (s *policyService) GetClientSpecificPermissions(ctx context.Context, user *models.User, client *models.Client) ([]models.Permission, error) {
	roles, err := s.roleRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return unionPermissions(roles, &client.ID), nil
}

func (s *policyService) GetPermissionsForTargetRealm(ctx context.Context, identity models.Identity, targetRealm *models.Realm) ([]models.Permission, error) {
	user, err := s.GetUserFromIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	userRealm := user.Realm
	if userRealm == nil {
		userRealm, err = s.realmRepo.FindByID(ctx, user.RealmID)
		if err != nil {
			return nil, err
		}
	}

	// A user reaches outside their own realm only from the master realm.
	if userRealm.Name != targetRealm.Name && !userRealm.IsMaster() {
		return nil, nil
	}

	if userRealm.IsMaster() && userRealm.Name != targetRealm.Name {
		// Cross-realm administration goes through the per-realm client
		// in the master realm, named "{target_realm}-realm".
		realmClient, err := s.clientRepo.FindByClientID(ctx, userRealm.ID, targetRealm.Audience())
		if err != nil {
			s.log.Warn(ctx, "no realm client for cross-realm access",
				logger.String("user_realm", userRealm.Name),
				logger.String("target_realm", targetRealm.Name),
			)
			return nil, nil
		}
		return s.GetClientSpecificPermissions(ctx, user, realmClient)
	}

	return s.GetUserPermissions(ctx, user)
}

func (s *policyService) Enforce(ctx context.Context, identity models.Identity, targetRealm *models.Realm, required ...models.Permission) (bool, error) {
	held, err := s.GetPermissionsForTargetRealm(ctx, identity, targetRealm)
	if err != nil {
		return false, err
	}
	return models.HasOneOfPermissions(held, required), nil
}

// unionPermissions merges the permission sets of the given roles. When
// clientID is set, only roles bound to that client contribute.
func unionPermissions(roles []*models.Role, clientID *uuid.UUID) []models.Permission {
	seen := make(map[models.Permission]struct{})
	var result []models.Permission
	for _, role := range roles {
		if clientID != nil {
			if role.ClientID == nil || *role.ClientID != *clientID {
				continue
			}
		}
		for _, p := range role.PermissionSet() {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}
