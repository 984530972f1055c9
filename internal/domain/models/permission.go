// Package models defines the domain models for the identity provider.
// This file contains the permission bitfield model used by roles and policies.
package models

// Permission is a named capability encoded as a power-of-two bit in a uint64.
// Roles persist their permission set as a single bitfield; set operations are
// bitwise and must round-trip losslessly through ToBitfield/FromBitfield.
// Permission 是编码为 uint64 中二次幂位的命名能力。
// 角色将其权限集持久化为单个位域；集合运算按位进行，
// 并且必须通过 ToBitfield/FromBitfield 无损往返。
type Permission uint64

const (
	// PermissionCreateClient allows registering new clients in a realm
	PermissionCreateClient Permission = 1 << 0

	// PermissionManageAuthorization allows managing authorization settings
	PermissionManageAuthorization Permission = 1 << 1

	// PermissionManageClients allows full client administration
	PermissionManageClients Permission = 1 << 2

	// PermissionManageEvents allows managing event settings
	PermissionManageEvents Permission = 1 << 3

	// PermissionManageIdentityProviders allows managing identity provider federation
	PermissionManageIdentityProviders Permission = 1 << 4

	// PermissionManageRealm allows full realm administration
	PermissionManageRealm Permission = 1 << 5

	// PermissionManageUsers allows full user administration
	PermissionManageUsers Permission = 1 << 6

	// PermissionManageRoles allows full role administration
	PermissionManageRoles Permission = 1 << 7

	// PermissionQueryClients allows listing clients
	PermissionQueryClients Permission = 1 << 8

	// PermissionQueryGroups allows listing groups
	PermissionQueryGroups Permission = 1 << 9

	// PermissionQueryRealms allows listing realms
	PermissionQueryRealms Permission = 1 << 10

	// PermissionQueryUsers allows listing users
	PermissionQueryUsers Permission = 1 << 11

	// PermissionViewAuthorization allows reading authorization settings
	PermissionViewAuthorization Permission = 1 << 12

	// PermissionViewClients allows reading client details
	PermissionViewClients Permission = 1 << 13

	// PermissionViewEvents allows reading events
	PermissionViewEvents Permission = 1 << 14

	// PermissionViewIdentityProviders allows reading identity provider settings
	PermissionViewIdentityProviders Permission = 1 << 15

	// PermissionViewRealm allows reading realm settings
	PermissionViewRealm Permission = 1 << 16

	// PermissionViewUsers allows reading user details
	PermissionViewUsers Permission = 1 << 17

	// PermissionViewRoles allows reading role details
	PermissionViewRoles Permission = 1 << 18
)

// AllPermissions lists every defined permission in bit order.
var AllPermissions = []Permission{
	PermissionCreateClient,
	PermissionManageAuthorization,
	PermissionManageClients,
	PermissionManageEvents,
	PermissionManageIdentityProviders,
	PermissionManageRealm,
	PermissionManageUsers,
	PermissionManageRoles,
	PermissionQueryClients,
	PermissionQueryGroups,
	PermissionQueryRealms,
	PermissionQueryUsers,
	PermissionViewAuthorization,
	PermissionViewClients,
	PermissionViewEvents,
	PermissionViewIdentityProviders,
	PermissionViewRealm,
	PermissionViewUsers,
	PermissionViewRoles,
}

var permissionNames = map[Permission]string{
	PermissionCreateClient:            "create_client",
	PermissionManageAuthorization:     "manage_authorization",
	PermissionManageClients:           "manage_clients",
	PermissionManageEvents:            "manage_events",
	PermissionManageIdentityProviders: "manage_identity_providers",
	PermissionManageRealm:             "manage_realm",
	PermissionManageUsers:             "manage_users",
	PermissionManageRoles:             "manage_roles",
	PermissionQueryClients:            "query_clients",
	PermissionQueryGroups:             "query_groups",
	PermissionQueryRealms:             "query_realms",
	PermissionQueryUsers:              "query_users",
	PermissionViewAuthorization:       "view_authorization",
	PermissionViewClients:             "view_clients",
	PermissionViewEvents:              "view_events",
	PermissionViewIdentityProviders:   "view_identity_providers",
	PermissionViewRealm:               "view_realm",
	PermissionViewUsers:               "view_users",
	PermissionViewRoles:               "view_roles",
}

var permissionsByName = func() map[string]Permission {
	m := make(map[string]Permission, len(permissionNames))
	for p, name := range permissionNames {
		m[name] = p
	}
	return m
}()

// Name returns the stable string form of the permission, used for storage.
// Name 返回权限的稳定字符串形式，用于存储。
func (p Permission) Name() string {
	return permissionNames[p]
}

// PermissionFromName resolves a stored permission name. The second return
// value is false for unknown names.
// PermissionFromName 解析存储的权限名称。未知名称时第二个返回值为 false。
func PermissionFromName(name string) (Permission, bool) {
	p, ok := permissionsByName[name]
	return p, ok
}

// FromBitfield expands a stored bitfield into the permission set it encodes.
// Unknown bits are dropped.
// FromBitfield 将存储的位域展开为它编码的权限集。未知位将被丢弃。
func FromBitfield(bitfield uint64) []Permission {
	var out []Permission
	for _, p := range AllPermissions {
		if bitfield&uint64(p) == uint64(p) {
			out = append(out, p)
		}
	}
	return out
}

// ToBitfield folds a permission set into its stored bitfield form.
// ToBitfield 将权限集折叠为其存储的位域形式。
func ToBitfield(permissions []Permission) uint64 {
	var acc uint64
	for _, p := range permissions {
		acc |= uint64(p)
	}
	return acc
}

// HasPermissions reports whether every required permission is present (AND).
func HasPermissions(permissions, required []Permission) bool {
	for _, req := range required {
		if !containsPermission(permissions, req) {
			return false
		}
	}
	return true
}

// HasOneOfPermissions reports whether at least one required permission is present (OR).
func HasOneOfPermissions(permissions, required []Permission) bool {
	for _, req := range required {
		if containsPermission(permissions, req) {
			return true
		}
	}
	return false
}

func containsPermission(permissions []Permission, target Permission) bool {
	for _, p := range permissions {
		if p == target {
			return true
		}
	}
	return false
}
