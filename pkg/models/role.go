package models

import "fmt"

// Role identifies one of the workbench's role-specific views.
type Role string

const (
	RoleAdOps          Role = "ad-ops"
	RoleContent        Role = "content"
	RoleLiveCommerce   Role = "live-commerce"
	RoleBD             Role = "bd"
	RolePlatformOps    Role = "platform-ops"
	RoleBrandOwner     Role = "brand-owner"
	RoleEcommerceOwner Role = "ecommerce-owner"
	RoleMarketAnalysis Role = "market-analysis"
)

var allRoles = []Role{
	RoleAdOps,
	RoleContent,
	RoleLiveCommerce,
	RoleBD,
	RolePlatformOps,
	RoleBrandOwner,
	RoleEcommerceOwner,
	RoleMarketAnalysis,
}

// Roles returns every known role in a stable order.
func Roles() []Role {
	roles := make([]Role, len(allRoles))
	copy(roles, allRoles)
	return roles
}

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	for _, role := range allRoles {
		if string(role) == raw {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

func (r Role) String() string {
	return string(r)
}
