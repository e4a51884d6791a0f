// Package auth models the caller identity and resolves it from bearer tokens.
package auth

import "slices"

// PermissionAccessContent grants read access to processes and the right to duplicate them.
const PermissionAccessContent = "access content"

// Account is the caller identity handed to resources for authorization.
type Account interface {
	HasPermission(permission string) bool
}

// Principal is an authenticated (or anonymous) caller with a granted permission set.
type Principal struct {
	Subject     string   `json:"sub"`
	Permissions []string `json:"permissions"`
}

var _ Account = (*Principal)(nil)

// Anonymous returns a principal with no subject and no permissions.
func Anonymous() *Principal {
	return &Principal{}
}

// HasPermission reports whether the permission was granted. A nil principal has none.
func (p *Principal) HasPermission(permission string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Permissions, permission)
}

// IsAnonymous reports whether the principal carries no subject.
func (p *Principal) IsAnonymous() bool {
	return p == nil || p.Subject == ""
}
