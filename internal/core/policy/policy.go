// Package policy is the pure decision core for role reassignment. It holds
// no state and performs no I/O: callers resolve the acting principal's and
// target's role sets, ask for a decision, and apply the result atomically.
package policy

import "github.com/vertexlab/identity-api/internal/core/domain"

// CanAssign decides whether a principal holding actorRoles may replace the
// role set of a target currently holding targetRoles with {requested}.
//
// Rules, in evaluation order:
//
//  1. requested must be one of ADMIN, MANAGER, USER. OWNER and anything
//     unknown are rejected before the target is even inspected.
//  2. A principal holding ADMIN (and not OWNER) may not touch a target that
//     holds OWNER or ADMIN: admins manage the MANAGER/USER tiers only.
//  3. Everyone else, OWNER included, may change anyone except a target
//     holding OWNER. The owner's own role is immutable through this path.
//
// A nil return means allow; the target's role set becomes exactly
// {requested}, dropping all prior roles.
func CanAssign(actorRoles, targetRoles []string, requested string) error {
	if !domain.IsAssignableRole(requested) {
		return domain.ErrInvalidRole
	}

	if domain.HasRole(actorRoles, domain.RoleAdmin) && !domain.HasRole(actorRoles, domain.RoleOwner) {
		if domain.HasRole(targetRoles, domain.RoleOwner) || domain.HasRole(targetRoles, domain.RoleAdmin) {
			return domain.ErrForbidden
		}
		return nil
	}

	if domain.HasRole(targetRoles, domain.RoleOwner) {
		return domain.ErrForbidden
	}
	return nil
}
