// Package access decides allow/deny for an operation given the caller's
// identity and a per-operation Requirement. Requirements are plain values
// built at the top of each handler or service method; there is no policy
// language and no per-handler annotation metadata.
package access

import "github.com/openbiz/directory-api/internal/core/domain"

type kind int

const (
	kindNone kind = iota
	kindRole
	kindOwnershipOrRole
)

// Requirement is a tagged variant: open access, role-only, or
// ownership-or-role. Build one with None, Roles, or OwnerOr.
type Requirement struct {
	kind         kind
	roles        []string
	ownerID      string
	overrideRole string
}

// None places no restriction on the operation.
func None() Requirement {
	return Requirement{kind: kindNone}
}

// Roles requires the caller to hold one of the given roles. An empty role
// list means no restriction, not deny-all.
func Roles(roles ...string) Requirement {
	return Requirement{kind: kindRole, roles: roles}
}

// OwnerOr requires the caller to own the target resource, or to hold
// overrideRole. This owner-or-admin shape is the dominant requirement for
// mutate and delete operations.
func OwnerOr(ownerID, overrideRole string) Requirement {
	return Requirement{kind: kindOwnershipOrRole, ownerID: ownerID, overrideRole: overrideRole}
}

// Allowed evaluates a requirement against the caller. It reports only the
// decision; callers translate a deny into domain.ErrForbidden after the
// target's existence has already been established.
func Allowed(id *domain.Identity, req Requirement) bool {
	switch req.kind {
	case kindNone:
		return true
	case kindRole:
		return HasRole(id, req.roles...)
	case kindOwnershipOrRole:
		return OwnsOrHasRole(id, req.ownerID, req.overrideRole)
	default:
		return false
	}
}

// Check is Allowed with the deny mapped to domain.ErrForbidden.
func Check(id *domain.Identity, req Requirement) error {
	if !Allowed(id, req) {
		return domain.ErrForbidden
	}
	return nil
}

// HasRole reports whether the identity exists and holds one of roles.
// No declared roles means open access.
func HasRole(id *domain.Identity, roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	if id == nil {
		return false
	}
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// OwnsOrHasRole reports whether the identity owns the resource or holds the
// override role.
func OwnsOrHasRole(id *domain.Identity, ownerID, overrideRole string) bool {
	if id == nil {
		return false
	}
	return id.ID == ownerID || id.Role == overrideRole
}
