// Package access decides whether a caller may perform an operation on a resource.
//
// Every authorization verdict in the service comes from Decide. Callers resolve
// the target first (so NotFound wins over Forbidden) and pass the owner of the
// aggregate root, which for an instruction is the owner of its parent recipe.
package access

import (
	"fmt"

	"github.com/pageza/recipe-catalog/backend/internal/apperror"
	"github.com/pageza/recipe-catalog/backend/internal/models"
	"github.com/pageza/recipe-catalog/backend/internal/types"
)

type Operation int

const (
	Read Operation = iota + 1
	Create
	Update
	Delete
)

func (o Operation) String() string {
	switch o {
	case Read:
		return "read"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Resource is the kind of thing being acted on.
type Resource string

const (
	Recipe      Resource = "recipe"
	Instruction Resource = "instruction"
	Ingredient  Resource = "ingredient"
	User        Resource = "user"
	// Profile is the caller's own account ("me" views).
	Profile Resource = "profile"
)

// Request describes one authorization question.
type Request struct {
	Operation Operation
	Resource  Resource
	// OwnerID is the owning user of the resource, nil when it has none.
	OwnerID *uint
	// RequiredRole is set when the operation is restricted to a role.
	RequiredRole *models.Role
}

// Decision is the verdict for a Request.
type Decision struct {
	Allowed bool
	Kind    apperror.Kind
	Reason  apperror.Reason
}

// Err converts a denial into its error value. It returns nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Kind {
	case apperror.KindUnauthenticated:
		return apperror.Unauthenticated("authentication required")
	case apperror.KindForbidden:
		if d.Reason == apperror.ReasonRoleRequired {
			return apperror.Forbidden(d.Reason, "insufficient role for this operation")
		}
		return apperror.Forbidden(d.Reason, "only the owner or an admin may perform this operation")
	}
	return apperror.Forbidden(d.Reason, "operation not permitted")
}

var allow = Decision{Allowed: true}

// Decide evaluates, in order: authentication, role, ownership. Admin bypasses
// both the role and the ownership rule.
func Decide(caller *types.Identity, req Request) Decision {
	if requiresAuthentication(req) && caller == nil {
		return Decision{Kind: apperror.KindUnauthenticated}
	}
	if caller.IsAdmin() {
		return allow
	}
	if req.RequiredRole != nil && (caller == nil || caller.Role != *req.RequiredRole) {
		return Decision{Kind: apperror.KindForbidden, Reason: apperror.ReasonRoleRequired}
	}
	if ownershipScoped(req) && (caller == nil || caller.UserID != *req.OwnerID) {
		return Decision{Kind: apperror.KindForbidden, Reason: apperror.ReasonNotOwner}
	}
	return allow
}

// Authorize is Decide returning the denial as an error.
func Authorize(caller *types.Identity, req Request) error {
	return Decide(caller, req).Err()
}

// CanDelete reports whether caller may delete a resource owned by ownerID.
func CanDelete(caller *types.Identity, resource Resource, ownerID uint) bool {
	return Decide(caller, Request{Operation: Delete, Resource: resource, OwnerID: &ownerID}).Allowed
}

func requiresAuthentication(req Request) bool {
	if req.Operation != Read {
		return true
	}
	switch req.Resource {
	case Profile, User:
		return true
	}
	return req.RequiredRole != nil
}

// Update and delete on an owned resource compare the caller with the owner.
// Reads of another user's account are scoped the same way.
func ownershipScoped(req Request) bool {
	if req.OwnerID == nil {
		return false
	}
	switch req.Operation {
	case Update, Delete:
		return true
	case Read:
		return req.Resource == User
	}
	return false
}

// Owned is a small helper for building a Request.OwnerID.
func Owned(id uint) *uint { return &id }

// Role is a small helper for building a Request.RequiredRole.
func Role(r models.Role) *models.Role { return &r }
