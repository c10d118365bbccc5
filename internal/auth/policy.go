package auth

import (
	"fmt"

	"github.com/spec-kit/inventory-service/internal/domain"
	apperrors "github.com/spec-kit/inventory-service/pkg/util"
)

// Operation enumerates the resource actions the policy rules on.
type Operation string

const (
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Authorize decides whether the identity may perform the operation on a
// resource owned by ownerID. Allowed for the owner or an admin; denied
// otherwise. Callers check resource existence before calling in, so a denial
// always refers to a resource that exists.
func Authorize(identity *domain.Identity, ownerID string, op Operation) error {
	if identity == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if identity.IsAdmin() {
		return nil
	}
	if identity.ID == ownerID {
		return nil
	}
	return apperrors.NewForbidden(
		fmt.Sprintf("you don't have permission to %s this product", op),
		map[string]any{
			"reason":         "not owner and not admin",
			"resource_owner": ownerID,
			"requester":      identity.ID,
			"requester_role": identity.Role,
		},
	)
}
