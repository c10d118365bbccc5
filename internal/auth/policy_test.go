package auth

import (
	"testing"

	"github.com/spec-kit/inventory-service/internal/domain"
	apperrors "github.com/spec-kit/inventory-service/pkg/util"
)

func TestAuthorize_OwnerAllowedForAllOperations(t *testing.T) {
	owner := &domain.Identity{ID: "u1", Email: "u1@example.com", Role: domain.RoleUser}

	for _, op := range []Operation{OperationRead, OperationUpdate, OperationDelete} {
		if err := Authorize(owner, "u1", op); err != nil {
			t.Fatalf("expected owner to be allowed for %s, got %v", op, err)
		}
	}
}

func TestAuthorize_AdminAllowedRegardlessOfOwnership(t *testing.T) {
	admin := &domain.Identity{ID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin}

	for _, op := range []Operation{OperationRead, OperationUpdate, OperationDelete} {
		if err := Authorize(admin, "u2", op); err != nil {
			t.Fatalf("expected admin to be allowed for %s, got %v", op, err)
		}
	}
}

func TestAuthorize_NonOwnerNonAdminDenied(t *testing.T) {
	identity := &domain.Identity{ID: "u1", Email: "u1@example.com", Role: domain.RoleUser}

	err := Authorize(identity, "u2", OperationDelete)
	if err == nil {
		t.Fatalf("expected deny for non-owner non-admin")
	}
	if !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}

	domainErr := apperrors.ToDomainError(err)
	if domainErr.Details["resource_owner"] != "u2" || domainErr.Details["requester"] != "u1" {
		t.Fatalf("expected ownership detail in denial, got %+v", domainErr.Details)
	}
}

func TestAuthorize_NilIdentityUnauthenticated(t *testing.T) {
	err := Authorize(nil, "u1", OperationRead)
	if !apperrors.IsCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED for missing identity, got %v", err)
	}
}
