package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/api/dto"
	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/service"
	apperrors "github.com/spec-kit/inventory-service/pkg/util"
)

// CatalogHandler exposes the external catalog import endpoint.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: catalogService}
}

// Import POST /api/import-fakestore.
func (h *CatalogHandler) Import(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	result, err := h.service.Import(c.Context(), identity)
	if err != nil {
		return err
	}

	return c.JSON(dto.ImportResponse{
		Success:  true,
		Message:  fmt.Sprintf("Imported %d products from FakeStore API", len(result.Created)),
		Products: dto.NewProductResponses(result.Created),
	})
}
