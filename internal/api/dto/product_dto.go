package dto

import (
	"time"

	"github.com/spec-kit/inventory-service/internal/domain"
)

// CreateProductRequest payload for product creation.
type CreateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Rating      *float64 `json:"rating"`
	ImageURL    string   `json:"imageUrl"`
}

// UpdateProductRequest payload for product updates; absent rating keeps the
// stored value.
type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Rating      *float64 `json:"rating"`
	ImageURL    string   `json:"imageUrl"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	ImageURL    string    `json:"imageUrl"`
	OwnerID     string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ImportResponse summarizes a catalog import.
type ImportResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Products []ProductResponse `json:"products"`
}

// NewProductResponse maps the domain product.
func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Rating:      product.Rating,
		ImageURL:    product.ImageURL,
		OwnerID:     product.OwnerID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// NewProductResponses maps a slice of domain products.
func NewProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
