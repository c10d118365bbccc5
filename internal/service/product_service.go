package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/events"
	"github.com/spec-kit/inventory-service/internal/repository"
	apperrors "github.com/spec-kit/inventory-service/pkg/util"
)

// ProductService coordinates product CRUD with ownership enforcement.
// Existence is always checked before authorization: a caller denied access to
// an existing product receives FORBIDDEN, never a false NOT_FOUND.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// ProductCreateInput describes product creation payload.
type ProductCreateInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Rating      float64
	ImageURL    string
}

// ProductUpdateInput describes updates; a nil Rating keeps the stored value.
type ProductUpdateInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Rating      *float64
	ImageURL    string
}

// ProductListFilter describes listing filters.
type ProductListFilter struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
	Limit     int
	Offset    int
}

// NewProductService constructs the service.
func NewProductService(products repository.ProductRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, dispatcher: dispatcher}
}

// Create stores a product owned by the requester.
func (s *ProductService) Create(ctx context.Context, identity *domain.Identity, input ProductCreateInput) (*domain.Product, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}

	product := &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Rating:      input.Rating,
		ImageURL:    input.ImageURL,
		OwnerID:     identity.ID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProductCreated,
		ProductID: product.ID,
		Actor:     events.Actor{UserID: identity.ID, Role: identity.Role},
		Payload: events.ProductCreatedPayload{
			Name:     product.Name,
			Category: product.Category,
			Price:    product.Price,
		},
	})
	return product, nil
}

// List returns products matching the filter, newest first. Listing is not
// scoped to the requester; any authenticated user sees the catalog.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	repoFilter := repository.ProductFilter{
		MinPrice:  filter.MinPrice,
		MaxPrice:  filter.MaxPrice,
		MinRating: filter.MinRating,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}
	if filter.Category != "" && filter.Category != "all" {
		category := filter.Category
		repoFilter.Category = &category
	}
	if strings.TrimSpace(filter.Search) != "" {
		search := filter.Search
		repoFilter.Search = &search
	}
	return s.products.ListWithFilter(ctx, repoFilter)
}

// Get fetches a product, enforcing read authorization after existence.
func (s *ProductService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Product, error) {
	product, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(identity, product.OwnerID, auth.OperationRead); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies changes to an existing product after authorization. The
// owner never changes.
func (s *ProductService) Update(ctx context.Context, identity *domain.Identity, id string, input ProductUpdateInput) (*domain.Product, error) {
	product, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(identity, product.OwnerID, auth.OperationUpdate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if input.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.Price = input.Price
	product.Category = input.Category
	product.ImageURL = input.ImageURL
	if input.Rating != nil {
		product.Rating = *input.Rating
	}

	if err := s.products.Update(ctx, product); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProductUpdated,
		ProductID: product.ID,
		Actor:     events.Actor{UserID: identity.ID, Role: identity.Role},
		Payload: events.ProductUpdatedPayload{
			Name:     product.Name,
			Category: product.Category,
			Price:    product.Price,
			OwnerID:  product.OwnerID,
		},
	})
	return product, nil
}

// Delete removes a product after authorization.
func (s *ProductService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	product, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(identity, product.OwnerID, auth.OperationDelete); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("product", nil)
		}
		return err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProductDeleted,
		ProductID: product.ID,
		Actor:     events.Actor{UserID: identity.ID, Role: identity.Role},
		Payload: events.ProductDeletedPayload{
			Name:    product.Name,
			OwnerID: product.OwnerID,
		},
	})
	return nil
}

func (s *ProductService) fetch(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
