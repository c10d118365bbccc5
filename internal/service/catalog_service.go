package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/inventory-service/internal/config"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/events"
	"github.com/spec-kit/inventory-service/internal/persistence"
	"github.com/spec-kit/inventory-service/internal/repository"
	apperrors "github.com/spec-kit/inventory-service/pkg/util"
)

const catalogCacheKey = "catalog:fakestore:products"

// catalogProduct mirrors the FakeStore feed item shape.
type catalogProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// ImportResult summarizes a catalog import run.
type ImportResult struct {
	BatchID string
	Created []domain.Product
	Skipped int
}

// CatalogService imports products from the external catalog feed into the
// requester's inventory. The raw feed is cached in Redis so repeated imports
// do not hammer the upstream.
type CatalogService struct {
	products   repository.ProductRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	httpClient *http.Client
	baseURL    string
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(cfg config.CatalogConfig, products repository.ProductRepository, cache *persistence.Redis, dispatcher events.Dispatcher, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		cache:      cache,
		dispatcher: dispatcher,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.BaseURL,
		cacheTTL:   cfg.CacheTTL(),
		logger:     logger,
	}
}

// Import fetches the catalog feed and creates products owned by the
// requester, skipping items whose name the requester already has.
func (s *CatalogService) Import(ctx context.Context, identity *domain.Identity) (*ImportResult, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}

	items, err := s.fetchFeed(ctx)
	if err != nil {
		s.logger.Error("catalog feed fetch failed", zap.Error(err))
		return nil, apperrors.NewInternalError(fmt.Errorf("fetch catalog feed: %w", err))
	}

	result := &ImportResult{BatchID: uuid.NewString(), Created: make([]domain.Product, 0, len(items))}
	for _, item := range items {
		exists, err := s.products.ExistsByNameAndOwner(ctx, item.Title, identity.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		product := &domain.Product{
			Name:        item.Title,
			Description: item.Description,
			Price:       item.Price,
			Category:    item.Category,
			Rating:      item.Rating.Rate,
			ImageURL:    item.Image,
			OwnerID:     identity.ID,
		}
		if err := s.products.Create(ctx, product); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, *product)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCatalogImported,
			Actor:     events.Actor{UserID: identity.ID, Role: identity.Role},
			Timestamp: time.Now(),
			Payload: events.CatalogImportedPayload{
				BatchID: result.BatchID,
				Created: len(result.Created),
				Skipped: result.Skipped,
			},
		})
	}
	return result, nil
}

func (s *CatalogService) fetchFeed(ctx context.Context) ([]catalogProduct, error) {
	if raw, ok := s.cache.GetString(ctx, catalogCacheKey); ok {
		var items []catalogProduct
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return items, nil
		}
		// stale or corrupt cache entry, fall through to the upstream
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var items []catalogProduct
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	s.cache.SetString(ctx, catalogCacheKey, string(body), s.cacheTTL)
	return items, nil
}
