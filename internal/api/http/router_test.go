package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/inventory-service/internal/api/http/handlers"
	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/config"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/events"
	"github.com/spec-kit/inventory-service/internal/observability"
	"github.com/spec-kit/inventory-service/internal/persistence"
	"github.com/spec-kit/inventory-service/internal/repository"
	"github.com/spec-kit/inventory-service/internal/service"
)

// In-memory repositories backing the full HTTP stack under test.

type memUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("u%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memProductRepo struct {
	seq      int
	products map[string]*domain.Product
}

func (r *memProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.seq++
	product.ID = fmt.Sprintf("p%d", r.seq)
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *product
	return &clone, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) ExistsByNameAndOwner(_ context.Context, name, ownerID string) (bool, error) {
	for _, product := range r.products {
		if product.Name == name && product.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepo) ListWithFilter(_ context.Context, _ repository.ProductFilter) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		out = append(out, *product)
	}
	return out, nil
}

type testEnv struct {
	app   *fiber.App
	users *memUserRepo
	auth  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := &memUserRepo{users: make(map[string]*domain.User)}
	products := &memProductRepo{products: make(map[string]*domain.Product)}

	cfg := config.Config{
		App: config.AppConfig{Name: "test", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			SessionTTLHours: 24,
			BcryptCost:      4,
		},
	}

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg, users)
	productService := service.NewProductService(products, dispatcher)

	catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"Feed Item","price":9.5,"description":"","category":"misc","image":"","rating":{"rate":4.0,"count":10}}]`))
	}))
	t.Cleanup(catalogServer.Close)
	catalogService := service.NewCatalogService(
		config.CatalogConfig{BaseURL: catalogServer.URL, CacheTTLMinutes: 1},
		products, &persistence.Redis{}, dispatcher, zap.NewNop())

	logger := zap.NewNop()
	resolver := auth.NewSessionResolver(authService.TokenManager(), logger)
	gate := auth.NewAccessGate(resolver)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)

	pagesHandler, err := handlers.NewPagesHandler(productService)
	if err != nil {
		t.Fatalf("pages handler: %v", err)
	}

	RegisterRoutes(app, RouteConfig{
		Health:   handlers.NewHealthHandler("test", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:     handlers.NewAuthHandler(authService, false),
		Products: handlers.NewProductsHandler(productService),
		Catalog:  handlers.NewCatalogHandler(catalogService),
		Pages:    pagesHandler,
		Gate:     gate,
	})

	return &testEnv{app: app, users: users, auth: authService}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func sessionToken(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/api/auth/login",
		fmt.Sprintf(`{"email":%q,"password":"hunter22"}`, email), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login for %s failed with %d", email, resp.StatusCode)
	}
	var body struct {
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	decodeJSON(t, resp, &body)
	if body.Auth.Token == "" {
		t.Fatalf("expected token for %s", email)
	}
	return body.Auth.Token
}

func signup(t *testing.T, env *testEnv, name, email string) {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/api/auth/signup",
		fmt.Sprintf(`{"name":%q,"email":%q,"password":"hunter22"}`, name, email), "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup for %s failed with %d", email, resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSignupSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Jo","email":"jo@example.com","password":"hunter22"}`, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatalf("expected session cookie to be set")
	}
	if !sessionCookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
	if sessionCookie.MaxAge != 86400 {
		t.Fatalf("expected 24h max-age, got %d", sessionCookie.MaxAge)
	}
	if sessionCookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("expected strict same-site")
	}
}

func TestDuplicateSignupRejected(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/signup",
		`{"name":"Jo2","email":"jo@example.com","password":"other"}`, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")

	for _, body := range []string{
		`{"email":"jo@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"hunter22"}`,
	} {
		resp := env.do(t, http.MethodPost, "/api/auth/login", body, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	}
}

func TestMeRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")

	resp := env.do(t, http.MethodGet, "/api/auth/me", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", resp.StatusCode)
	}

	token := sessionToken(t, env, "jo@example.com")
	resp = env.do(t, http.MethodGet, "/api/auth/me", "", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with cookie, got %d", resp.StatusCode)
	}
	var user struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decodeJSON(t, resp, &user)
	if user.Email != "jo@example.com" || user.Role != "USER" {
		t.Fatalf("unexpected me payload %+v", user)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")
	token := sessionToken(t, env, "jo@example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/logout", "", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName && cookie.Value != "" {
			t.Fatalf("expected cleared cookie, got %q", cookie.Value)
		}
	}
}

func TestProductOwnershipOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Owner", "owner@example.com")
	signup(t, env, "Other", "other@example.com")
	ownerToken := sessionToken(t, env, "owner@example.com")
	otherToken := sessionToken(t, env, "other@example.com")

	resp := env.do(t, http.MethodPost, "/api/products",
		`{"name":"Lamp","description":"desk lamp","price":29.99,"category":"home"}`, ownerToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
	}
	decodeJSON(t, resp, &created)
	if created.UserID == "" {
		t.Fatalf("expected owner on created product")
	}

	// non-owner reads and mutations are forbidden, not missing
	resp = env.do(t, http.MethodGet, "/api/products/"+created.ID, "", otherToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner read, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodDelete, "/api/products/"+created.ID, "", otherToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/products/missing", "", ownerToken)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodDelete, "/api/products/"+created.ID, "", ownerToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected owner delete to succeed, got %d", resp.StatusCode)
	}
}

func TestAdminOverridesOwnershipOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Owner", "owner@example.com")
	ownerToken := sessionToken(t, env, "owner@example.com")

	// promote a second account to admin directly in the store
	signup(t, env, "Admin", "admin@example.com")
	for _, user := range env.users.users {
		if user.Email == "admin@example.com" {
			user.Role = domain.RoleAdmin
		}
	}
	adminToken := sessionToken(t, env, "admin@example.com")

	resp := env.do(t, http.MethodPost, "/api/products",
		`{"name":"Lamp","price":29.99}`, ownerToken)
	var created struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &created)

	resp = env.do(t, http.MethodPut, "/api/products/"+created.ID,
		`{"name":"Lamp v2","price":35}`, adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected admin update to succeed, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodDelete, "/api/products/"+created.ID, "", adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected admin delete to succeed, got %d", resp.StatusCode)
	}
}

func TestCaseVariantAPIPathRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Owner", "owner@example.com")
	ownerToken := sessionToken(t, env, "owner@example.com")

	resp := env.do(t, http.MethodPost, "/api/products",
		`{"name":"Lamp","price":29.99}`, ownerToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/products", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 on /api/products without session, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/API/products", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 on /API/products without session, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/Dashboard/products", "", "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected login redirect on /Dashboard/products without session, got %d", resp.StatusCode)
	}
}

func TestProductListRejectsNonNumericFilters(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")
	token := sessionToken(t, env, "jo@example.com")

	resp := env.do(t, http.MethodGet, "/api/products?minPrice=abc", "", token)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric filter, got %d", resp.StatusCode)
	}
}

func TestCatalogImportOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")
	token := sessionToken(t, env, "jo@example.com")

	resp := env.do(t, http.MethodPost, "/api/import-fakestore", "", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Success  bool `json:"success"`
		Products []struct {
			Name   string `json:"name"`
			UserID string `json:"userId"`
		} `json:"products"`
	}
	decodeJSON(t, resp, &body)
	if !body.Success || len(body.Products) != 1 {
		t.Fatalf("unexpected import response %+v", body)
	}
	if body.Products[0].Name != "Feed Item" {
		t.Fatalf("unexpected imported product %+v", body.Products[0])
	}

	resp = env.do(t, http.MethodPost, "/api/import-fakestore", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestDashboardRedirectsWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/dashboard/products", "", "")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect, got %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "/login?from=") {
		t.Fatalf("unexpected redirect target %q", location)
	}
}

func TestUnmatchedDashboardPathRendersHTMLError(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")
	token := sessionToken(t, env, "jo@example.com")

	resp := env.do(t, http.MethodGet, "/dashboard/nope", "", token)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html error page, got %q", ct)
	}
}

func TestDashboardRendersForAuthenticatedUser(t *testing.T) {
	env := newTestEnv(t)
	signup(t, env, "Jo", "jo@example.com")
	token := sessionToken(t, env, "jo@example.com")

	resp := env.do(t, http.MethodGet, "/dashboard/products", "", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html response, got %q", ct)
	}
}
