package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/auth"
	"github.com/spec-kit/inventory-service/internal/domain"
	"github.com/spec-kit/inventory-service/internal/service"
	apperrors "github.com/spec-kit/inventory-service/pkg/util"
)

//go:embed templates/*.html
var templateFS embed.FS

// PagesHandler serves the server-rendered dashboard UI. Protected pages rely
// on the access gate for authentication; handlers only consume the attached
// identity.
type PagesHandler struct {
	products  *service.ProductService
	templates *template.Template
}

// NewPagesHandler parses the embedded templates.
func NewPagesHandler(productService *service.ProductService) (*PagesHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PagesHandler{products: productService, templates: tmpl}, nil
}

type pageData struct {
	Identity *domain.Identity
	From     string
	Products []domain.Product
	Product  *domain.Product
	Filter   service.ProductListFilter
	Error    string
}

// Home GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	return h.render(c, http.StatusOK, "home.html", pageData{Identity: identity})
}

// Login GET /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return h.render(c, http.StatusOK, "login.html", pageData{From: c.Query("from")})
}

// Signup GET /signup.
func (h *PagesHandler) Signup(c *fiber.Ctx) error {
	return h.render(c, http.StatusOK, "signup.html", pageData{})
}

// Products GET /dashboard/products.
func (h *PagesHandler) Products(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	filter, err := parseProductQuery(c)
	if err != nil {
		return h.renderError(c, err)
	}
	products, err := h.products.List(c.Context(), filter)
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, http.StatusOK, "products.html", pageData{
		Identity: identity,
		Products: products,
		Filter:   filter,
	})
}

// NewProduct GET /dashboard/products/new.
func (h *PagesHandler) NewProduct(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	return h.render(c, http.StatusOK, "product_new.html", pageData{Identity: identity})
}

// ProductDetail GET /dashboard/products/:id.
func (h *PagesHandler) ProductDetail(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	product, err := h.products.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, http.StatusOK, "product_detail.html", pageData{
		Identity: identity,
		Product:  product,
	})
}

// NotFound renders the HTML error page for unmatched dashboard paths.
func (h *PagesHandler) NotFound(c *fiber.Ctx) error {
	return h.renderError(c, apperrors.NewNotFound("page", nil))
}

func (h *PagesHandler) render(c *fiber.Ctx, status int, name string, data pageData) error {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func (h *PagesHandler) renderError(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	return h.render(c, domainErr.HTTPStatus, "error.html", pageData{Error: domainErr.Message})
}
