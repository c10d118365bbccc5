package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/persistence"
)

func TestHealthHandler_Live(t *testing.T) {
	handler := NewHealthHandler("inventory", "1.2.3", &persistence.Postgres{}, &persistence.Redis{})

	app := fiber.New()
	app.Get("/health/live", handler.Live)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "alive" || body.Service != "inventory" || body.Version != "1.2.3" {
		t.Fatalf("unexpected liveness payload %+v", body)
	}
}

func TestHealthHandler_ReadyDegradedWithoutDependencies(t *testing.T) {
	handler := NewHealthHandler("inventory", "1.2.3", &persistence.Postgres{}, &persistence.Redis{})

	app := fiber.New()
	app.Get("/health/ready", handler.Ready)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when dependencies are down, got %d", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "DEPENDENCY_UNAVAILABLE" {
		t.Fatalf("expected DEPENDENCY_UNAVAILABLE, got %q", body.Error.Code)
	}
	for _, dep := range []string{"postgres", "redis"} {
		detail, ok := body.Error.Details[dep]
		if !ok || detail == "ok" {
			t.Fatalf("expected failure detail for %s, got %q", dep, detail)
		}
	}
}
