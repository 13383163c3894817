package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/interfaces/http/handlers"
)

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	registerAPIV1Routes(r, routeDeps{
		walletHandler:  &handlers.WalletHandler{},
		webhookHandler: &handlers.WebhookHandler{},
		adminHandler:   &handlers.AdminHandler{},
		authMiddleware: func(c *gin.Context) { c.Next() },
	})

	routes := r.Routes()
	expects := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/wallet/balance"},
		{"POST", "/api/v1/wallet/add-funds"},
		{"POST", "/api/v1/wallet/withdraw"},
		{"GET", "/api/v1/wallet/transactions"},
		{"GET", "/api/v1/wallet/transactions/stats"},
		{"POST", "/api/v1/wallet/stripe/webhook"},
		{"GET", "/api/v1/admin/wallets/:accountId"},
		{"GET", "/api/v1/admin/wallets/:accountId/reconcile"},
	}
	if len(routes) != len(expects) {
		t.Fatalf("expected %d routes, got %d", len(expects), len(routes))
	}

	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRegisterAPIV1Routes_AuthGuardsWalletRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, routeDeps{
		walletHandler:  &handlers.WalletHandler{},
		webhookHandler: &handlers.WebhookHandler{},
		adminHandler:   &handlers.AdminHandler{},
		authMiddleware: func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) },
	})

	for _, path := range []string{"/api/v1/wallet/balance", "/api/v1/admin/wallets/abc"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRegisterAPIV1Routes_WebhookIsPublic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, routeDeps{
		walletHandler:  &handlers.WalletHandler{},
		webhookHandler: &handlers.WebhookHandler{},
		adminHandler:   &handlers.AdminHandler{},
		authMiddleware: func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) },
	})

	// No signature header: rejected by the handler itself, not by auth.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/stripe/webhook", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected an error body from the webhook handler")
	}
}

func TestRegisterAPIV1Routes_AdminRequiresAdminRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, routeDeps{
		walletHandler:  &handlers.WalletHandler{},
		webhookHandler: &handlers.WebhookHandler{},
		adminHandler:   &handlers.AdminHandler{},
		authMiddleware: func(c *gin.Context) {
			c.Set("userRole", "STUDENT")
			c.Next()
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/wallets/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
